package retry

import (
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/quarrydb/native-connector-go/common"
)

type ErrorChecker func(err error) bool

// ErrorCheckerMakeConnectionCommon recognizes the transient failures of
// the connection establishment phase: network timeouts and refusals,
// flaky DNS, and connection-level failures reported by the database
// drivers themselves (a backend that is still starting up, for one).
func ErrorCheckerMakeConnectionCommon(err error) bool {
	// 'i/o timeout'
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	// 'connection refused'
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var dnsError *net.DNSError
	if errors.As(err, &dnsError) && (dnsError.IsTemporary || dnsError.IsTimeout) {
		return true
	}

	return common.IsRetriableError(err)
}

func ErrorCheckerNoop(_ error) bool {
	return false
}
