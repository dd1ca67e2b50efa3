package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// Populated at build time via -ldflags.
var (
	Tag        string
	CommitHash string
	Branch     string
	CommitDate string
)

var Cmd = &cobra.Command{
	Use:   "version",
	Short: "version of current build",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(GetInfo())
	},
}

func GetInfo() string {
	sb := strings.Builder{}

	sb.WriteString("Git info:\n")
	sb.WriteString(fmt.Sprintf("\tBranch: %s\n", Branch))
	sb.WriteString(fmt.Sprintf("\tCommit: %s\n", CommitHash))
	sb.WriteString(fmt.Sprintf("\tTag: %s\n", Tag))
	sb.WriteString(fmt.Sprintf("\tCommit Date: %s\n\n", CommitDate))
	sb.WriteString("Build info:\n")
	sb.WriteString(fmt.Sprintf("\tCompiler version: %s\n", runtime.Version()))

	return sb.String()
}
