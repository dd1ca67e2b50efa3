package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarrydb/native-connector-go/app/server"
	"github.com/quarrydb/native-connector-go/app/version"
)

var rootCmd = &cobra.Command{
	Use:   "connector",
	Short: "Native storage connector for the query engine",
}

func init() {
	rootCmd.AddCommand(server.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
