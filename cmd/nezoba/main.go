package main

import (
	"os"

	"github.com/nezoba/nezoba/cmd/cli"
	"github.com/nezoba/nezoba/pkg/version"
)

func main() {
	// Set custom version template that shows more detailed version info
	cli.RootCmd.SetVersionTemplate(version.GetInfo().String() + "\n")
	if err := cli.RootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with error code
		os.Exit(1)
	}
}
