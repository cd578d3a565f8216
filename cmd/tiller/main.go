package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┬┬  ┬  ┌─┐┬─┐
   │ ││  │  ├┤ ├┬┘
   ┴ ┴┴─┘┴─┘└─┘┴└─
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "tiller",
		Short: "Build tooling for tiller single-page applications",
		Long: `Tiller is a fine-grained UI state and routing library for Go
single-page applications compiled to WebAssembly.

This CLI builds, serves, and deploys tiller apps:

  • dev: watch, rebuild, and live-reload in the browser
  • build: produce the wasm bundle and static scaffolding
  • deploy: sync the build output to S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		devCmd(),
		buildCmd(),
		deployCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the tiller ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
