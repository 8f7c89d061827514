package main

import (
	"fmt"
	"os"

	"github.com/daywise-ai/daywise/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "daywised",
		Short: "Daywise daemon",
		Long:  "Daywise daemon for running the adaptive daily-learning API server",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(cli.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
