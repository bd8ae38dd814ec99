package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "prompttest",
	Short:        "Preview cover letter prompts and inspect the letter cache",
	Long:         "prompttest assembles the cover letter prompt for a resume and job description, optionally sends it to the model, and reports on cached letters.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
