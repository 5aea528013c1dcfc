// Package main provides the resume_extractor command line tool and HTTP
// server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_extractor",
	Short: "Multi-layer resume extraction",
	Long: `Resume Extractor turns raw resume text into a structured, verified record.

Text is structured by a language model (or a heuristic parser when none is
configured), optionally cross-checked against the rendered document, then
classified, verified, normalized and stored as a snapshot.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
