package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kairoscv/resume-extractor/internal/schemas"
)

var (
	validateSnapshot string
	validateSchema   string
	validateJSON     string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a stored snapshot against the resume record schema",
	Long: `Validate a snapshot file written by extract against the embedded resume
record schema, or any JSON file against a schema given with --schema.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateSnapshot, "snapshot", "", "Path to a snapshot JSON file")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to a JSON Schema file (use with --json)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to a JSON file to validate against --schema")
	validateCmd.MarkFlagsRequiredTogether("schema", "json")
	validateCmd.MarkFlagsMutuallyExclusive("snapshot", "schema")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	var err error
	switch {
	case validateSnapshot != "":
		err = schemas.ValidateRecordFile(validateSnapshot)
	case validateSchema != "":
		err = schemas.ValidateJSON(validateSchema, validateJSON)
	default:
		return errors.New("--snapshot or --schema with --json is required")
	}

	if err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprint(os.Stderr, "Validation failed:\n") //nolint:errcheck
			for _, fe := range ve.Errors {
				fmt.Fprintf(os.Stderr, "  - %s: %s\n", fe.Field, fe.Message) //nolint:errcheck
			}
			return fmt.Errorf("%d schema violation(s)", len(ve.Errors))
		}
		return err
	}

	fmt.Fprintln(os.Stdout, "Validation passed") //nolint:errcheck
	return nil
}
