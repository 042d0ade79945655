package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"careerprep-backend/resume/render"
)

var exportCmd = &cobra.Command{
	Use:   "export <doc.json>",
	Short: "Export a resume document as plain text or PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var (
	exportFormat string
	exportOut    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "text", "Output format: text or pdf")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (required for pdf; text defaults to stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("document is not exportable: %w", err)
	}
	for _, problem := range doc.FieldProblems() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", problem)
	}

	switch strings.ToLower(exportFormat) {
	case "text", "txt":
		text := render.Text(doc)
		if exportOut == "" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		}
		return os.WriteFile(exportOut, []byte(text), 0o644)
	case "pdf":
		if exportOut == "" {
			return fmt.Errorf("--out is required for pdf output")
		}
		data, err := render.PDF(doc)
		if err != nil {
			return err
		}
		return os.WriteFile(exportOut, data, 0o644)
	default:
		return fmt.Errorf("unknown format %q (want text or pdf)", exportFormat)
	}
}
