package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"careerprep-backend/internal/extract"
	"careerprep-backend/resume/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a resume file (txt, pdf, docx) into structured JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args[0])
	if err != nil {
		return err
	}
	doc := parser.Parse(text)
	if doc.IsEmpty() {
		return fmt.Errorf("no resume content recognised in %s", args[0])
	}
	return writeJSON(cmd.OutOrStdout(), doc)
}

// readText returns plain text for a file, extracting from pdf and docx.
func readText(cmd *cobra.Command, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return string(data), nil
	}
	return extract.FromBytes(cmd.Context(), data, "", filepath.Base(path))
}
