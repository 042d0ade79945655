package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"careerprep-backend/resume/parser"
	"careerprep-backend/resume/reconcile"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <current.json> <generated.txt>",
	Short: "Merge generated resume text into an existing document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(cmd, reconcile.ModeMerge, args[0], args[1])
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace <current.json> <generated.txt>",
	Short: "Replace the sections present in generated resume text",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(cmd, reconcile.ModeReplace, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd, replaceCmd)
}

func runReconcile(cmd *cobra.Command, mode reconcile.Mode, currentPath, textPath string) error {
	current, err := readDocument(currentPath)
	if err != nil {
		return err
	}
	text, err := readText(cmd, textPath)
	if err != nil {
		return err
	}
	parsed := parser.Parse(text)
	if parsed.IsEmpty() {
		return fmt.Errorf("no resume content recognised in %s", textPath)
	}
	return writeJSON(cmd.OutOrStdout(), reconcile.Apply(mode, current, parsed))
}
