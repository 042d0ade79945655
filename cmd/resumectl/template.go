package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"careerprep-backend/resume/templates"
)

var templateCmd = &cobra.Command{
	Use:   "template [name]",
	Short: "Print a sample resume template, or list template names",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplate,
}

func init() {
	rootCmd.AddCommand(templateCmd)
}

func runTemplate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range templates.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}
	doc, ok := templates.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown template %q (available: %s)", args[0], strings.Join(templates.Names(), ", "))
	}
	return writeJSON(cmd.OutOrStdout(), doc)
}
