package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helioseng/helios"
	"github.com/helioseng/helios/rule"
)

func newCompileCmd() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "compile a rule file and print model statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := loadRules(rulesPath)
			if err != nil {
				return err
			}
			m, err := helios.Compile(defs)
			if err != nil {
				return fmt.Errorf("compile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generation:    %d\n", m.Generation)
			fmt.Fprintf(cmd.OutOrStdout(), "rules:         %d\n", len(defs))
			fmt.Fprintf(cmd.OutOrStdout(), "predicates:    %d\n", len(m.Predicates))
			fmt.Fprintf(cmd.OutOrStdout(), "combinations:  %d\n", len(m.Combinations))
			return nil
		},
	}
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "path to a JSON rule-definition file (required)")
	_ = cmd.MarkFlagRequired("rules")
	return cmd
}

// loadRules reads a JSON array of rule.Definition from path.
func loadRules(path string) ([]rule.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	var defs []rule.Definition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing rule file: %w", err)
	}
	return defs, nil
}
