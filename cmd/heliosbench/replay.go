package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helioseng/helios"
	"github.com/helioseng/helios/event"
)

func newReplayCmd() *cobra.Command {
	var rulesPath, eventsPath string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "compile a rule file and replay a JSON event file against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := loadRules(rulesPath)
			if err != nil {
				return err
			}
			m, err := helios.Compile(defs)
			if err != nil {
				return fmt.Errorf("compile: %w", err)
			}
			evs, err := loadEvents(eventsPath)
			if err != nil {
				return err
			}

			ev := helios.NewEvaluator(m)
			ctx := context.Background()
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, e := range evs {
				result, err := ev.Evaluate(ctx, e)
				if err != nil {
					return fmt.Errorf("evaluating event %q: %w", e.EventID, err)
				}
				if err := enc.Encode(result); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "path to a JSON rule-definition file (required)")
	cmd.Flags().StringVarP(&eventsPath, "events", "e", "", "path to a JSON event array file (required)")
	_ = cmd.MarkFlagRequired("rules")
	_ = cmd.MarkFlagRequired("events")
	return cmd
}

// loadEvents reads a JSON array of event.Event from path.
func loadEvents(path string) ([]*event.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event file: %w", err)
	}
	var evs []*event.Event
	if err := json.Unmarshal(data, &evs); err != nil {
		return nil, fmt.Errorf("parsing event file: %w", err)
	}
	return evs, nil
}
