package main

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/helioseng/helios"
	"github.com/helioseng/helios/event"
)

func newBenchCmd() *cobra.Command {
	var rulesPath, eventsPath string
	var iterations, workers int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "compile a rule file and measure sustained evaluation throughput",
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
			if len(evs) == 0 {
				return fmt.Errorf("event file has no events")
			}
			if workers <= 0 {
				workers = runtime.GOMAXPROCS(0)
			}

			ev := helios.NewEvaluator(m)
			total := int64(iterations) * int64(len(evs))
			var matched int64

			start := time.Now()
			var wg sync.WaitGroup
			jobs := make(chan *event.Event, workers*4)
			ctx := context.Background()
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for e := range jobs {
						res, err := ev.Evaluate(ctx, e)
						if err == nil && res.MatchedCount > 0 {
							atomic.AddInt64(&matched, 1)
						}
					}
				}()
			}
			for i := 0; i < iterations; i++ {
				for _, e := range evs {
					jobs <- e
				}
			}
			close(jobs)
			wg.Wait()
			elapsed := time.Since(start)

			fmt.Fprintf(cmd.OutOrStdout(), "events:      %d\n", total)
			fmt.Fprintf(cmd.OutOrStdout(), "matched:     %d\n", matched)
			fmt.Fprintf(cmd.OutOrStdout(), "workers:     %d\n", workers)
			fmt.Fprintf(cmd.OutOrStdout(), "elapsed:     %s\n", elapsed)
			fmt.Fprintf(cmd.OutOrStdout(), "throughput:  %.0f events/sec\n", float64(total)/elapsed.Seconds())
			return nil
		},
	}
	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "path to a JSON rule-definition file (required)")
	cmd.Flags().StringVarP(&eventsPath, "events", "e", "", "path to a JSON event array file (required)")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "number of times to replay the event file")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent evaluator goroutines (default: GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("rules")
	_ = cmd.MarkFlagRequired("events")
	return cmd
}
