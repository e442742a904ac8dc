package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paiban/shiftplan/internal/repository"
	"github.com/paiban/shiftplan/pkg/agent"
	"github.com/paiban/shiftplan/pkg/evals"
	"github.com/paiban/shiftplan/pkg/router"
	"github.com/paiban/shiftplan/pkg/store"
	"github.com/paiban/shiftplan/pkg/tools"
)

func (a *app) chatCmd() *cobra.Command {
	var (
		configPath   string
		schedulePath string
		backend      string
		maxSteps     int
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Run the offline scheduling assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loader.Load(configPath)
			if err != nil {
				return err
			}

			var st store.Store
			switch backend {
			case "file":
				st = store.NewFileStore(schedulePath)
			case "postgres":
				repo, closeDB, err := a.openRepository(cmd.Context())
				if err != nil {
					return err
				}
				defer closeDB()
				st = repository.NewScheduleStore(repo, cfg.Name())
			default:
				return fmt.Errorf("unknown store %q (file|postgres)", backend)
			}

			ag := agent.New(cfg, tools.DefaultRegistry(a.facade), router.Default(), st)
			ag.SetMaxSteps(maxSteps)
			return ag.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "problem config file")
	cmd.Flags().StringVar(&schedulePath, "schedule-path", "outputs/last_schedule.json", "where generated schedules are kept")
	cmd.Flags().StringVar(&backend, "store", "file", "schedule store (file|postgres)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", agent.DefaultMaxSteps, "maximum number of inputs per session")
	cmd.MarkFlagRequired("config")
	return cmd
}

func (a *app) evalCmd() *cobra.Command {
	var dataset string
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run a JSONL evaluation dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := evals.ReadDataset(dataset)
			if err != nil {
				return err
			}
			summary := evals.NewHarness(a.facade, a.loader).Run(cmd.Context(), cases)
			if err := printJSON(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			if !summary.OK() {
				return fmt.Errorf("eval: %d of %d case(s) failed", len(summary.Failed), summary.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "testdata/smoke.jsonl", "JSONL dataset path")
	return cmd
}
