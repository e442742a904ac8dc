package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/paiban/shiftplan/internal/constraints"
	"github.com/paiban/shiftplan/internal/repository"
	"github.com/paiban/shiftplan/pkg/model"
	"github.com/paiban/shiftplan/pkg/store"
	"github.com/paiban/shiftplan/pkg/tools"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		configPath string
		outPath    string
		saveDB     bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a schedule from a config",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := a.loader.Load(configPath)
			if err != nil {
				return err
			}

			out, err := tools.DefaultRegistry(a.facade).Call(ctx, tools.ToolGenerate, tools.Request{Config: cfg})
			if err != nil {
				return err
			}
			res := out.(*tools.GenerateResult)

			if err := store.SaveSchedule(outPath, res.Schedule); err != nil {
				return err
			}

			summary := struct {
				*tools.GenerateResult
				Schedule *model.Schedule `json:"schedule,omitempty"`
			}{GenerateResult: res}
			if err := printJSON(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote schedule to: %s\n", outPath)

			if !saveDB {
				return nil
			}
			score, err := a.facade.Score(cfg, res.Schedule)
			if err != nil {
				return err
			}
			repo, closeDB, err := a.openRepository(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			run := repository.RunFromResult(cfg, res, score.Total)
			if err := repo.Create(ctx, run); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved run: %s\n", run.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "problem config file (.json/.yaml)")
	cmd.Flags().StringVar(&outPath, "out", "", "schedule output file (.json/.yaml)")
	cmd.Flags().BoolVar(&saveDB, "save-db", false, "also record the run in PostgreSQL")
	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("out")
	return cmd
}

// toolCmd validate 和 score 共用：读取配置与排班后输出 JSON
func (a *app) toolCmd(use, short, tool string) *cobra.Command {
	var configPath, schedulePath string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.callWithSchedule(cmd, tool, configPath, schedulePath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "problem config file")
	cmd.Flags().StringVar(&schedulePath, "schedule", "", "schedule file")
	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("schedule")
	return cmd
}

func (a *app) explainCmd() *cobra.Command {
	var configPath, schedulePath, outPath string
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain a schedule in markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.callWithSchedule(cmd, tools.ToolExplain, configPath, schedulePath)
			if err != nil {
				return err
			}
			md := out.(tools.ExplainResult).Markdown
			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), md)
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "problem config file")
	cmd.Flags().StringVar(&schedulePath, "schedule", "", "schedule file")
	cmd.Flags().StringVar(&outPath, "out", "", "optional output markdown path")
	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("schedule")
	return cmd
}

func (a *app) constraintsCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "constraints",
		Short: "List the built-in constraints and soft objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := constraints.GetLibrary()
			if configPath != "" {
				cfg, err := a.loader.Load(configPath)
				if err != nil {
					return err
				}
				lib = constraints.Library(cfg.Policies, cfg.Preferences)
			}
			return printJSON(cmd.OutOrStdout(), constraints.LibraryResponse{Library: lib})
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "optional problem config whose policies fill the defaults")
	return cmd
}

func (a *app) callWithSchedule(cmd *cobra.Command, tool, configPath, schedulePath string) (any, error) {
	cfg, err := a.loader.Load(configPath)
	if err != nil {
		return nil, err
	}
	sched, err := store.LoadSchedule(schedulePath)
	if err != nil {
		return nil, err
	}
	return tools.DefaultRegistry(a.facade).Call(cmd.Context(), tool, tools.Request{Config: cfg, Schedule: sched})
}
