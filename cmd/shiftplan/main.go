// shiftplan 排班引擎命令行
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/paiban/shiftplan/internal/config"
	"github.com/paiban/shiftplan/internal/database"
	"github.com/paiban/shiftplan/internal/repository"
	"github.com/paiban/shiftplan/pkg/loader"
	"github.com/paiban/shiftplan/pkg/logger"
	"github.com/paiban/shiftplan/pkg/tools"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app 命令共享的状态，在 PersistentPreRunE 中初始化
type app struct {
	logLevel  string
	logFormat string
	envFile   string

	runtime *config.Config
	loader  *loader.Loader
	facade  *tools.Facade
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "shiftplan",
		Short:         "Shift scheduling engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	pf.StringVar(&a.logFormat, "log-format", "", "log format (json|console)")
	pf.StringVar(&a.envFile, "env-file", ".env", "optional .env file with SHIFTPLAN_* settings")

	root.AddCommand(
		a.generateCmd(),
		a.toolCmd("validate", "Validate a schedule against hard constraints", tools.ToolValidate),
		a.toolCmd("score", "Score a schedule with soft preferences", tools.ToolScore),
		a.explainCmd(),
		a.constraintsCmd(),
		a.chatCmd(),
		a.evalCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	rc, err := config.Load(a.envFile)
	if err != nil {
		return fmt.Errorf("load runtime config: %w", err)
	}
	if a.logLevel != "" {
		rc.App.LogLevel = a.logLevel
	}
	switch a.logFormat {
	case "":
	case "json", "console":
		rc.App.LogFormat = a.logFormat
	default:
		return fmt.Errorf("invalid --log-format %q (json|console)", a.logFormat)
	}

	lc := rc.Logger()
	lc.Output = "stderr"
	logger.Init(lc)

	a.runtime = rc
	a.loader = loader.New(loader.DefaultEnvPrefix)
	a.facade = tools.NewFacade()
	return nil
}

// openRepository 连接数据库并执行迁移
func (a *app) openRepository(ctx context.Context) (*repository.ScheduleRunRepository, func(), error) {
	db, err := database.New(ctx, &a.runtime.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewScheduleRunRepository(db), func() { db.Close() }, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
