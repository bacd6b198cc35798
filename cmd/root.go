package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/seaplane/app"
	"github.com/kilianp07/seaplane/config"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/infra/graphql"
	"github.com/kilianp07/seaplane/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "seaplane",
	Short:        "Seaplane delivery planner",
	SilenceUsage: true,
	RunE:         run,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planner service and its HTTP API",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}

// startPlanner loads the configuration and returns a running planner with
// the requested categories loaded. The planner stops when ctx is canceled.
func startPlanner(ctx context.Context, categories ...planning.Category) (*app.Planner, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	backend := graphql.New(cfg.API, logger.New("graphql"))
	session := planning.NewSession(planning.NewRegistries(), nil, nil, logger.New("session"), cfg.Planner.DockedOnlyEnabled())
	p := app.NewPlanner(session, backend, logger.New("planner"), false)
	go p.Run(ctx)
	if err := p.Refresh(ctx, categories...); err != nil {
		return nil, err
	}
	return p, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
