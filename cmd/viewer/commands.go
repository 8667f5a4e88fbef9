package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"text/tabwriter"

	"github.com/dhima/guild-log-viewer/internal/api"
	"github.com/dhima/guild-log-viewer/internal/logging"
	"github.com/dhima/guild-log-viewer/internal/models"
	"github.com/dhima/guild-log-viewer/internal/viewer"
	"github.com/dhima/guild-log-viewer/pkg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appVersion = "1.0.0"

type cli struct {
	loader     *config.Loader
	configPath string
}

func newRootCmd() *cobra.Command {
	c := &cli{loader: config.NewLoader()}

	root := &cobra.Command{
		Use:           "guild-log-viewer",
		Short:         "Viewer for the guild audit log tables",
		Long:          `Serves a page listing the event_logs and message_logs tables, with one filter per event type and a periodic refresh.`,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runServe,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "optional YAML config file")
	if err := c.loader.BindFlags(root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the web page, JSON API and refresh loop",
			RunE:  c.runServe,
		},
		c.fetchCmd(),
		&cobra.Command{
			Use:   "event-types",
			Short: "Print the known event types",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printEventTypes(cmd.OutOrStdout())
			},
		},
	)
	return root
}

func (c *cli) fetchCmd() *cobra.Command {
	var kind, eventType string
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one log table and print the rendered rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runFetch(cmd.Context(), cmd.OutOrStdout(), kind, eventType)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(models.LogKindEvent), "log kind: event or message")
	cmd.Flags().StringVar(&eventType, "event-type", "", "only show this event type (event logs only)")
	return cmd
}

// setup loads and validates the configuration and builds the logger.
func (c *cli) setup() (config.App, logging.Logger, error) {
	cfg, err := c.loader.Load(c.configPath)
	if err != nil {
		return config.App{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.App{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := logging.New(logging.Options{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Encoding:    cfg.LogEncoding,
	})
	if err != nil {
		return config.App{}, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	srv, err := api.NewServer(cfg, logger)
	if err != nil {
		logger.Error("failed to build server", zap.Error(err))
		return err
	}
	return srv.Serve(cmd.Context())
}

func (c *cli) runFetch(ctx context.Context, out io.Writer, rawKind, eventType string) error {
	kind, err := models.ParseLogKind(rawKind)
	if err != nil {
		return err
	}
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	rt, err := api.NewRuntime(cfg, logger, api.Deps{})
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Controller.FetchAndRender(ctx, kind, eventType); err != nil {
		return err
	}
	return printRows(out, rt.Controller.Snapshot().Rows)
}

func printRows(out io.Writer, rows []viewer.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "no rows")
		return err
	}
	for i, row := range rows {
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		for _, f := range row.Fields {
			if _, err := fmt.Fprintf(out, "%s: %s\n", f.Label, f.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func printEventTypes(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CONTROL\tEVENT TYPE\tDESCRIPTION")
	for _, info := range models.EventTypes() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", viewer.EventControlID(info.Type), info.Type, info.Description)
	}
	return w.Flush()
}

// syncLogger flushes the logger. Syncing a terminal stdout/stderr fails with
// EINVAL or ENOTTY, which is ignored.
func syncLogger(logger logging.Logger) {
	err := logger.Sync()
	if err == nil || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return
	}
	fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
}
