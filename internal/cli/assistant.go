package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scan-dashboard/internal/assistant"
	"scan-dashboard/internal/common/observability"
	"scan-dashboard/internal/inventory"
	"scan-dashboard/internal/server"
)

// newAssistant opens the configured snapshot source. The returned function
// releases it.
func (c *CLI) newAssistant(ctx context.Context, opts ...assistant.Option) (*assistant.Assistant, func() error, error) {
	source, closeSource, err := inventory.Open(ctx, c.cfg, c.log)
	if err != nil {
		return nil, closeSource, err
	}
	return assistant.New(source, c.log, opts...), closeSource, nil
}

func (c *CLI) newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the inventory assistant a question",
		Example: `  scanctl ask "How many scans this week?"
  scanctl ask which items are running low`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeSource, err := c.newAssistant(cmd.Context())
			if err != nil {
				return err
			}
			defer closeSource()

			answer := a.Ask(cmd.Context(), strings.Join(args, " "))
			if c.jsonOutput {
				return c.outputJSON(answer)
			}
			fmt.Fprintln(c.stdout(), answer.Response)
			return nil
		},
	}
}

func (c *CLI) newSuggestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggestions",
		Short: "List example questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			questions := assistant.SuggestedQuestions()
			if c.jsonOutput {
				return c.outputJSON(questions)
			}
			for _, q := range questions {
				fmt.Fprintf(c.stdout(), "  • %s\n", q)
			}
			return nil
		},
	}
}

func (c *CLI) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant over HTTP",
		Long: `Serve the assistant over HTTP with /api/assistant/query,
/api/assistant/suggestions, /healthz and /metrics. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var opts []assistant.Option
			if c.cfg.Observability.MetricsEnabled {
				obs, err := observability.New(c.cfg.Observability.ServiceName)
				if err != nil {
					c.log.Warn("OpenTelemetry metrics unavailable", map[string]interface{}{"error": err.Error()})
				}
				defer obs.Shutdown()
				opts = append(opts, assistant.WithObservability(obs))
			}

			a, closeSource, err := c.newAssistant(ctx, opts...)
			if err != nil {
				return err
			}
			defer closeSource()

			cfg := c.cfg.Server
			if addr != "" {
				cfg.Address = addr
			}
			srv := server.New(cfg, a, c.log)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(cfg.ShutdownTimeout)*time.Millisecond)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown failed: %w", err)
			}
			return <-errCh
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
