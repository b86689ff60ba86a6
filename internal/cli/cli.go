// Package cli provides the scanctl command-line interface: account flows,
// dashboard reads and the inventory assistant.
package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"scan-dashboard/internal/common/config"
	"scan-dashboard/internal/common/errors"
	apihttp "scan-dashboard/internal/common/http"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/common/tokenstore"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAuth       = 2
	ExitBackend    = 3
	ExitInternal   = 4
)

// Version is set at build time.
var Version = "0.1.0"

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command

	cfg        *config.Config
	log        logger.Logger
	store      tokenstore.Store
	closeStore func() error
	in         *bufio.Reader

	// Global flags
	configPath string
	baseURL    string
	jsonOutput bool
	debug      bool
}

// New creates a new CLI instance.
func New() *CLI {
	c := &CLI{}
	c.rootCmd = c.newRootCmd()
	return c
}

// SetOutput redirects stdout and stderr, mainly for tests.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

func (c *CLI) SetArgs(args []string) { c.rootCmd.SetArgs(args) }

// Execute runs the CLI and maps the outcome onto an exit code.
func (c *CLI) Execute(ctx context.Context) int {
	err := c.rootCmd.ExecuteContext(ctx)
	// cobra skips post-run hooks when a command fails, so the store is
	// released here for every outcome.
	if cerr := c.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(c.rootCmd.ErrOrStderr(), "scanctl: %v\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	var rejected *backendError
	switch {
	case stderrors.Is(err, errors.ErrAuthenticationFailed), stderrors.Is(err, errors.ErrSessionNotFound):
		return ExitAuth
	case stderrors.Is(err, errors.ErrValidation):
		return ExitValidation
	case stderrors.As(err, &rejected):
		if rejected.kind == apihttp.KindValidation {
			return ExitValidation
		}
		return ExitBackend
	}
	return ExitInternal
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scanctl",
		Short: "Inventory scanning dashboard client",
		Long: `scanctl talks to the inventory scanning backend.

It signs in, keeps the session in the configured token store, reads the
dashboard endpoints and answers questions about scan and inventory data.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "backend base URL (overrides config)")
	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")
	cmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "verbose debug logs")

	cmd.AddCommand(c.newSignupCmd())
	cmd.AddCommand(c.newLoginCmd())
	cmd.AddCommand(c.newLogoutCmd())
	cmd.AddCommand(c.newForgotPasswordCmd())
	cmd.AddCommand(c.newVerifyOTPCmd())
	cmd.AddCommand(c.newResendOTPCmd())
	cmd.AddCommand(c.newResetPasswordCmd())
	cmd.AddCommand(c.newProfileCmd())
	cmd.AddCommand(c.newDashboardCmd())
	cmd.AddCommand(c.newAskCmd())
	cmd.AddCommand(c.newSuggestionsCmd())
	cmd.AddCommand(c.newServeCmd())

	return cmd
}

func (c *CLI) init(ctx context.Context) error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFromFile(c.configPath)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if c.baseURL != "" {
		c.cfg.API.BaseURL = c.baseURL
	}

	opts := logger.Options{
		Level:  c.cfg.Logging.Level,
		Format: c.cfg.Logging.Format,
		Output: c.cfg.Logging.Output,
	}
	if c.debug {
		opts.Level = "debug"
	}
	// keep stdout for command output
	if opts.Output == "" || opts.Output == "stdout" {
		opts.Output = "stderr"
	}
	c.log = logger.NewFromOptions(opts)

	c.store, c.closeStore, err = tokenstore.Open(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	return nil
}

func (c *CLI) close() error {
	if c.closeStore == nil {
		return nil
	}
	err := c.closeStore()
	c.closeStore = nil
	return err
}

// client builds an API client over the configured token store.
func (c *CLI) client() *apihttp.Client {
	return apihttp.NewFromConfig(c.cfg.API, c.store, c.log)
}

func (c *CLI) stdout() io.Writer { return c.rootCmd.OutOrStdout() }

