package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/engage/config"
	"github.com/s0up4200/engage/engage"
)

var (
	cfgFile string
	baseURL string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *engage.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "engage",
	Short: "A command line client for the Janrain Engage API",
	Long: `engage calls the Janrain Engage (RPX) API: it exchanges sign-in tokens
for user profiles, manages identifier to primary key mappings and retrieves
contact lists. It also picks the best supported widget language for a locale.`,
	PersistentPreRunE: initializeConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "override the Engage API base URL")
}

// initializeConfig loads the configuration and sets up the logger
func initializeConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("base-url") {
		cfg.Engage.BaseURL = baseURL
	}

	logger = setupLogger(cfg.Logging, cmd.ErrOrStderr())
	return nil
}

// initializeClient creates the Engage client for commands that call the API
func initializeClient(cmd *cobra.Command, args []string) error {
	var err error
	client, err = cfg.NewClient(logger)
	if err != nil {
		return fmt.Errorf("failed to create Engage client: %w", err)
	}

	logger.Debug().Str("base_url", client.BaseURL()).Msg("Engage client ready")
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatError renders API failures as "code (description): message"
func formatError(err error) string {
	var apiErr *engage.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Error: %d (%s): %s", apiErr.Code, apiErr.Code, apiErr.Message)
	}
	return "Error: " + err.Error()
}
