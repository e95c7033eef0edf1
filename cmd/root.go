package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/waifuctl/config"
	"github.com/s0up4200/waifuctl/mywaifulist"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  = zerolog.Nop()
	client  mywaifulist.API

	// Global flags
	outputFormat string
	filterExpr   string
	preset       string

	version   = "dev"
	buildTime = "unknown"
)

// skipInit marks commands that run without configuration or an API client
const skipInit = "skip-init"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "waifuctl",
	Short: "Browse MyWaifuList from the command line",
	Long: `waifuctl is a CLI for the MyWaifuList API. It fetches waifus, series,
airing lists and user profiles, and prints them as tables or JSON.

List output can be narrowed with --filter expressions such as
'Likes > 1000 and not Husbando' or with presets defined in the config file.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupting the process cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion records the build information reported by the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table or json (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to list output")
	rootCmd.PersistentFlags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

// initializeApp loads the configuration and creates the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	if _, ok := cmd.Annotations[skipInit]; ok {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	if outputFormat != "" {
		if outputFormat != "table" && outputFormat != "json" {
			return fmt.Errorf("invalid output format: %s (must be 'table' or 'json')", outputFormat)
		}
		cfg.Output.Format = outputFormat
	}

	opts, err := cfg.ClientOptions()
	if err != nil {
		return fmt.Errorf("invalid transport configuration: %w", err)
	}
	// transport.user_agent, when set, overrides the versioned default
	opts = append([]mywaifulist.Option{mywaifulist.WithUserAgent(userAgent())}, opts...)
	opts = append(opts, mywaifulist.WithLogger(logger))

	client, err = mywaifulist.NewClient(cfg.API.APIKey, opts...)
	if err != nil {
		return fmt.Errorf("failed to create MyWaifuList client: %w", err)
	}

	logger.Debug().
		Str("url", cfg.API.URL).
		Dur("timeout", cfg.API.Timeout).
		Int("pool_size", cfg.Transport.PoolSize).
		Msg("MyWaifuList client initialized")

	return nil
}

// shutdownApp releases the client's workers and connections
func shutdownApp(cmd *cobra.Command, args []string) error {
	if client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := client.Close(ctx)
	client = nil
	if err != nil {
		return fmt.Errorf("failed to close client: %w", err)
	}
	return nil
}

func userAgent() string {
	return "waifuctl/" + version
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
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
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to MyWaifuList",
	Long:  `Test the connection to the MyWaifuList API by fetching the daily waifu.`,
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to MyWaifuList at %s...\n", cfg.API.URL)

	start := time.Now()
	if err := client.TestConnection(cmd.Context()); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	fmt.Fprintf(out, "✓ Connection successful! (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}
