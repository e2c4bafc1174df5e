package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/linkmapper/linkmapper/internal/config"
	"github.com/linkmapper/linkmapper/pkg/crawler"
	"github.com/linkmapper/linkmapper/pkg/reporter"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "linkmapper",
	Short: "linkmapper - map every link on a single website",
	Long: `linkmapper crawls a website starting from one seed URL, visiting every
page on the same host, and records the outbound links of each page along
with the set of unique links discovered across the whole site.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [URL]",
	Short: "Crawl a site and write its link maps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seedURL := args[0]

		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, err := buildLogger(cfg.Logging)
		if err != nil {
			return err
		}

		c, err := crawler.New(seedURL, crawler.Options{
			Workers:    cfg.Crawler.Workers,
			MaxPages:   cfg.Crawler.MaxPages,
			MaxElapsed: cfg.Crawler.MaxElapsed,
			Fetcher: crawler.NewHTTPFetcher(crawler.FetcherOptions{
				Timeout:           cfg.Crawler.Timeout,
				UserAgent:         cfg.Crawler.UserAgent,
				RequestsPerSecond: cfg.Crawler.RequestsPerSecond,
			}),
			Logger: logger,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := c.Run(ctx)
		if err != nil {
			return fmt.Errorf("crawl failed: %w", err)
		}

		sink, err := reporter.New(cfg.Output.Dir, reporter.Format(cfg.Output.Format))
		if err != nil {
			return err
		}
		if err := sink.WritePerPageLinks(report); err != nil {
			return fmt.Errorf("failed to write per-page links: %w", err)
		}
		if err := sink.WriteUniqueLinks(report); err != nil {
			return fmt.Errorf("failed to write unique links: %w", err)
		}

		reporter.PrintSummary(cmd.OutOrStdout(), report)
		return nil
	},
}

// applyFlags overrides config values with any flags set on the command
// line. Flags win over file and environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("workers") {
		cfg.Crawler.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("max-pages") {
		cfg.Crawler.MaxPages, _ = cmd.Flags().GetInt("max-pages")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Crawler.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Dir, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format, _ = cmd.Flags().GetString("format")
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
}

func buildLogger(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

func init() {
	crawlCmd.Flags().Int("workers", 8, "Number of concurrent crawl workers")
	crawlCmd.Flags().Int("max-pages", 0, "Maximum URLs to visit, 0 for no limit")
	crawlCmd.Flags().Duration("timeout", 0, "Per-request timeout")
	crawlCmd.Flags().String("output", ".", "Directory for the output artifacts")
	crawlCmd.Flags().String("format", "json", "Output format (json or csv)")

	rootCmd.AddCommand(crawlCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
