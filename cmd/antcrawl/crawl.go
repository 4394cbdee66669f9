package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/antcrawl/ant"
	"github.com/nao1215/antcrawl/config"
	"github.com/nao1215/antcrawl/internal/log"
	"github.com/nao1215/antcrawl/pipeline"
	"github.com/nao1215/antcrawl/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl web sites with the reference link spider",
		Long: `Crawl fetches the given seed URLs, extracts page titles and links,
and follows same-site links up to the configured depth. Collected page
items are dumped as JSON Lines or into a SQLite database.

Examples:
  # Crawl one site, seed page plus directly linked pages
  antcrawl crawl https://example.com

  # Deeper crawl with a page cap and a custom dump location
  antcrawl crawl --depth 3 --max-pages 500 --output pages.jsonl https://example.com

  # Persist items into SQLite instead of JSON Lines
  antcrawl crawl --format sqlite --output pages.db https://example.com

  # Route all traffic through a proxy
  antcrawl crawl --proxy socks5://127.0.0.1:9050 http://example.onion

  # Print the run summary as JSON
  antcrawl crawl --json https://example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Engine behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-attempt request timeout")
	cmd.Flags().IntP("retries", "r", config.DefaultRetries,
		"Retries after the first attempt (0 = exactly one attempt)")
	cmd.Flags().Duration("retry-delay", config.DefaultRetryDelay,
		"Fixed delay between attempts")
	cmd.Flags().String("proxy", "",
		"Proxy URL (http, https, or socks5)")
	cmd.Flags().Int("max-redirects", config.DefaultMaxRedirects,
		"Maximum redirects per request")
	cmd.Flags().Bool("no-redirects", false,
		"Do not follow redirects")
	cmd.Flags().Duration("report-interval", config.DefaultReportInterval,
		"How often throughput rates are logged")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for requests")
	cmd.Flags().Int64P("concurrency", "n", config.DefaultConcurrency,
		"Concurrent scheduled tasks (negative = unlimited)")

	// Spider flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum link-following depth from a seed")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum pages fetched per run")
	cmd.Flags().StringSlice("allow-hosts", nil,
		"Extra host names the spider may follow (seed hosts are always allowed)")
	cmd.Flags().StringP("output", "o", "",
		"Item dump destination (default: XDG data directory)")
	cmd.Flags().StringP("format", "f", "",
		"Item dump format: jsonl or sqlite")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .antcrawl in current or home directory)")

	// Summary flags
	cmd.Flags().BoolP("json", "j", false,
		"Print the run summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as Markdown (mutually exclusive with --json)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if len(cfg.Spider.Seeds) == 0 {
		return errors.New("no seed URLs: pass them as arguments or set spider.seeds in the config file")
	}

	jsonSummary, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownSummary, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonSummary && markdownSummary {
		return errors.New("conflicting summary formats: --json and --markdown cannot be used together")
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cmd, cfg, logger, jsonSummary, markdownSummary)
}

// runCrawl builds the engine from the configuration and drives the
// spider's full lifecycle.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, jsonSummary, markdownSummary bool) error {
	itemDump, err := newItemDump(cfg)
	if err != nil {
		return err
	}

	concurrency := cfg.Concurrency
	if concurrency < 0 {
		concurrency = 0 // unlimited
	}

	opts := []ant.Option{
		ant.WithName(config.AppName),
		ant.WithLogger(logger),
		ant.WithTimeout(cfg.Timeout.Duration),
		ant.WithRetries(*cfg.Retries),
		ant.WithRetryDelay(cfg.RetryDelay.Duration),
		ant.WithMaxRedirects(cfg.MaxRedirects),
		ant.WithAllowRedirects(*cfg.AllowRedirects),
		ant.WithReportInterval(cfg.ReportInterval.Duration),
		ant.WithUserAgent(cfg.UserAgent),
		ant.WithConcurrency(concurrency),
		ant.WithRequestPipelines(pipeline.NewDedupe(), pipeline.NewUserAgent(cfg.UserAgent)),
		ant.WithResponsePipelines(pipeline.NewStatusFilter()),
		ant.WithItemPipelines(itemDump),
	}
	if cfg.Proxy != "" {
		opts = append(opts, ant.WithProxy(cfg.Proxy))
	}

	a, err := ant.New(opts...)
	if err != nil {
		return fmt.Errorf("build crawler: %w", err)
	}

	spider, err := newSpider(cfg.Spider, logger)
	if err != nil {
		return err
	}

	if err := a.Main(ctx, spider); err != nil {
		return err
	}

	switch {
	case jsonSummary:
		_, err = report.NewJSONWriter(cmd.OutOrStdout()).Write(a.Summary())
	case markdownSummary:
		_, err = report.NewMarkdownWriter(cmd.OutOrStdout()).Write(a.Summary())
	}
	return err
}

// newItemDump selects the item dump pipeline for the configured format.
func newItemDump(cfg *config.Config) (pipeline.Pipeline, error) {
	switch cfg.Spider.Format {
	case "jsonl":
		return pipeline.NewJSONDump(cfg.Spider.Output), nil
	case "sqlite":
		return pipeline.NewSQLiteDump(cfg.Spider.Output, "pages"), nil
	default:
		return nil, fmt.Errorf("unknown dump format %q (want jsonl or sqlite)", cfg.Spider.Format)
	}
}

// setupLogger builds the sanitizing structured logger.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(log.NewSanitizeHandler(handler))
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig loads the config file and overlays any explicitly set flags.
// Seed URLs given as arguments replace the file's seed list.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	explicitPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path := config.Find(explicitPath); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	} else if explicitPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", explicitPath)
	} else {
		cfg = config.Default()
	}

	if err := overlayFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Spider.Seeds = args
	}
	// Re-resolve the dump destination when the format changed but the
	// output path was left to its default.
	if !cmd.Flags().Changed("output") && filepath.Dir(cfg.Spider.Output) == config.DataDir() {
		cfg.Spider.Output = ""
		cfg.ApplyDefaults()
	}
	return cfg, nil
}

// overlayFlags copies every flag the user explicitly set onto cfg.
func overlayFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("timeout") {
		d, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = config.DurationFrom(d)
	}
	if flags.Changed("retries") {
		n, err := flags.GetInt("retries")
		if err != nil {
			return err
		}
		cfg.Retries = &n
	}
	if flags.Changed("retry-delay") {
		d, err := flags.GetDuration("retry-delay")
		if err != nil {
			return err
		}
		cfg.RetryDelay = config.DurationFrom(d)
	}
	if flags.Changed("proxy") {
		s, err := flags.GetString("proxy")
		if err != nil {
			return err
		}
		cfg.Proxy = s
	}
	if flags.Changed("max-redirects") {
		n, err := flags.GetInt("max-redirects")
		if err != nil {
			return err
		}
		cfg.MaxRedirects = n
	}
	if flags.Changed("no-redirects") {
		noRedirects, err := flags.GetBool("no-redirects")
		if err != nil {
			return err
		}
		allow := !noRedirects
		cfg.AllowRedirects = &allow
	}
	if flags.Changed("report-interval") {
		d, err := flags.GetDuration("report-interval")
		if err != nil {
			return err
		}
		cfg.ReportInterval = config.DurationFrom(d)
	}
	if flags.Changed("user-agent") {
		s, err := flags.GetString("user-agent")
		if err != nil {
			return err
		}
		cfg.UserAgent = s
	}
	if flags.Changed("concurrency") {
		n, err := flags.GetInt64("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = n
	}
	if flags.Changed("depth") {
		n, err := flags.GetInt("depth")
		if err != nil {
			return err
		}
		cfg.Spider.MaxDepth = n
	}
	if flags.Changed("max-pages") {
		n, err := flags.GetInt("max-pages")
		if err != nil {
			return err
		}
		cfg.Spider.MaxPages = n
	}
	if flags.Changed("allow-hosts") {
		hosts, err := flags.GetStringSlice("allow-hosts")
		if err != nil {
			return err
		}
		cfg.Spider.AllowHosts = hosts
	}
	if flags.Changed("output") {
		s, err := flags.GetString("output")
		if err != nil {
			return err
		}
		cfg.Spider.Output = s
	}
	if flags.Changed("format") {
		s, err := flags.GetString("format")
		if err != nil {
			return err
		}
		cfg.Spider.Format = s
	}
	return nil
}
