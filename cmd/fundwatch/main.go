// fundwatch is an institutional 13F holdings tracker.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jmhodges/clock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fundwatch/fundwatch/api"
	"github.com/fundwatch/fundwatch/internal/cache"
	"github.com/fundwatch/fundwatch/internal/config"
	"github.com/fundwatch/fundwatch/internal/edgar"
	"github.com/fundwatch/fundwatch/internal/holdings"
	"github.com/fundwatch/fundwatch/internal/infra"
	"github.com/fundwatch/fundwatch/internal/logger"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fundwatch",
	Short: "Track institutional 13F holdings from SEC EDGAR",
	Long: `fundwatch ingests quarterly 13F disclosures for a fixed registry of
major funds, resolves positions to tickers, tracks quarter-over-quarter
changes, and serves the result from a cache that survives restarts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(fundCmd)
	rootCmd.AddCommand(symbolCmd)
	rootCmd.AddCommand(statusCmd)
}

// newCacheService wires the full pipeline: rate-gated client → EDGAR
// client → per-fund fetcher → cache service.
func newCacheService(log *zap.Logger) *cache.Service {
	clk := clock.New()
	httpClient := infra.NewClient(clk, cfg.SEC.UserAgent,
		cfg.SEC.RequestSpacing, cfg.SEC.RequestTimeout, log)
	edgarClient := edgar.NewClient(httpClient, log)
	fetcher := holdings.NewFetcher(edgarClient, log)

	return cache.New(cache.Options{
		Funds:    edgar.Funds,
		Fetch:    fetcher.FetchFund,
		Clock:    clk,
		TTL:      cfg.Cache.TTL,
		Path:     cfg.SnapshotPath(),
		Parallel: cfg.SEC.ParallelFetches,
		Log:      log,
	})
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fundwatch %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server with the background cache warmer",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
		defer log.Sync()

		svc := newCacheService(log)
		svc.Start(context.Background())

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		log.Info("starting API server", zap.String("addr", addr))
		return api.NewServer(cfg, svc, log).ListenAndServe(addr)
	},
}

// --- Refresh Command ---

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch all funds once and write the cache snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
		defer log.Sync()

		svc := newCacheService(log)
		start := time.Now()
		svc.Refresh(cmd.Context())

		data, err := svc.All()
		if err != nil {
			return err
		}
		failed := 0
		for _, r := range data {
			if r.Error != "" {
				failed++
			}
		}
		fmt.Printf("Refreshed %d funds in %s (%d failed)\n",
			len(data), time.Since(start).Round(time.Second), failed)
		fmt.Printf("Snapshot: %s\n", cfg.SnapshotPath())
		return nil
	},
}

// --- Fund Command ---

var fundCmd = &cobra.Command{
	Use:   "fund [name]",
	Short: "Show cached holdings for one fund",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("warn", cfg.Logging.Format)
		defer log.Sync()

		svc := newCacheService(log)
		svc.Load()

		result, err := svc.Fund(args[0])
		if err != nil {
			return err
		}
		if result.Error != "" {
			return fmt.Errorf("fund %s: %s", args[0], result.Error)
		}

		fmt.Printf("%s  (CIK %s)\n", args[0], result.CIK)
		fmt.Printf("Period %s, filed %s: %d holdings, $%.1fM total\n\n",
			result.Period, result.FilingDate, result.TotalHoldings, result.TotalValueMillions)
		limit, _ := cmd.Flags().GetInt("top")
		for _, h := range result.Holdings {
			if h.Rank > limit {
				break
			}
			ticker := h.Ticker
			if ticker == "" {
				ticker = "?"
			}
			pct := "-"
			if h.ChangePct != nil {
				pct = fmt.Sprintf("%+.1f%%", *h.ChangePct)
			}
			fmt.Printf("%3d. %-30s %-6s %6.2f%%  %-10s %s\n",
				h.Rank, h.Name, ticker, h.PctPortfolio, h.Change, pct)
		}
		return nil
	},
}

func init() {
	fundCmd.Flags().Int("top", 20, "number of holdings to print")
}

// --- Symbol Command ---

var symbolCmd = &cobra.Command{
	Use:   "symbol [ticker]",
	Short: "Show which cached funds hold a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("warn", cfg.Logging.Format)
		defer log.Sync()

		svc := newCacheService(log)
		svc.Load()

		ticker := strings.ToUpper(args[0])
		matches, err := svc.BySymbol(ticker)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Printf("No cached fund holds %s\n", ticker)
			return nil
		}

		funds := make([]string, 0, len(matches))
		for name := range matches {
			funds = append(funds, name)
		}
		sort.Strings(funds)

		fmt.Printf("%s held by %d funds:\n\n", ticker, len(funds))
		for _, name := range funds {
			fmt.Printf("%s\n", name)
			for _, m := range matches[name] {
				pct := "-"
				if m.Holding.ChangePct != nil {
					pct = fmt.Sprintf("%+.1f%%", *m.Holding.ChangePct)
				}
				fmt.Printf("  %s  %12d sh  $%.1fM  %-10s %s\n",
					m.Period, m.Holding.Shares, m.Holding.ValueMillions, m.Holding.Change, pct)
			}
		}
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("warn", cfg.Logging.Format)
		defer log.Sync()

		svc := newCacheService(log)
		svc.Load()

		fmt.Println("fundwatch cache status")
		fmt.Printf("  Version:      %s (%s)\n", version, commit)
		fmt.Printf("  Funds:        %d registered\n", len(edgar.Funds))
		fmt.Printf("  Snapshot:     %s\n", cfg.SnapshotPath())
		fmt.Printf("  TTL:          %s\n", cfg.Cache.TTL)
		if ts := svc.LastUpdated(); !ts.IsZero() {
			fmt.Printf("  Last updated: %s (fresh: %v)\n", ts.Format(time.RFC3339), svc.Fresh())
		} else {
			fmt.Println("  Last updated: never (cache cold)")
		}
		return nil
	},
}
