// Package main is the entry point for the Jupiter multi-hop route scout.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonasrmichel/jup-routes/pkg/arbitrage"
	"github.com/jonasrmichel/jup-routes/pkg/config"
	"github.com/jonasrmichel/jup-routes/pkg/graph"
	"github.com/jonasrmichel/jup-routes/pkg/jupiter"
	"github.com/jonasrmichel/jup-routes/pkg/logging"
	"github.com/jonasrmichel/jup-routes/pkg/metrics"
	"github.com/jonasrmichel/jup-routes/pkg/notifier"
	"github.com/jonasrmichel/jup-routes/pkg/providers"
	providersolana "github.com/jonasrmichel/jup-routes/pkg/providers/solana"
	"github.com/jonasrmichel/jup-routes/pkg/quote"
	"github.com/jonasrmichel/jup-routes/pkg/reporter"
	solanarpc "github.com/jonasrmichel/jup-routes/pkg/solana"
)

var (
	configPath   = flag.String("config", "", "Path to configuration file (JSON or YAML)")
	startToken   = flag.String("start", "", "Start token mint or configured symbol (prompted if empty)")
	endToken     = flag.String("end", "", "End token mint or configured symbol (prompted if empty)")
	hops         = flag.Int("hops", -1, "Maximum swaps per route (prompted if unset)")
	outputFormat = flag.String("format", "text", "Output format: text, json, csv")
	routeMapPath = flag.String("route-map", "", "Load the indexed route map from a JSON file instead of Jupiter")
	workers      = flag.Int("workers", 0, "Concurrent route scorers (0 = config)")
	interval     = flag.Duration("interval", 0, "Repeat the search at this interval (0 = config, run once if unset)")
	metricsAddr  = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	quotePrices  = flag.Bool("quote-prices", false, "Print the Price API quote for the pair before searching")
	verbose      = flag.Bool("verbose", false, "Print a summary after each search")
	testSlack    = flag.Bool("test-slack", false, "Send a Slack test message on startup")
	writeConfig  = flag.String("write-config", "", "Write the effective configuration to this JSON file and exit")
)

func main() {
	flag.Parse()

	// A missing .env file is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
	}

	// Load configuration
	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = config.LoadFromEnv()
	}

	// Apply command line overrides
	if *workers > 0 {
		cfg.Route.Workers = *workers
	}
	if *interval > 0 {
		cfg.Route.IntervalMs = int(interval.Milliseconds())
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	format, err := reporter.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logging)
	log := logging.Component(logger, "main")

	if *writeConfig != "" {
		if err := cfg.SaveToFile(*writeConfig); err != nil {
			log.Fatal().Err(err).Msg("failed to write config")
		}
		log.Info().Str("path", *writeConfig).Msg("wrote config")
		return
	}

	// Read missing inputs from stdin
	stdin := bufio.NewReader(os.Stdin)
	startInput := *startToken
	if startInput == "" {
		startInput = prompt(stdin, "Please input your start token:")
	}
	endInput := *endToken
	if endInput == "" {
		endInput = prompt(stdin, "Please input your end token:")
	}
	maxHops, err := resolveHops(*hops, cfg.Route.MaxHops, func() string {
		return prompt(stdin, "Please input target hops on your route:")
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := parseMint(cfg, startInput, logger, "start")
	end := parseMint(cfg, endInput, logger, "end")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("shutting down")
		cancel()
	}()

	// Metrics
	m := metrics.New()
	registry := prometheus.NewRegistry()
	if err := m.Register(registry); err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}
	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, registry, logger)
	}

	// Upstream clients
	jup := jupiter.NewClient(&jupiter.ClientConfig{
		BaseURL:     cfg.Jupiter.BaseURL,
		RouteMapURL: cfg.Jupiter.RouteMapURL,
		PriceURL:    cfg.Jupiter.PriceURL,
		APIKey:      cfg.Jupiter.APIKey,
		Timeout:     cfg.GetJupiterTimeout(),
	})
	rpcClient := solanarpc.NewClient(&solanarpc.ClientConfig{
		RPCURL:     cfg.Solana.RPCURL,
		Commitment: cfg.Solana.Commitment,
	})
	log.Info().Str("rpc", rpcClient.RPCURL()).Str("jupiter", cfg.Jupiter.BaseURL).Msg("upstream endpoints")

	precision := providers.NewCachedPrecision(providers.FallbackPrecision{
		staticPrecision(cfg, logger),
		providersolana.NewMintPrecision(rpcClient),
	})

	evaluator := quote.NewEvaluator(
		providersolana.NewJupiterQuoteSourceWithClient(jup),
		quote.Config{SlippageBps: cfg.Route.SlippageBps, UIAmount: cfg.Route.UIAmount},
		quote.WithMetrics(m),
		quote.WithLogger(logger),
	)
	scorer := arbitrage.NewScorer(evaluator, precision, m, logger)
	selector := arbitrage.NewSelector(scorer, cfg.Route.Workers, m, logger)
	finder := arbitrage.NewFinder(scorer, selector, m, logger)

	routeMap, err := loadRouteMap(ctx, *routeMapPath, jup, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load route map")
	}

	if *quotePrices {
		printPrice(ctx, jup, start, end, cfg.Route.UIAmount, logger)
	}

	rep := reporter.NewReporter(os.Stdout, format, *verbose)

	slack := notifier.NewSlackNotifier(&notifier.SlackConfig{
		APIToken: cfg.Slack.APIToken,
		Channel:  cfg.Slack.Channel,
		Enabled:  cfg.Slack.Enabled,
	})
	if slack.IsEnabled() {
		log.Info().Str("channel", cfg.Slack.Channel).Msg("slack route alerts enabled")
		if *testSlack {
			if err := slack.SendTestMessage(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to send slack test message")
			}
		}
	} else if *testSlack {
		log.Warn().Msg("slack test requested but slack is not configured")
	}

	search := func() {
		result, err := finder.Find(ctx, routeMap, start, end, maxHops)
		if err != nil {
			log.Error().Err(err).Msg("search failed")
			rep.RecordError()
			return
		}
		rep.ReportResult(result)

		if err := slack.NotifyRoutes(ctx, result); err != nil {
			log.Warn().Err(err).Msg("failed to send slack alert")
		}
	}

	// Run the search
	if cfg.GetInterval() == 0 {
		search()
		if rep.GetStats().Errors > 0 {
			os.Exit(1)
		}
		return
	}

	runLoop(ctx, cfg.GetInterval(), search)
	rep.PrintStats()
}

// prompt prints question and returns the next trimmed line of input.
func prompt(r *bufio.Reader, question string) string {
	fmt.Println(question)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
	}
	return strings.TrimSpace(line)
}

// resolveHops picks the hop bound from the flag, then the config, then the
// prompt. Negative flag and config values mean unset.
func resolveHops(flagHops, cfgHops int, ask func() string) (int, error) {
	if flagHops >= 0 {
		return flagHops, nil
	}
	if cfgHops >= 0 {
		return cfgHops, nil
	}
	return parseHops(ask())
}

func parseHops(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse target hops %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("target hops must be non-negative, got %d", n)
	}
	return n, nil
}

// parseMint resolves s to a mint. Unparsable input is logged and replaced
// with the zero key, which matches no route and fails upstream.
func parseMint(cfg *config.Config, s string, logger logging.Logger, which string) solana.PublicKey {
	pk, err := solana.PublicKeyFromBase58(cfg.ResolveMint(s))
	if err != nil {
		logger.Error().Err(err).Str("input", s).Msgf("failed to parse %s token", which)
		return solana.PublicKey{}
	}
	return pk
}

// staticPrecision builds the decimals table from configured tokens.
func staticPrecision(cfg *config.Config, logger logging.Logger) providers.StaticPrecision {
	table := make(providers.StaticPrecision, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		pk, err := solana.PublicKeyFromBase58(t.Mint)
		if err != nil {
			logger.Warn().Err(err).Str("symbol", t.Symbol).Msg("skipping configured token")
			continue
		}
		table[pk] = uint8(t.Decimals)
	}
	return table
}

// loadRouteMap reads the adjacency map from path, or from Jupiter when path
// is empty.
func loadRouteMap(ctx context.Context, path string, jup *jupiter.Client, logger logging.Logger) (graph.RouteMap[solana.PublicKey], error) {
	var (
		indexed *jupiter.IndexedRouteMap
		err     error
	)
	if path != "" {
		indexed, err = jupiter.LoadIndexedRouteMap(path)
	} else {
		indexed, err = jup.GetIndexedRouteMap(ctx)
	}
	if err != nil {
		return nil, err
	}

	routes, skipped := indexed.Decode()
	routeMap := graph.RouteMap[solana.PublicKey](routes)

	event := logger.Info()
	if skipped > 0 {
		event = logger.Warn()
	}
	event.Int("skipped", skipped).Str("graph", routeMap.String()).Msg("loaded route map")

	return routeMap, nil
}

func printPrice(ctx context.Context, jup *jupiter.Client, start, end solana.PublicKey, uiAmount float64, logger logging.Logger) {
	price, err := jup.GetPrice(ctx, start.String(), end.String(), uiAmount)
	if err != nil {
		logger.Warn().Err(err).Msg("price lookup failed")
		return
	}
	fmt.Printf("Price API: %v %s = %v %s\n", uiAmount, price.MintSymbol, price.Price, price.VsTokenSymbol)
}

// runLoop runs search immediately and then on every tick until ctx is done.
func runLoop(ctx context.Context, every time.Duration, search func()) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	search()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			search()
		}
	}
}

func serveMetrics(addr string, g prometheus.Gatherer, logger logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))

	logger.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server stopped")
	}
}
