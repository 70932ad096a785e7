package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"llm-hedge-fund/internal/analyst"
	"llm-hedge-fund/internal/decision"
	"llm-hedge-fund/internal/llm"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/marketdata"
	"llm-hedge-fund/internal/registry"
	"llm-hedge-fund/internal/runner"
	"llm-hedge-fund/internal/runner/runnerobs"
	"llm-hedge-fund/internal/state"
	"llm-hedge-fund/internal/store"
	"llm-hedge-fund/internal/trace"
	"llm-hedge-fund/internal/types"
)

func main() {
	tickers := flag.String("ticker", "", "comma-separated tickers to analyze (default from config)")
	endDate := flag.String("end-date", "", "simulation as-of date YYYY-MM-DD (default today)")
	startDate := flag.String("start-date", "", "window start YYYY-MM-DD (default end-date minus one year)")
	analysts := flag.String("analysts", "", "comma-separated analyst names (default from config)")
	showReasoning := flag.Bool("show-reasoning", false, "log each analyst's reasoning per ticker")
	configPath := flag.String("config", "config.yaml", "path to config file")
	mode := flag.String("mode", "", "decision mode override: MAJORITY or LLM")
	flag.Parse()

	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := trace.Init(); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	defer func() {
		_ = trace.Shutdown(ctx)
	}()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *analysts != "" {
		cfg.Analysts = splitList(*analysts, strings.ToLower)
	}
	if *mode != "" {
		cfg.Decision.Mode = *mode
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	seedRiskParams(cfg)

	universe := resolveTickers(*tickers, cfg.Tickers)
	if len(universe) == 0 {
		fmt.Println("Error: no tickers given; pass -ticker or set tickers in the config")
		flag.Usage()
		os.Exit(1)
	}

	end := *endDate
	if end == "" {
		end = time.Now().Format("2006-01-02")
	}
	start := *startDate
	if start == "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			fmt.Printf("Error: invalid -end-date %q\n", end)
			os.Exit(1)
		}
		start = t.AddDate(-1, 0, 0).Format("2006-01-02")
	}

	provider := marketdata.New(cfg)

	reg := registry.New()
	analyst.RegisterAll(reg, provider)

	gen := llm.New(cfg)
	decider := decision.New(cfg, gen)

	portfolio := types.Portfolio{
		Cash:      cfg.Portfolio.Cash,
		Positions: cfg.Portfolio.Positions,
	}
	st := state.New(universe, start, end, portfolio, state.Metadata{
		ShowReasoning: *showReasoning,
		ModelProvider: cfg.LLM.Provider,
		ModelName:     cfg.LLM.Model,
	})

	run := runnerobs.Wrap(runner.New(cfg, reg, provider, decider, st))
	result, err := run.Run(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Run failed", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to encode result", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	printSummary(st.Tickers, result)
}

func printSummary(tickers []string, result *types.RunResult) {
	if len(result.Decisions) == 0 {
		fmt.Println("\nNo decisions: market closed for the requested date.")
		return
	}
	fmt.Printf("\n%-8s %-6s %8s %12s\n", "TICKER", "ACTION", "QTY", "CONFIDENCE")
	fmt.Println(strings.Repeat("-", 38))
	for _, ticker := range tickers {
		dec, ok := result.Decisions[ticker]
		if !ok {
			continue
		}
		fmt.Printf("%-8s %-6s %8d %11.1f%%\n", ticker, dec.Action, dec.Quantity, dec.Confidence)
	}
}

// resolveTickers picks the analysis universe: the -ticker flag when given,
// otherwise the tickers list from the config file.
func resolveTickers(flagValue string, configured []string) []string {
	if flagValue != "" {
		return splitList(flagValue, strings.ToUpper)
	}
	return splitList(strings.Join(configured, ","), strings.ToUpper)
}

func splitList(s string, normalize func(string) string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, normalize(p))
		}
	}
	return out
}

// seedRiskParams feeds the risk section of the config into the risk_manager
// strategy's parameters unless an explicit override already sets them.
func seedRiskParams(cfg *store.Config) {
	if cfg.AnalystParams == nil {
		cfg.AnalystParams = map[string]map[string]float64{}
	}
	rp := cfg.AnalystParams["risk_manager"]
	if rp == nil {
		rp = map[string]float64{}
		cfg.AnalystParams["risk_manager"] = rp
	}
	if _, ok := rp["max_position_size"]; !ok {
		rp["max_position_size"] = cfg.Risk.MaxPositionSize
	}
	if _, ok := rp["stop_loss"]; !ok {
		rp["stop_loss"] = cfg.Risk.StopLoss
	}
}
