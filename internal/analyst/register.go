package analyst

import (
	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/registry"
)

// RegisterAll installs every built-in strategy. Defaults declare the full
// parameter surface of each strategy; config overrides outside this set are
// rejected at create time.
func RegisterAll(reg *registry.Registry, provider interfaces.Provider) {
	reg.Register(registry.Registration{
		Name:        "fundamentals",
		Description: "Scores profitability, growth, valuation and balance-sheet health",
		Defaults: registry.Params{
			"strong_net_margin":     0.2,
			"strong_revenue_growth": 0.2,
			"cheap_pe":              15,
			"rich_pe":               30,
			"strong_current_ratio":  2,
			"bearish_cutoff":        -0.3,
			"bullish_cutoff":        0.3,
			"confidence":            70,
		},
		New: func(cfg registry.Params) interfaces.Analyst {
			return NewFundamentals(provider, cfg)
		},
	})

	reg.Register(registry.Registration{
		Name:        "warren_buffett",
		Description: "Durable profitability: high ROE, wide margins, low leverage",
		Defaults: registry.Params{
			"min_roe":                0.15,
			"min_operating_margin":   0.20,
			"low_debt_to_equity":     0.5,
			"high_debt_to_equity":    1.5,
			"strong_earnings_growth": 0.15,
			"bearish_cutoff":         -0.3,
			"bullish_cutoff":         0.3,
			"confidence":             80,
		},
		New: func(cfg registry.Params) interfaces.Analyst {
			return NewBuffett(provider, cfg)
		},
	})

	reg.Register(registry.Registration{
		Name:        "ben_graham",
		Description: "Defensive value: size, financial strength, cheap price",
		Defaults: registry.Params{
			"large_cap":              2e9,
			"small_cap":              100e6,
			"min_current_ratio":      2.0,
			"weak_current_ratio":     1.5,
			"stable_earnings_growth": 0.07,
			"min_fcf_yield":          0.06,
			"cheap_pe":               15,
			"rich_pe":                25,
			"cheap_pb":               1.5,
			"rich_pb":                3,
			"bearish_cutoff":         -0.3,
			"bullish_cutoff":         0.3,
			"confidence":             80,
		},
		New: func(cfg registry.Params) interfaces.Analyst {
			return NewGraham(provider, cfg)
		},
	})

	reg.Register(registry.Registration{
		Name:        "bill_ackman",
		Description: "Concentrated quality: FCF yield, growth, operating leverage",
		Defaults: registry.Params{
			"min_fcf_yield":           0.05,
			"min_revenue_growth":      0.10,
			"strong_operating_margin": 0.20,
			"strong_market_cap":       10e9,
			"weak_market_cap":         1e9,
			"min_roe":                 0.15,
			"bearish_cutoff":          -0.3,
			"bullish_cutoff":          0.3,
			"confidence":              80,
		},
		New: func(cfg registry.Params) interfaces.Analyst {
			return NewAckman(provider, cfg)
		},
	})

	reg.Register(registry.Registration{
		Name:        "sentiment",
		Description: "News-flow volume relative to a weekly baseline",
		Defaults: registry.Params{
			"lookback_days":            7,
			"baseline_weekly_articles": 5,
			"bearish_cutoff":           -0.3,
			"bullish_cutoff":           0.3,
			"confidence":               70,
		},
		New: func(cfg registry.Params) interfaces.Analyst {
			return NewSentiment(provider, cfg)
		},
	})

	reg.Register(registry.Registration{
		Name:        "technicals",
		Description: "Trend, momentum, mean reversion and volatility blend",
		Defaults: registry.Params{
			"fast_sma":              20,
			"slow_sma":              50,
			"rsi_period":            14,
			"band_period":           20,
			"band_width":            2,
			"low_volatility":        0.2,
			"high_volatility":       0.4,
			"weight_trend":          0.25,
			"weight_momentum":       0.25,
			"weight_mean_reversion": 0.20,
			"weight_volatility":     0.15,
			"bearish_cutoff":        -0.5,
			"bullish_cutoff":        0.5,
		},
		New: func(cfg registry.Params) interfaces.Analyst {
			return NewTechnicals(provider, cfg)
		},
	})

	reg.Register(registry.Registration{
		Name:        "risk_manager",
		Description: "Volatility-banded position sizing and stop placement",
		Defaults: registry.Params{
			"max_position_size": 100_000,
			"medium_volatility": 0.2,
			"high_volatility":   0.4,
			"medium_multiplier": 0.75,
			"high_multiplier":   0.5,
			"stop_loss":         0.15,
			"confidence":        80,
		},
		New: func(cfg registry.Params) interfaces.Analyst {
			return NewRiskManager(provider, cfg)
		},
	})
}
