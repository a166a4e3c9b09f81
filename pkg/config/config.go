// Package config loads the market and deal assumption set from a yaml file,
// with sensible defaults when no file is present.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"acquisition_valuation/pkg/core/dcf"
	"acquisition_valuation/pkg/core/lbo"
)

// Config is the assumption set for one analysis environment.
type Config struct {
	ProjectionYears int                 `yaml:"projection_years"`
	Market          dcf.MarketParams    `yaml:"market"`
	Deal            lbo.DealAssumptions `yaml:"deal"`
}

// Default returns the baseline assumption set.
func Default() Config {
	return Config{
		ProjectionYears: 5,
		Market: dcf.MarketParams{
			RiskFreeRate:      0.042,
			EquityRiskPremium: 0.048,
			PretaxCostOfDebt:  0.06,
			TerminalGrowth:    0.025,
			ExitMultiple:      10.0,
		},
		Deal: lbo.DealAssumptions{
			SeniorDebtPct:   0.45,
			SubDebtPct:      0.15,
			EquityPct:       0.40,
			SeniorRate:      0.07,
			SubRate:         0.11,
			SeniorAmortPct:  0.05,
			EntryMultiple:   9.0,
			ExitMultiple:    10.0,
			HoldYears:       []int{3, 5, 7},
			HurdleIRR:       0.20,
			MaxDeficitYears: 2,
		},
	}
}

// Load reads the yaml file at path over the defaults. A missing path returns
// the defaults; a malformed file is an error, not a silent fallback.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
