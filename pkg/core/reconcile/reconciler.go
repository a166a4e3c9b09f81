// Package reconcile merges the valuation engines' outputs into a blended
// per-share range with explicit exclusion reasons. It never fabricates a
// value for a missing method.
package reconcile

import (
	"acquisition_valuation/pkg/core/calc"
	"acquisition_valuation/pkg/models"
)

// Reconcile aggregates the applicable results into a min/median/mean/max
// per-share range and records which methods contributed. Results that are
// applicable but carry no per-share view (or a non-positive one) are listed
// as contributors without entering the range statistics.
func Reconcile(results []models.ValuationResult) models.ReconciledValuation {
	out := models.ReconciledValuation{Results: results}

	var values []float64
	for _, r := range results {
		if !r.Applicable {
			reason := r.Reason
			if reason == "" {
				reason = "not applicable"
			}
			out.Exclusions = append(out.Exclusions, models.MethodExclusion{Method: r.Method, Reason: reason})
			continue
		}
		out.AppliedMethods = append(out.AppliedMethods, r.Method)
		if r.PerShare > 0 {
			values = append(values, r.PerShare)
		}
	}

	if len(values) == 0 {
		out.Reason = "no applicable method produced a per-share value"
		return out
	}

	stats := calc.Describe(values)
	out.Applicable = true
	out.Range = models.ValueRange{
		Min:    stats.Min,
		Median: stats.Median,
		Mean:   stats.Mean,
		Max:    stats.Max,
	}
	return out
}
