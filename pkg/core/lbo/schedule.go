package lbo

import "acquisition_valuation/pkg/core/projection"

// ScheduleYear is one row of the annual debt schedule.
type ScheduleYear struct {
	Year           int     `json:"year"`
	EBITDA         float64 `json:"ebitda"`
	SeniorInterest float64 `json:"senior_interest"`
	SubInterest    float64 `json:"sub_interest"`
	Taxes          float64 `json:"taxes"`
	MandatoryAmort float64 `json:"mandatory_amortization"`
	CashAvailable  float64 `json:"cash_available_for_sweep"`
	Sweep          float64 `json:"sweep"`
	SeniorEnd      float64 `json:"senior_end"`
	SubEnd         float64 `json:"sub_end"`
	TotalEnd       float64 `json:"total_end"`
	Deficit        bool    `json:"deficit"`
}

// buildSchedule rolls the two tranches forward over the base-case projection:
// interest on outstanding balances, mandatory senior amortization, then a
// cash sweep that pays tranches down in seniority order. A funding deficit is
// drawn on the senior tranche rather than aborting; the caller flags the deal
// high-risk when deficits persist. Returns the schedule and the longest
// consecutive deficit streak.
func buildSchedule(base []projection.Period, price, taxRate float64, deal DealAssumptions) ([]ScheduleYear, int) {
	senior := price * deal.SeniorDebtPct
	sub := price * deal.SubDebtPct
	mandatory := senior * deal.SeniorAmortPct

	schedule := make([]ScheduleYear, 0, len(base))
	streak, maxStreak := 0, 0

	for i, p := range base {
		row := ScheduleYear{
			Year:           i + 1,
			EBITDA:         p.EBITDA,
			SeniorInterest: senior * deal.SeniorRate,
			SubInterest:    sub * deal.SubRate,
		}

		pretax := p.EBITDA - p.DepreciationAmortization - row.SeniorInterest - row.SubInterest
		if pretax > 0 {
			row.Taxes = pretax * taxRate
		}

		// Cash generated before any debt service beyond interest.
		cash := p.EBITDA - row.Taxes - p.Capex - p.ChangeNWC - row.SeniorInterest - row.SubInterest

		row.MandatoryAmort = min(mandatory, senior)
		cash -= row.MandatoryAmort
		senior -= row.MandatoryAmort
		row.CashAvailable = cash

		if cash < 0 {
			// Deficit funded by a senior draw.
			senior += -cash
			row.Deficit = true
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
			sweep := min(cash, senior)
			senior -= sweep
			remaining := cash - sweep
			subSweep := min(remaining, sub)
			sub -= subSweep
			row.Sweep = sweep + subSweep
		}

		row.SeniorEnd = senior
		row.SubEnd = sub
		row.TotalEnd = senior + sub
		schedule = append(schedule, row)
	}
	return schedule, maxStreak
}
