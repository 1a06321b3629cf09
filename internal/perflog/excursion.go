package perflog

import "math"

// Excursion holds the maximum adverse/favorable price moves over a hold
// period, both in percent.
type Excursion struct {
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	MaxRunupPct    float64 `json:"max_runup_pct"`
}

// ComputeExcursion walks an ordered close series (oldest first) and returns
// the maximum drawdown from the running peak and the maximum entry-relative
// runup. ok=false when the series is empty or entryPrice is not positive;
// callers must then leave the row fields null.
//
// Drawdown uses the running-peak formula for both directions. For a short
// hold the adverse move arguably should track a running trough instead;
// the original semantics are kept on purpose. Runup is sign-flipped for
// shorts so that a falling price counts as favorable.
func ComputeExcursion(closes []float64, entryPrice float64, isLong bool) (Excursion, bool) {
	if len(closes) == 0 || entryPrice <= 0 {
		return Excursion{}, false
	}

	runningPeak := closes[0]
	var maxDrawdown float64
	maxRunup := math.Inf(-1) // max over points, may end up negative

	for _, price := range closes {
		if price > runningPeak {
			runningPeak = price
		}

		drawdown := (runningPeak - price) / runningPeak * 100
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}

		runup := (price - entryPrice) / entryPrice * 100
		if !isLong {
			runup = -runup
		}
		if runup > maxRunup {
			maxRunup = runup
		}
	}

	return Excursion{
		MaxDrawdownPct: round2(maxDrawdown),
		MaxRunupPct:    round2(maxRunup),
	}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
