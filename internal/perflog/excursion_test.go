package perflog

import (
	"testing"
)

func TestComputeExcursion(t *testing.T) {
	tests := []struct {
		name         string
		closes       []float64
		entryPrice   float64
		isLong       bool
		wantOK       bool
		wantDrawdown float64
		wantRunup    float64
	}{
		{
			name:         "long with peak then drop",
			closes:       []float64{100, 110, 90},
			entryPrice:   100,
			isLong:       true,
			wantOK:       true,
			wantDrawdown: 18.18, // from peak 110 down to 90
			wantRunup:    10.0,  // from entry 100 up to 110
		},
		{
			name:         "short favors the drop",
			closes:       []float64{100, 110, 90},
			entryPrice:   100,
			isLong:       false,
			wantOK:       true,
			wantDrawdown: 18.18, // running-peak formula kept for both directions
			wantRunup:    10.0,  // 100 -> 90 favorable for a short
		},
		{
			name:         "single point above entry",
			closes:       []float64{105},
			entryPrice:   100,
			isLong:       true,
			wantOK:       true,
			wantDrawdown: 0,
			wantRunup:    5.0,
		},
		{
			name:         "single point below entry keeps negative runup",
			closes:       []float64{90},
			entryPrice:   100,
			isLong:       true,
			wantOK:       true,
			wantDrawdown: 0,
			wantRunup:    -10.0,
		},
		{
			name:         "monotonic rise has zero drawdown",
			closes:       []float64{100, 101, 103, 108},
			entryPrice:   100,
			isLong:       true,
			wantOK:       true,
			wantDrawdown: 0,
			wantRunup:    8.0,
		},
		{
			name:       "empty series is indeterminate",
			closes:     []float64{},
			entryPrice: 100,
			isLong:     true,
			wantOK:     false,
		},
		{
			name:       "zero entry price is indeterminate",
			closes:     []float64{100, 110, 90},
			entryPrice: 0,
			isLong:     true,
			wantOK:     false,
		},
		{
			name:       "negative entry price is indeterminate",
			closes:     []float64{100, 110, 90},
			entryPrice: -5,
			isLong:     true,
			wantOK:     false,
		},
		{
			name:         "rounding to two decimals",
			closes:       []float64{300, 299}, // dd = 1/300*100 = 0.3333...
			entryPrice:   300,
			isLong:       true,
			wantOK:       true,
			wantDrawdown: 0.33,
			wantRunup:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeExcursion(tt.closes, tt.entryPrice, tt.isLong)
			if ok != tt.wantOK {
				t.Fatalf("ComputeExcursion() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.MaxDrawdownPct != tt.wantDrawdown {
				t.Errorf("MaxDrawdownPct = %v, want %v", got.MaxDrawdownPct, tt.wantDrawdown)
			}
			if got.MaxRunupPct != tt.wantRunup {
				t.Errorf("MaxRunupPct = %v, want %v", got.MaxRunupPct, tt.wantRunup)
			}
		})
	}
}
