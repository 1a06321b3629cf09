package regime

// VolatilityBucket classifies the volatility index level
type VolatilityBucket string

const (
	BucketPanic      VolatilityBucket = "panic"      // > 30
	BucketFear       VolatilityBucket = "fear"       // [25, 30]
	BucketNormal     VolatilityBucket = "normal"     // [15, 25)
	BucketComplacent VolatilityBucket = "complacent" // < 15
	BucketUnknown    VolatilityBucket = "unknown"    // 값 없음
)

// Snapshot summarizes the macro market condition for one UTC day
type Snapshot struct {
	AboveShortTrend  bool             `json:"above_short_trend"`
	AboveLongTrend   bool             `json:"above_long_trend"`
	VolatilityBucket VolatilityBucket `json:"volatility_bucket"`
	VolatilityValue  *float64         `json:"volatility_value"`
}

// BucketFor maps a volatility index value to its bucket
func BucketFor(value float64) VolatilityBucket {
	switch {
	case value > 30:
		return BucketPanic
	case value >= 25:
		return BucketFear
	case value >= 15:
		return BucketNormal
	default:
		return BucketComplacent
	}
}

// GroupKey returns the aggregation key for this snapshot,
// e.g. "aboveLongTrend-normal"
func (s Snapshot) GroupKey() string {
	trend := "belowLongTrend"
	if s.AboveLongTrend {
		trend = "aboveLongTrend"
	}
	return trend + "-" + string(s.VolatilityBucket)
}

// defaultSnapshot is the conservative fallback when no data is available
func defaultSnapshot() Snapshot {
	return Snapshot{
		AboveShortTrend:  false,
		AboveLongTrend:   false,
		VolatilityBucket: BucketUnknown,
		VolatilityValue:  nil,
	}
}
