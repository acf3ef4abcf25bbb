package frame

import (
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// NewTimeseriesFromFloat creates a frame whose sole initial column,
// named "time", is a timestamp column derived from float epoch seconds.
// Seconds are truncated; sub-second units are widened through the
// fractional part. Extra column capacity is reserved on top of the time
// column. Malformed values (NaN, ±Inf) fall back to the epoch origin.
func NewTimeseriesFromFloat(values []float64, cols int, tz string, unit arrow.TimeUnit) *DataFrame {
	d := NewWithCapacity(len(values), cols+1)
	dtype := &arrow.TimestampType{Unit: unit, TimeZone: tz}

	b := array.NewTimestampBuilder(memory.DefaultAllocator, dtype)
	defer b.Release()
	b.Reserve(len(values))

	for _, v := range values {
		var ts int64
		switch unit {
		case arrow.Second:
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				ts = int64(math.Trunc(v))
			}
		case arrow.Millisecond:
			ts = timeFromFloat(v).UnixMilli()
		case arrow.Microsecond:
			ts = timeFromFloat(v).UnixMicro()
		case arrow.Nanosecond:
			ts = timeFromFloat(v).UnixNano()
		}
		b.Append(arrow.Timestamp(ts))
	}

	col := b.NewArray()
	// cannot fail: the column length equals the frame's row count
	_ = d.AddSeries("time", col, dtype)
	return d
}

// NewTimeseriesFromFloatRFC3339 creates a frame whose sole initial
// column, named "time", holds the given float epoch seconds formatted
// as RFC3339 local-time strings at one-second resolution. Malformed
// values default to the epoch origin.
func NewTimeseriesFromFloatRFC3339(values []float64, cols int) *DataFrame {
	d := NewWithCapacity(len(values), cols+1)

	b := array.NewStringBuilder(memory.DefaultAllocator)
	defer b.Release()
	b.Reserve(len(values))

	for _, v := range values {
		b.Append(timeFromFloat(v).Local().Format(time.RFC3339))
	}

	col := b.NewArray()
	_ = d.AddSeriesAuto("time", col)
	return d
}

// timeFromFloat converts float epoch seconds to a time value,
// preserving the fractional part as nanoseconds
func timeFromFloat(v float64) time.Time {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Unix(0, 0)
	}
	sec := math.Trunc(v)
	nsec := (v - sec) * float64(time.Second)
	return time.Unix(int64(sec), int64(nsec))
}
