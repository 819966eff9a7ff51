package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// TickPeriod returns the sampling period for a requested rate.
// freqHz == 0 is coerced to 1 to avoid division by zero.
func TickPeriod(freqHz uint32) time.Duration {
	if freqHz == 0 {
		freqHz = 1
	}
	return time.Duration(uint64(time.Second) / uint64(freqHz))
}
