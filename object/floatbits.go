package object

import "math"

func int64FromFloatBits(f float64) int64 {
	return int64(math.Float64bits(f))
}
