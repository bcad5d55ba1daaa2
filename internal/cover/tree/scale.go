package tree

import "math"

// scaler converts between integer scales and covering radii for a fixed
// expansion base.
type scaler struct {
	expansion float64
	invLog    float64
	bottom    int
}

func newScaler(expansion float64) scaler {
	invLog := 1 / math.Log(expansion)
	return scaler{
		expansion: expansion,
		invLog:    invLog,
		// Remaining points are treated as coincident below this scale.
		// For an expansion of 1.3 this is about -2700.
		bottom: int(math.Ceil(math.Log(minNormal) * invLog)),
	}
}

// minNormal is the smallest positive normal float64.
const minNormal = 0x1p-1022

func (s scaler) scaleToDist(scale int) float64 {
	return math.Pow(s.expansion, float64(scale))
}

// distToScale returns the smallest scale whose radius covers d. d must be
// positive.
func (s scaler) distToScale(d float64) int {
	return int(math.Ceil(math.Log(d) * s.invLog))
}
