package geo

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// fuzzRadiusDegrees is about 300 meters of latitude.
const fuzzRadiusDegrees = 0.0027

// Fuzz returns a public coordinate pair offset from the exact one. The
// longitude offset is scaled by 1/cos(lat) so the displacement is roughly
// circular on the ground instead of shrinking toward the poles.
func Fuzz(lat, lng float64, seed string) (float64, float64) {
	latUnit, lngUnit := unitOffsets(seed)

	latOffset := (latUnit*2 - 1) * fuzzRadiusDegrees
	lngScale := math.Cos(lat * math.Pi / 180)
	if math.Abs(lngScale) < 0.01 {
		lngScale = 0.01
	}
	lngOffset := (lngUnit*2 - 1) * fuzzRadiusDegrees / lngScale

	return lat + latOffset, lng + lngOffset
}

// unitOffsets derives two stable values in [0, 1) from the seed.
func unitOffsets(seed string) (float64, float64) {
	sum := sha256.Sum256([]byte(seed))
	a := binary.BigEndian.Uint64(sum[0:8])
	b := binary.BigEndian.Uint64(sum[8:16])
	const scale = float64(1 << 53)
	return float64(a>>11) / scale, float64(b>>11) / scale
}
