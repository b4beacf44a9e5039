package geospatial

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/samirrijal/parcelmap/internal/core/domain"
)

// ToOrbRing converts a boundary into a closed orb ring (lon, lat order).
func ToOrbRing(ring domain.Ring) orb.Ring {
	out := make(orb.Ring, 0, len(ring)+1)
	for _, p := range ring {
		out = append(out, ToOrbPoint(p))
	}
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}

// RingArea returns the area enclosed by ring in square meters on a
// spherical earth. Degenerate rings have zero area.
func RingArea(ring domain.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}
	return math.Abs(geo.Area(ToOrbRing(ring)))
}
