package geospatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/samirrijal/parcelmap/internal/core/domain"
)

// ToOrbPoint converts a domain point into orb's lon, lat order.
func ToOrbPoint(p domain.GeoPoint) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b domain.GeoPoint) float64 {
	return geo.DistanceHaversine(ToOrbPoint(a), ToOrbPoint(b))
}
