package geospatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/parcelmap/internal/core/domain"
)

// FeatureCollection exports shapes as GeoJSON polygons. Shapes without a
// known boundary in rings are skipped.
func FeatureCollection(shapes []domain.Shape, rings map[domain.ShapeID]domain.Ring) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range shapes {
		ring, ok := rings[s.ID]
		if !ok || len(ring) == 0 {
			continue
		}
		f := geojson.NewFeature(orb.Polygon{ToOrbRing(ring)})
		f.ID = string(s.ID)
		f.Properties["area_km2"] = s.Area
		f.Properties["country"] = s.Country
		f.Properties["price"] = s.Price
		f.Properties["highlighted"] = s.Highlighted
		fc.Append(f)
	}
	return fc
}
