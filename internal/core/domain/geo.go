package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ring is the ordered outer boundary of a polygon as rendered by the map.
// The closing vertex is not repeated.
type Ring []GeoPoint

// Clone returns a copy that does not share storage with r.
func (r Ring) Clone() Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	copy(out, r)
	return out
}
