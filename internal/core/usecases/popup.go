package usecases

import (
	"fmt"
	"html"

	"github.com/samirrijal/parcelmap/internal/core/domain"
)

// FormatArea converts square meters into the km² string shown to users.
func FormatArea(squareMeters float64) string {
	return fmt.Sprintf("%.2f", squareMeters/1_000_000)
}

// CoordinatePopup is the popup text bound to a vertex marker.
func CoordinatePopup(p domain.GeoPoint) string {
	return fmt.Sprintf("Lat: %.5f, Lng: %.5f", p.Lat, p.Lng)
}

// ShapePopup is the popup HTML bound to an annotated shape overlay.
func ShapePopup(s domain.Shape) string {
	return fmt.Sprintf(
		"<strong>Area:</strong> %s km² <br />\n<strong>Country:</strong> %s <br />\n<strong>Price:</strong> %s",
		html.EscapeString(s.Area), html.EscapeString(s.Country), html.EscapeString(s.Price),
	)
}
