package geo

import "github.com/twpayne/go-polyline"

// EncodePolyline renders path as a Google-style encoded polyline string,
// [lat, lon] ordered per that format's convention.
func EncodePolyline(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Y, p.X})
	}
	return string(polyline.EncodeCoords(coords))
}
