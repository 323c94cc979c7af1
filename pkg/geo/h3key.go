package geo

import (
	"github.com/uber/h3-go/v4"
)

// H3KeyFunc returns a KeyFunc that snaps coordinates to an H3 cell index at
// the given resolution instead of a rounded lat/lon string. Two coordinates
// falling in the same cell always produce the same key; the topology
// builder accepts this in place of DefaultKeyFunc without any other change.
func H3KeyFunc(resolution int) KeyFunc {
	return func(c Coordinate) string {
		cell := h3.LatLngToCell(h3.NewLatLng(c.Y, c.X), resolution)
		return cell.String()
	}
}
