// Package geo holds the coordinate, distance, and vector primitives shared
// by topology construction and search: nothing in this package knows about
// graphs or vertex keys.
package geo

import (
	"fmt"
	"math"
)

// Coordinate is a 2D or 3D geographic point: X is longitude, Y is latitude,
// Z is an optional elevation carried through unchanged by everything that
// touches it. Only X and Y ever drive keying or distance.
type Coordinate struct {
	X, Y, Z float64
	Is3D    bool
}

func NewCoordinate2D(x, y float64) Coordinate {
	return Coordinate{X: x, Y: y}
}

func NewCoordinate3D(x, y, z float64) Coordinate {
	return Coordinate{X: x, Y: y, Z: z, Is3D: true}
}

// KeyFunc canonicalizes a coordinate into a stable vertex key. Implementations
// must be deterministic and depend only on the rounded 2D position.
type KeyFunc func(Coordinate) string

// Round snaps the 2D part of c to the nearest multiple of tol. The Z
// component and the Is3D flag pass through untouched.
func Round(c Coordinate, tol float64) Coordinate {
	if tol <= 0 {
		return c
	}
	c.X = math.Round(c.X/tol) * tol
	c.Y = math.Round(c.Y/tol) * tol
	return c
}

// precisionFromTolerance returns the number of decimal digits needed to
// print a value rounded to tol without reintroducing floating-point noise
// into the key string, e.g. tol=1e-5 -> 5, tol=0.5 -> 1.
func precisionFromTolerance(tol float64) int {
	if tol <= 0 {
		return 9
	}
	digits := int(math.Ceil(-math.Log10(tol)))
	if digits < 0 {
		digits = 0
	}
	if digits > 12 {
		digits = 12
	}
	return digits
}

// DefaultKeyFunc returns the library's default key function: the rounded
// 2D coordinate formatted as "x,y" at a precision derived from tol, so that
// two coordinates snapping to the same cell always print identical keys.
func DefaultKeyFunc(tol float64) KeyFunc {
	decimals := precisionFromTolerance(tol)
	return func(c Coordinate) string {
		rc := Round(c, tol)
		return fmt.Sprintf("%.*f,%.*f", decimals, rc.X, decimals, rc.Y)
	}
}
