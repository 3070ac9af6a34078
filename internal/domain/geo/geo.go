package geo

import "fmt"

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether the point carries no coordinate.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// IsValid validates coordinate ranges.
func (p Point) IsValid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// String renders the point the way the console displays raw coordinates
// when no address could be resolved.
func (p Point) String() string {
	return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lng)
}
