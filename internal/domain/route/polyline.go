package route

import (
	"fmt"

	"github.com/twpayne/go-polyline"
)

// DecodePolyline decodes a Google encoded polyline at 1e-5 precision.
// Malformed input returns an error rather than a partial sequence.
func DecodePolyline(encoded string) ([]Coordinate, error) {
	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("failed to decode polyline: %d trailing bytes", len(rest))
	}

	out := make([]Coordinate, len(coords))
	for i, c := range coords {
		out[i] = Coordinate{Lat: c[0], Lng: c[1]}
	}
	return out, nil
}

// EncodePolyline encodes a coordinate sequence at 1e-5 precision.
func EncodePolyline(coords []Coordinate) string {
	raw := make([][]float64, len(coords))
	for i, c := range coords {
		raw[i] = []float64{c.Lat, c.Lng}
	}
	return string(polyline.EncodeCoords(raw))
}
