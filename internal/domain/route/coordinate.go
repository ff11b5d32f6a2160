package route

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// coordinatePattern matches an already resolved "lat,lng" pair.
var coordinatePattern = regexp.MustCompile(`^-?\d+(\.\d+)?,-?\d+(\.\d+)?$`)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsCoordinateString reports whether s is a raw "lat,lng" pair rather than a place name.
func IsCoordinateString(s string) bool {
	return coordinatePattern.MatchString(s)
}

// ParseCoordinate parses a "lat,lng" pair and checks its range.
func ParseCoordinate(s string) (Coordinate, error) {
	if !IsCoordinateString(s) {
		return Coordinate{}, fmt.Errorf("not a coordinate pair: %q", s)
	}
	latStr, lngStr, _ := strings.Cut(s, ",")
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude %q: %w", latStr, err)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude %q: %w", lngStr, err)
	}
	c := Coordinate{Lat: lat, Lng: lng}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate checks that both fields are finite and within range.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude out of range: %v", c.Lat)
	}
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude out of range: %v", c.Lng)
	}
	return nil
}

// String formats the coordinate the way the routing provider expects it.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// HaversineKm returns the great-circle distance between a and b in kilometres.
func HaversineKm(a, b Coordinate) float64 {
	const earthRadiusKm = 6371.0

	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	lat1Rad := degreesToRadians(a.Lat)
	lat2Rad := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
