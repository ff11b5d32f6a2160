package taxi

import (
	"math"
	"strconv"

	"github.com/sgcommute/service-fareroute/internal/domain/route"
)

const (
	// DefaultRadiusMeters bounds the nearby-taxi search.
	DefaultRadiusMeters = 3000.0

	// AverageSpeedKmph is the assumed island-wide road speed for ETAs.
	AverageSpeedKmph = 30.0

	DefaultLatitude  = 1.34
	DefaultLongitude = 103.68
)

// Taxi is an available taxi near the rider with its estimated arrival.
type Taxi struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ETAMinutes int     `json:"etaMinutes"`
}

// ETAMinutes converts a road distance to whole minutes at AverageSpeedKmph, rounding up.
func ETAMinutes(distanceKm float64) int {
	return int(math.Ceil(distanceKm / AverageSpeedKmph * 60))
}

// Nearby keeps the positions within radiusMeters of origin, in input order.
func Nearby(origin route.Coordinate, positions []route.Coordinate, radiusMeters float64) []Taxi {
	taxis := make([]Taxi, 0)
	for _, pos := range positions {
		km := route.HaversineKm(origin, pos)
		if km*1000 > radiusMeters {
			continue
		}
		taxis = append(taxis, Taxi{
			Latitude:   pos.Lat,
			Longitude:  pos.Lng,
			ETAMinutes: ETAMinutes(km),
		})
	}
	return taxis
}

// LocationOrDefault parses the rider's location. Each component that is
// missing, zero or not a number falls back to its default independently.
func LocationOrDefault(lat, lon string) route.Coordinate {
	return route.Coordinate{
		Lat: parseOr(lat, DefaultLatitude),
		Lng: parseOr(lon, DefaultLongitude),
	}
}

func parseOr(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
