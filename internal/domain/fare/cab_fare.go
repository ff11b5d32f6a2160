package fare

import (
	"math"
	"strconv"
)

// Estimator prices a driving itinerary.
type Estimator interface {
	// Estimate returns the fare rounded to two decimals.
	Estimate(distanceKm, durationMin float64) float64
}

const (
	includedMeters  = 1000.0
	firstBandMeters = 9000.0
	firstBandUnit   = 400.0
	beyondBandUnit  = 350.0
	waitUnitSeconds = 45.0
	tierLimitKm     = 10.0
	perDistanceUnit = 0.26
	perWaitTimeUnit = 0.26
)

// CabFareEstimator implements the metered taxi fare formula.
//
// Pricing formula:
//   - Base: standard flag-down fare, covering the first kilometre
//   - Up to 10 km: 0.26 per 400 m
//   - Beyond 10 km: the first 9 km band at 0.26 per 400 m, the remainder
//     counted in 350 m units, each also at 0.26
//   - Waiting: 0.26 per 45 s of trip duration
type CabFareEstimator struct {
	flagDown float64
}

// NewCabFareEstimator seeds the base fare from table.
func NewCabFareEstimator(table *FareTable) *CabFareEstimator {
	return &CabFareEstimator{flagDown: table.FlagDownFare()}
}

// FlagDown returns the base fare in use.
func (e *CabFareEstimator) FlagDown() float64 { return e.flagDown }

// Estimate computes the fare for a trip of distanceKm lasting durationMin.
// Inputs must be finite and non-negative.
func (e *CabFareEstimator) Estimate(distanceKm, durationMin float64) float64 {
	total := e.flagDown
	additionalMeters := math.Max(0, distanceKm*1000-includedMeters)

	if distanceKm <= tierLimitKm {
		distanceUnits := math.Floor(additionalMeters / firstBandUnit)
		total += distanceUnits * perDistanceUnit
	} else {
		// TODO: confirm with product whether the beyond-10km units should use a separate rate.
		firstUnits := math.Floor(firstBandMeters / firstBandUnit)
		beyondUnits := math.Floor((additionalMeters - firstBandMeters) / beyondBandUnit)
		total += firstUnits*perDistanceUnit + beyondUnits*perDistanceUnit
	}

	waitUnits := math.Floor(durationMin * 60 / waitUnitSeconds)
	total += waitUnits * perWaitTimeUnit

	rounded, _ := strconv.ParseFloat(FormatAmount(total), 64)
	return rounded
}

// FormatAmount renders a fare with exactly two decimals.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
