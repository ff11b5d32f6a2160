package route

import "math"

// AnnotateDurations sets DurationInMinutes on every itinerary in place.
func AnnotateDurations(itineraries []Itinerary) {
	for i := range itineraries {
		itineraries[i].DurationInMinutes = MinutesFromSeconds(itineraries[i].Duration)
	}
}

// Rank returns the index of the cheapest and of the fastest itinerary in a
// single pass. Ties keep the lowest index. Fares that do not parse never win
// unless no fare parses, in which case the cheapest index stays 0.
// Durations must already be annotated.
func Rank(itineraries []Itinerary) (cheapest, fastest int) {
	minFare := math.Inf(1)
	minDuration := math.MaxInt

	for i, it := range itineraries {
		if fare, ok := it.Fare.Amount(); ok && fare < minFare {
			minFare = fare
			cheapest = i
		}
		if it.DurationInMinutes < minDuration {
			minDuration = it.DurationInMinutes
			fastest = i
		}
	}
	return cheapest, fastest
}

// NewRoutePlan annotates and ranks a non-empty plan.
func NewRoutePlan(plan Plan) (RoutePlan, error) {
	if len(plan.Itineraries) == 0 {
		return RoutePlan{}, ErrInvalidRouteData
	}
	AnnotateDurations(plan.Itineraries)
	cheapest, fastest := Rank(plan.Itineraries)
	return RoutePlan{
		Plan:          plan,
		CheapestIndex: cheapest,
		FastestIndex:  fastest,
	}, nil
}
