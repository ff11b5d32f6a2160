package route

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// ErrInvalidRouteData is returned when a routing response matches no known shape.
var ErrInvalidRouteData = errors.New("invalid route data returned from OneMap")

// MsgInvalidRouteData is the client-facing message for ErrInvalidRouteData.
const MsgInvalidRouteData = "Invalid route data returned from OneMap"

// Travel modes tagged on legs.
const (
	ModeWalk   = "WALK"
	ModeBus    = "BUS"
	ModeSubway = "SUBWAY"
	ModeTram   = "TRAM"
	ModeCar    = "CAR"
)

// Fare is a currency-agnostic amount kept in its textual form.
// The provider sends it as a string, but a bare JSON number is accepted too.
type Fare string

// UnmarshalJSON accepts "1.19", 1.19 or null.
func (f *Fare) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Fare(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = Fare(n.String())
	return nil
}

// Amount parses the fare. Unparseable fares report false.
func (f Fare) Amount() (float64, bool) {
	v, err := strconv.ParseFloat(string(f), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Place is a named point at either end of a leg, or an intermediate stop.
type Place struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	StopID   string  `json:"stopId,omitempty"`
	StopCode string  `json:"stopCode,omitempty"`
}

// Coordinate returns the place's position.
func (p Place) Coordinate() Coordinate {
	return Coordinate{Lat: p.Lat, Lng: p.Lon}
}

// LegGeometry is an encoded polyline for one leg.
type LegGeometry struct {
	Points string `json:"points"`
	Length int    `json:"length,omitempty"`
}

// Leg is one mode-homogeneous segment of an itinerary.
type Leg struct {
	Mode              string      `json:"mode"`
	StartTime         int64       `json:"startTime,omitempty"`
	EndTime           int64       `json:"endTime,omitempty"`
	Distance          float64     `json:"distance"`
	Duration          float64     `json:"duration"`
	Route             string      `json:"route,omitempty"`
	RouteShortName    string      `json:"routeShortName,omitempty"`
	RouteLongName     string      `json:"routeLongName,omitempty"`
	AgencyName        string      `json:"agencyName,omitempty"`
	TransitLeg        bool        `json:"transitLeg"`
	From              Place       `json:"from"`
	To                Place       `json:"to"`
	LegGeometry       LegGeometry `json:"legGeometry"`
	IntermediateStops []Place     `json:"intermediateStops"`
	Instructions      []string    `json:"instructions"`
}

// MarshalJSON always emits intermediateStops and instructions as lists.
func (l Leg) MarshalJSON() ([]byte, error) {
	type legFields Leg
	if l.IntermediateStops == nil {
		l.IntermediateStops = []Place{}
	}
	if l.Instructions == nil {
		l.Instructions = []string{}
	}
	return json.Marshal(legFields(l))
}

// StopNames returns the names of the intermediate stops in order.
func (l Leg) StopNames() []string {
	names := make([]string, len(l.IntermediateStops))
	for i, s := range l.IntermediateStops {
		names[i] = s.Name
	}
	return names
}

// Itinerary is one candidate journey. An itinerary decoded from a provider
// reply keeps the reply object and is written back unchanged apart from
// durationInMinutes; the typed fields are a read-only view of it.
type Itinerary struct {
	Duration          float64 `json:"duration"`
	DurationInMinutes int     `json:"durationInMinutes"`
	StartTime         int64   `json:"startTime,omitempty"`
	EndTime           int64   `json:"endTime,omitempty"`
	WalkTime          float64 `json:"walkTime"`
	TransitTime       float64 `json:"transitTime"`
	WaitingTime       float64 `json:"waitingTime"`
	WalkDistance      float64 `json:"walkDistance"`
	Transfers         int     `json:"transfers"`
	Distance          float64 `json:"distance"`
	Fare              Fare    `json:"fare"`
	Legs              []Leg   `json:"legs"`

	raw map[string]json.RawMessage
}

// UnmarshalJSON decodes the typed view and keeps the original object.
func (it *Itinerary) UnmarshalJSON(data []byte) error {
	type itineraryFields Itinerary
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var fields itineraryFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*it = Itinerary(fields)
	it.raw = raw
	return nil
}

// MarshalJSON writes the provider object with durationInMinutes added, or
// the typed fields for a synthesized itinerary.
func (it Itinerary) MarshalJSON() ([]byte, error) {
	type itineraryFields Itinerary
	if it.raw == nil {
		if it.Legs == nil {
			it.Legs = []Leg{}
		}
		return json.Marshal(itineraryFields(it))
	}
	minutes, err := json.Marshal(it.DurationInMinutes)
	if err != nil {
		return nil, err
	}
	return marshalWith(it.raw, "durationInMinutes", minutes)
}

// Plan is the set of candidate itineraries for one trip. Like Itinerary, a
// decoded plan keeps the provider object and only its itineraries are replaced.
type Plan struct {
	Date        int64       `json:"date,omitempty"`
	From        *Place      `json:"from,omitempty"`
	To          *Place      `json:"to,omitempty"`
	Itineraries []Itinerary `json:"itineraries"`

	raw map[string]json.RawMessage
}

// UnmarshalJSON decodes the typed view and keeps the original object.
func (p *Plan) UnmarshalJSON(data []byte) error {
	type planFields Plan
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var fields planFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Plan(fields)
	p.raw = raw
	return nil
}

// MarshalJSON writes the provider object with the annotated itineraries.
func (p Plan) MarshalJSON() ([]byte, error) {
	type planFields Plan
	if p.Itineraries == nil {
		p.Itineraries = []Itinerary{}
	}
	if p.raw == nil {
		return json.Marshal(planFields(p))
	}
	itineraries, err := json.Marshal(p.Itineraries)
	if err != nil {
		return nil, err
	}
	return marshalWith(p.raw, "itineraries", itineraries)
}

// marshalWith encodes a copy of raw with key set to value.
func marshalWith(raw map[string]json.RawMessage, key string, value json.RawMessage) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(raw)+1)
	for k, v := range raw {
		out[k] = v
	}
	out[key] = value
	return json.Marshal(out)
}

// RoutePlan is an annotated plan with its ranking indices.
type RoutePlan struct {
	Plan          Plan `json:"plan"`
	CheapestIndex int  `json:"cheapestIndex"`
	FastestIndex  int  `json:"fastestIndex"`
}

// Cheapest returns the itinerary at CheapestIndex.
func (p RoutePlan) Cheapest() Itinerary { return p.Plan.Itineraries[p.CheapestIndex] }

// Fastest returns the itinerary at FastestIndex.
func (p RoutePlan) Fastest() Itinerary { return p.Plan.Itineraries[p.FastestIndex] }

// MinutesFromSeconds rounds a duration in seconds to whole minutes, halves rounding up.
func MinutesFromSeconds(seconds float64) int {
	return int(math.Floor(seconds/60 + 0.5))
}
