package route

// ProviderResponse is a routing provider reply already classified by shape.
// It is either a DriveRoute or a TransitRoute; anything else is rejected with
// ErrInvalidRouteData before it reaches the aggregator.
type ProviderResponse interface {
	routeResponse()
}

// RouteSummary carries the totals of a single driving route.
type RouteSummary struct {
	TotalTime     float64 `json:"total_time"`
	TotalDistance float64 `json:"total_distance"`
}

// DriveRoute is a single driving route with its encoded geometry.
type DriveRoute struct {
	Geometry     string
	Summary      RouteSummary
	Instructions []string
}

// TransitRoute is a list of candidate itineraries.
type TransitRoute struct {
	Plan Plan
}

func (DriveRoute) routeResponse()   {}
func (TransitRoute) routeResponse() {}
