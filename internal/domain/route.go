package domain

import "time"

// Route is a saved route owned by a user.
//
// Origin and Destination are "lat,lng" coordinate strings as produced by the
// geocoding layer; OriginLabel/DestinationLabel carry the human-readable names
// when the caller supplied them.
type Route struct {
	ID RouteID

	Name *string

	Origin      string
	Destination string

	OriginLabel      *string
	DestinationLabel *string

	// MobilityType is the transport classifier chosen for the route (vehicle,
	// bike, walk). MobilityMethod refines it (e.g. a concrete vehicle name) and
	// falls back to MobilityType when the caller never set one.
	MobilityType   string
	MobilityMethod string

	RouteType string

	CreatedAt time.Time
}
