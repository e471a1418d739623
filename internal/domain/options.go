package domain

// TransportMode is the default transport classifier a user can pick for new
// route computations.
type TransportMode string

const (
	TransportModeVehicle TransportMode = "vehicle"
	TransportModeBike    TransportMode = "bike"
	TransportModeWalk    TransportMode = "walk"
)

// IsValid reports whether m is one of the supported transport modes.
func (m TransportMode) IsValid() bool {
	switch m {
	case TransportModeVehicle, TransportModeBike, TransportModeWalk:
		return true
	default:
		return false
	}
}

// Options holds a user's default route-computation preferences. One record per
// user. VehicleName, when non-nil, must reference a registered vehicle of the
// owner.
type Options struct {
	TransportMode TransportMode
	RouteType     string
	VehicleName   *string
}

// DefaultOptions is the record assumed for users who never saved preferences.
func DefaultOptions() Options {
	return Options{
		TransportMode: TransportModeVehicle,
		RouteType:     "fastest",
		VehicleName:   nil,
	}
}
