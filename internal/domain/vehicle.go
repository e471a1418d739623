package domain

// VehicleType classifies how a vehicle moves and what it consumes.
type VehicleType string

const (
	VehicleTypeBike        VehicleType = "bike"
	VehicleTypeWalking     VehicleType = "walking"
	VehicleTypeFuelCar     VehicleType = "fuelCar"
	VehicleTypeElectricCar VehicleType = "electricCar"
)

// IsValid reports whether t is one of the supported vehicle types.
func (t VehicleType) IsValid() bool {
	switch t {
	case VehicleTypeBike, VehicleTypeWalking, VehicleTypeFuelCar, VehicleTypeElectricCar:
		return true
	default:
		return false
	}
}

// Vehicle is a user-registered vehicle.
//
// Name is the identity key: unique within an owner's vehicle set. There is no
// surrogate id.
type Vehicle struct {
	OwnerID UserID

	Name string
	Type VehicleType

	// FuelType is only meaningful for fuelCar (e.g. "diesel", "gasoline").
	FuelType *string

	// Consumption is stored in canonical units: L/100km for fuel vehicles,
	// kWh/100km for electric ones. Nil means unknown.
	Consumption *float64

	Favorite bool
}
