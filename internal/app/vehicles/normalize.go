package vehicles

import "math"

// Units accepted at the input boundary. Canonical storage units are
// L/100km (fuel) and kWh/100km (electric).
const (
	UnitKmPerKWh     = "km/kWh"
	UnitKWhPer100Km  = "kWh/100km"
	UnitKmPerLiter   = "km/l"
	UnitLiterPer100K = "L/100km"
)

// NormalizeElectricConsumption converts electric consumption to kWh/100km.
// Values given as km/kWh are inverted (100 / v) and rounded to 2 decimals;
// values already canonical pass through. Nil or zero input yields nil: no
// conversion is attempted, which also avoids dividing by zero.
func NormalizeElectricConsumption(consumption *float64, units string) *float64 {
	return normalizeConsumption(consumption, units, UnitKmPerKWh)
}

// NormalizeFuelConsumption converts fuel consumption to L/100km.
// Values given as km/l are inverted (100 / v) and rounded to 2 decimals;
// values already canonical pass through. Nil or zero input yields nil.
func NormalizeFuelConsumption(consumption *float64, units string) *float64 {
	return normalizeConsumption(consumption, units, UnitKmPerLiter)
}

func normalizeConsumption(consumption *float64, units, distancePerUnit string) *float64 {
	if consumption == nil || *consumption == 0 {
		return nil
	}
	if units == distancePerUnit && *consumption > 0 {
		v := math.Round(100/(*consumption)*100) / 100
		return &v
	}
	v := *consumption
	return &v
}
