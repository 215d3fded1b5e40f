// Package rate implements the hourly rate derivation for parking spots.
// A garage carries one price per vehicle class; a spot's stored rate is the
// price matching its current vehicle class, looked up against the garage
// snapshot embedded in the spot.
package rate

// Vehicle class values accepted by the resolver. They match the
// vehicle_type enum persisted on spots and vehicles.
const (
	VehicleCompact = "compact"
	VehicleRegular = "regular"
	VehicleLarge   = "large"
)

// Table holds the three per-class prices owned by a garage. Prices are
// decimal strings and are never parsed or computed on; they pass through
// from the garage record to the spot record unchanged.
type Table struct {
	Compact string
	Regular string
	Large   string
}

// Resolve maps a vehicle class to its price in the given table. An
// unrecognized class resolves to the empty string; callers must treat an
// empty result as "no rate change applied" rather than a failure, which
// keeps the update workflow idempotent for bad input.
func Resolve(vehicleType string, t Table) string {
	switch vehicleType {
	case VehicleCompact:
		return t.Compact
	case VehicleRegular:
		return t.Regular
	case VehicleLarge:
		return t.Large
	default:
		return ""
	}
}
