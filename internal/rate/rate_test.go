package rate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	table := Table{Compact: "0.10", Regular: "0.25", Large: "0.34"}

	tests := []struct {
		name        string
		vehicleType string
		want        string
	}{
		{"compact maps to compact rate", VehicleCompact, "0.10"},
		{"regular maps to regular rate", VehicleRegular, "0.25"},
		{"large maps to large rate", VehicleLarge, "0.34"},
		{"unknown class resolves empty", "motorcycle", ""},
		{"empty class resolves empty", "", ""},
		{"case sensitive", "Compact", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.vehicleType, table))
		})
	}
}

func TestResolveEmptyTable(t *testing.T) {
	// A zero table resolves every class to the empty string; callers
	// treat that as "no rate change applied".
	assert.Equal(t, "", Resolve(VehicleCompact, Table{}))
	assert.Equal(t, "", Resolve(VehicleLarge, Table{}))
}
