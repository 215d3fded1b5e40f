package model

import (
	"time"

	"github.com/iliyamo/parking-garage-api/internal/rate"
)

// UserSnapshot is the denormalized owner copy embedded in a vehicle. Like
// the garage snapshot on spots it is captured at write time; renaming the
// user later does not rewrite their vehicles.
type UserSnapshot struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Vehicle represents a registered vehicle in the `vehicles` table. The
// owner snapshot comes from the authenticated caller's token claims, never
// from the request body.
type Vehicle struct {
	ID          uint64       `json:"id"`
	User        UserSnapshot `json:"user"`
	VehicleType string       `json:"vehicle_type"`
	License     string       `json:"license"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ValidateNewVehicle checks a vehicle creation payload after the owner
// snapshot has been attached.
func ValidateNewVehicle(v Vehicle) error {
	if v.User.FirstName == "" && v.User.LastName == "" {
		return required("user", "")
	}
	if v.VehicleType != "" {
		if err := oneOf("vehicle_type", v.VehicleType, rate.VehicleCompact, rate.VehicleRegular, rate.VehicleLarge); err != nil {
			return err
		}
	}
	return strLen("license", v.License, 5, 20, true)
}

// VehicleUpdate carries a partial vehicle update.
type VehicleUpdate struct {
	VehicleType *string `json:"vehicle_type"`
	License     *string `json:"license"`
}

// ValidateVehicleUpdate checks the fields present in a partial update.
func ValidateVehicleUpdate(u VehicleUpdate) error {
	if u.VehicleType != nil {
		if err := oneOf("vehicle_type", *u.VehicleType, rate.VehicleCompact, rate.VehicleRegular, rate.VehicleLarge); err != nil {
			return err
		}
	}
	if u.License != nil {
		return strLen("license", *u.License, 5, 20, true)
	}
	return nil
}

// Fields flattens a partial vehicle update into column/value pairs.
func (u VehicleUpdate) Fields() map[string]any {
	m := map[string]any{}
	if u.VehicleType != nil {
		m["vehicle_type"] = *u.VehicleType
	}
	if u.License != nil {
		m["license"] = *u.License
	}
	return m
}
