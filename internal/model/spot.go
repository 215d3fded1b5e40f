package model

import (
	"time"

	"github.com/iliyamo/parking-garage-api/internal/rate"
)

// Spot status values. A spot flips freely between the two; no occupancy
// guard is modeled.
const (
	StatusOccupied = "Occupied"
	StatusEmpty    = "Empty"
)

// GarageSnapshot is the denormalized copy of a garage that every spot
// embeds. It is captured when the spot is written and is never synced with
// later garage changes, so spots stay readable after their garage is gone.
type GarageSnapshot struct {
	Alias       string `json:"alias"`
	Zipcode     string `json:"zipcode"`
	RateCompact string `json:"rate_compact"`
	RateRegular string `json:"rate_regular"`
	RateLarge   string `json:"rate_large"`
}

// Rates returns the snapshot's rate table for the resolver.
func (s GarageSnapshot) Rates() rate.Table {
	return rate.Table{Compact: s.RateCompact, Regular: s.RateRegular, Large: s.RateLarge}
}

// Spot represents a single parking spot in the `spots` table.
//
// The Rate field is a cached derived value: it always equals the resolver
// output for the spot's vehicle class against the embedded snapshot at the
// moment the class was last assigned. Clients never set it directly; the
// server computes it on create and on every vehicle_type change.
type Spot struct {
	ID          uint64         `json:"id"`
	Garage      GarageSnapshot `json:"garage"`
	VehicleType string         `json:"vehicle_type"`
	Status      string         `json:"status"`
	Rate        string         `json:"rate"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ValidateNewSpot checks a spot creation payload after the server has
// derived the rate. hasGarage distinguishes "no garage given" from an
// empty snapshot. Validation runs after rate derivation on purpose: a
// payload missing required fields still fails cleanly post-computation.
func ValidateNewSpot(s Spot, hasGarage bool) error {
	if !hasGarage {
		return required("garage", "")
	}
	if err := strLen("garage.alias", s.Garage.Alias, 3, 0, true); err != nil {
		return err
	}
	if err := strLen("garage.zipcode", s.Garage.Zipcode, 3, 20, true); err != nil {
		return err
	}
	if err := required("garage.rate_compact", s.Garage.RateCompact); err != nil {
		return err
	}
	if err := required("garage.rate_regular", s.Garage.RateRegular); err != nil {
		return err
	}
	if err := required("garage.rate_large", s.Garage.RateLarge); err != nil {
		return err
	}
	if s.VehicleType != "" {
		if err := oneOf("vehicle_type", s.VehicleType, rate.VehicleCompact, rate.VehicleRegular, rate.VehicleLarge); err != nil {
			return err
		}
	}
	if s.Status != "" {
		if err := oneOf("status", s.Status, StatusOccupied, StatusEmpty); err != nil {
			return err
		}
	}
	// An empty rate means the class could not be resolved (for instance a
	// payload without vehicle_type); the spot is rejected rather than
	// stored without a price.
	return required("rate", s.Rate)
}

// SpotUpdate carries a partial spot update. Only status and vehicle_type
// are client-settable; the rate is injected by the update workflow when
// vehicle_type is present.
type SpotUpdate struct {
	VehicleType *string `json:"vehicle_type"`
	Status      *string `json:"status"`
}

// ValidateSpotUpdate checks the enum fields present in a partial update.
func ValidateSpotUpdate(u SpotUpdate) error {
	if u.VehicleType != nil {
		if err := oneOf("vehicle_type", *u.VehicleType, rate.VehicleCompact, rate.VehicleRegular, rate.VehicleLarge); err != nil {
			return err
		}
	}
	if u.Status != nil {
		if err := oneOf("status", *u.Status, StatusOccupied, StatusEmpty); err != nil {
			return err
		}
	}
	return nil
}
