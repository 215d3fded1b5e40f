package model

import (
	"time"

	"github.com/iliyamo/parking-garage-api/internal/rate"
)

// Garage represents a parking garage venue as stored in the `garages`
// table. Every garage owns a rate table: one hourly price per vehicle
// class, kept as decimal strings exactly as submitted.
//
// Fields:
//  ID          – primary key identifier.
//  Alias       – human-friendly garage name (min 3 chars).
//  Zipcode     – postal code (3–20 chars).
//  Prefix      – short code unique across all garages (1–5 chars).
//  Location    – free-text address (min 5 chars).
//  RateCompact – hourly price for compact vehicles.
//  RateRegular – hourly price for regular vehicles.
//  RateLarge   – hourly price for large vehicles.
type Garage struct {
	ID          uint64    `json:"id"`
	Alias       string    `json:"alias"`
	Zipcode     string    `json:"zipcode"`
	Prefix      string    `json:"prefix"`
	Location    string    `json:"location"`
	RateCompact string    `json:"rate_compact"`
	RateRegular string    `json:"rate_regular"`
	RateLarge   string    `json:"rate_large"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Rates returns the garage's rate table for the resolver.
func (g Garage) Rates() rate.Table {
	return rate.Table{Compact: g.RateCompact, Regular: g.RateRegular, Large: g.RateLarge}
}

// Snapshot copies the fields that spots embed. The copy is taken at write
// time and never refreshed afterwards; later garage updates or deletes do
// not touch dependent spots.
func (g Garage) Snapshot() GarageSnapshot {
	return GarageSnapshot{
		Alias:       g.Alias,
		Zipcode:     g.Zipcode,
		RateCompact: g.RateCompact,
		RateRegular: g.RateRegular,
		RateLarge:   g.RateLarge,
	}
}

// ValidateNewGarage checks a full garage payload for creation and returns
// the first violation only, mirroring how the API reports validation
// failures. A nil return means the payload is acceptable.
func ValidateNewGarage(g Garage) error {
	if err := strLen("alias", g.Alias, 3, 0, true); err != nil {
		return err
	}
	if err := strLen("location", g.Location, 5, 0, true); err != nil {
		return err
	}
	if err := strLen("zipcode", g.Zipcode, 3, 20, true); err != nil {
		return err
	}
	if err := strLen("prefix", g.Prefix, 1, 5, true); err != nil {
		return err
	}
	if err := required("rate_compact", g.RateCompact); err != nil {
		return err
	}
	if err := required("rate_regular", g.RateRegular); err != nil {
		return err
	}
	return required("rate_large", g.RateLarge)
}

// GarageUpdate carries a partial garage update. Nil fields are absent from
// the payload and keep their stored value.
type GarageUpdate struct {
	Alias       *string `json:"alias"`
	Zipcode     *string `json:"zipcode"`
	Prefix      *string `json:"prefix"`
	Location    *string `json:"location"`
	RateCompact *string `json:"rate_compact"`
	RateRegular *string `json:"rate_regular"`
	RateLarge   *string `json:"rate_large"`
}

// ValidateGarageUpdate checks only the fields present in a partial update.
func ValidateGarageUpdate(u GarageUpdate) error {
	if u.Alias != nil {
		if err := strLen("alias", *u.Alias, 3, 0, true); err != nil {
			return err
		}
	}
	if u.Location != nil {
		if err := strLen("location", *u.Location, 5, 0, true); err != nil {
			return err
		}
	}
	if u.Zipcode != nil {
		if err := strLen("zipcode", *u.Zipcode, 3, 20, true); err != nil {
			return err
		}
	}
	if u.Prefix != nil {
		if err := strLen("prefix", *u.Prefix, 1, 5, true); err != nil {
			return err
		}
	}
	return nil
}

// Fields flattens a partial update into column/value pairs for the
// repository's merge. Absent fields produce no entry.
func (u GarageUpdate) Fields() map[string]any {
	m := map[string]any{}
	if u.Alias != nil {
		m["alias"] = *u.Alias
	}
	if u.Zipcode != nil {
		m["zipcode"] = *u.Zipcode
	}
	if u.Prefix != nil {
		m["prefix"] = *u.Prefix
	}
	if u.Location != nil {
		m["location"] = *u.Location
	}
	if u.RateCompact != nil {
		m["rate_compact"] = *u.RateCompact
	}
	if u.RateRegular != nil {
		m["rate_regular"] = *u.RateRegular
	}
	if u.RateLarge != nil {
		m["rate_large"] = *u.RateLarge
	}
	return m
}
