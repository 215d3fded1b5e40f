// Package queue defines message payloads exchanged over the message
// broker, plus the background consumer that turns them into the
// occupancy log.
package queue

// SpotStatusChangedEvent is published whenever a spot flips between
// Empty and Occupied. It carries enough denormalized data for downstream
// consumers to log or aggregate occupancy without querying the primary
// database.
type SpotStatusChangedEvent struct {
	SpotID      uint64 `json:"spot_id"`
	GarageAlias string `json:"garage_alias"`
	VehicleType string `json:"vehicle_type"`
	Status      string `json:"status"`
	Rate        string `json:"rate"`
	ChangedAt   string `json:"changed_at"`
}
