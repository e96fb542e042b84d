// Package queue defines message payloads exchanged over the message broker.
package queue

// SnapshotSavedEvent is published when a seating map snapshot has been
// written to the remote store. It contains enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type SnapshotSavedEvent struct {
	UserID        uint64 `json:"user_id"`
	Sections      int    `json:"sections"`
	Members       int    `json:"members"`
	OccupiedSeats int    `json:"occupied_seats"`
	TotalSeats    int    `json:"total_seats"`
	SavedAt       string `json:"saved_at"`
}
