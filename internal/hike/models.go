package hike

import "time"

// HikeRecord ties a hiked trail to one of the owner's park visits. Ownership
// is transitive: a record belongs to whoever owns its visit.
type HikeRecord struct {
	ID              string    `json:"id"`
	VisitID         string    `json:"visit_id"`
	TrailID         string    `json:"trail_id,omitempty"`
	HikeDate        time.Time `json:"hike_date"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	DistanceKm      float64   `json:"distance_km,omitempty"`
	Completed       bool      `json:"completed"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateHikeInput struct {
	VisitID         string    `json:"visit_id"`
	TrailID         string    `json:"trail_id"`
	HikeDate        time.Time `json:"hike_date"`
	DurationMinutes int       `json:"duration_minutes"`
	DistanceKm      float64   `json:"distance_km"`
	Completed       bool      `json:"completed"`
	Notes           string    `json:"notes"`
}

type UpdateHikeInput struct {
	TrailID         *string    `json:"trail_id"`
	HikeDate        *time.Time `json:"hike_date"`
	DurationMinutes *int       `json:"duration_minutes"`
	DistanceKm      *float64   `json:"distance_km"`
	Completed       *bool      `json:"completed"`
	Notes           *string    `json:"notes"`
}
