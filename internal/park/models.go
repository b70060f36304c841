package park

import "time"

type Park struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state,omitempty"`
	Region      string    `json:"region,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	WebsiteURL  string    `json:"website_url,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ParkWithVisit decorates a park with the caller's most recent visit.
type ParkWithVisit struct {
	Park
	HasVisited    bool       `json:"has_visited"`
	VisitID       string     `json:"visit_id,omitempty"`
	LastVisitDate *time.Time `json:"last_visit_date,omitempty"`
}

type UpdateParkInput struct {
	Name        *string  `json:"name"`
	Code        *string  `json:"code"`
	Description *string  `json:"description"`
	State       *string  `json:"state"`
	Region      *string  `json:"region"`
	ImageURL    *string  `json:"image_url"`
	WebsiteURL  *string  `json:"website_url"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}
