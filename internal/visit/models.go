package visit

import (
	"encoding/json"
	"time"
)

type Visit struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	ParkID    string          `json:"park_id"`
	VisitDate time.Time       `json:"visit_date"`
	Notes     string          `json:"notes,omitempty"`
	Weather   json.RawMessage `json:"weather,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateVisitInput struct {
	ParkID    string          `json:"park_id"`
	VisitDate time.Time       `json:"visit_date"`
	Notes     string          `json:"notes"`
	Weather   json.RawMessage `json:"weather"`
}

type UpdateVisitInput struct {
	VisitDate *time.Time       `json:"visit_date"`
	Notes     *string          `json:"notes"`
	Weather   *json.RawMessage `json:"weather"`
}
