package trail

import (
	"encoding/json"
	"time"
)

// Difficulty ratings mirror the scale used by the US park service.
const (
	DifficultyEasy      = "Easy"
	DifficultyModerate  = "Moderate"
	DifficultyDifficult = "Difficult"
	DifficultyStrenuous = "Strenuous"
)

type Trail struct {
	ID             string          `json:"id"`
	ParkID         string          `json:"park_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Difficulty     string          `json:"difficulty,omitempty"`
	LengthKm       float64         `json:"length_km,omitempty"`
	ElevationGainM float64         `json:"elevation_gain_m,omitempty"`
	Path           json.RawMessage `json:"path,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type UpdateTrailInput struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Difficulty     *string          `json:"difficulty"`
	LengthKm       *float64         `json:"length_km"`
	ElevationGainM *float64         `json:"elevation_gain_m"`
	Path           *json.RawMessage `json:"path"`
}

func validDifficulty(d string) bool {
	switch d {
	case "", DifficultyEasy, DifficultyModerate, DifficultyDifficult, DifficultyStrenuous:
		return true
	}
	return false
}
