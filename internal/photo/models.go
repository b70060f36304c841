package photo

import "time"

type Photo struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	VisitID      string     `json:"visit_id,omitempty"`
	HikeRecordID string     `json:"hike_record_id,omitempty"`
	URL          string     `json:"url"`
	Caption      string     `json:"caption,omitempty"`
	TakenOn      *time.Time `json:"taken_on,omitempty"`
	Lat          *float64   `json:"lat,omitempty"`
	Lng          *float64   `json:"lng,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CreatePhotoInput struct {
	VisitID      string     `json:"visit_id"`
	HikeRecordID string     `json:"hike_record_id"`
	URL          string     `json:"url"`
	Caption      string     `json:"caption"`
	TakenOn      *time.Time `json:"taken_on"`
	Lat          *float64   `json:"lat"`
	Lng          *float64   `json:"lng"`
}

// UpdatePhotoInput patches any photo field. Reattaching a photo to another
// visit or hike record goes through the same ownership checks as Create, and
// an empty string detaches the reference.
type UpdatePhotoInput struct {
	VisitID      *string    `json:"visit_id"`
	HikeRecordID *string    `json:"hike_record_id"`
	URL          *string    `json:"url"`
	Caption      *string    `json:"caption"`
	TakenOn      *time.Time `json:"taken_on"`
	Lat          *float64   `json:"lat"`
	Lng          *float64   `json:"lng"`
}
