package domain

import "time"

// RecordPoint is one entry of a persisted record. PointNumber is 1-based and
// informational; array position decides order on read.
type RecordPoint struct {
	PointNumber int     `json:"point_number"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Record is the persisted form of a boundary.
type Record struct {
	Points []RecordPoint `json:"points"`
}

// RecordSaved is published after a record has been written.
type RecordSaved struct {
	Namespace  Namespace `json:"namespace"`
	Name       string    `json:"name"`
	PointCount int       `json:"point_count"`
	Area       Area      `json:"area"`
	SavedAt    time.Time `json:"saved_at"`
}
