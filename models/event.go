package models

// Change kinds carried on the stream, mirroring wal2json action values.
const (
	ChangeInsert = "insert"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

// ChangeEvent announces a row change in one of the origin tables. Coordinates
// are included when the row carries them so consumers can pre-resolve the
// location without a catalog round trip.
type ChangeEvent struct {
	Source    string   `json:"source"`
	Kind      string   `json:"kind"`
	UsahaID   string   `json:"usaha_id"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
