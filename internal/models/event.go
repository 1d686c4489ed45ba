// internal/models/event.go
package models

type Event struct {
	ID          int64  `json:"event_id"`
	Name        string `json:"event_name"`
	StartDate   string `json:"start_date"`
	StartTime   string `json:"start_time"`
	EndDate     string `json:"end_date"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// EventUpdate carries only the fields a caller supplied; nil keeps the stored value.
type EventUpdate struct {
	Name      *string `json:"event_name"`
	StartDate *string `json:"start_date"`
	StartTime *string `json:"start_time"`
	EndDate   *string `json:"end_date"`
	EndTime   *string `json:"end_time"`
	Color     *string `json:"color"`
}
