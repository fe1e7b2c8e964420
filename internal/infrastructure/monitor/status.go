package monitor

import "time"

type Status struct {
	Snapshot  bool      `json:"snapshot"`
	PageCount int       `json:"snapshot_pages"`
	Store     string    `json:"store_state"`
	LastCheck time.Time `json:"last_check"`
}
