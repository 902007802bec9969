package model

import "time"

type Location struct {
	Code      string
	Name      string
	CreatedAt time.Time
}

// POCounter holds the last issued purchase-order serial for a location.
// LastSerial only ever advances; a serial handed out is never reissued.
type POCounter struct {
	LocationCode string
	LastSerial   int64
	UpdatedAt    time.Time
}
