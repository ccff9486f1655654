package models

import "time"

// MonthlyConsumption is one cached pellet-consumption total for a calendar
// month. Month is the first instant of the month in UTC. Rows are written
// only for months that were already complete when computed, and are never
// updated afterwards.
type MonthlyConsumption struct {
	Month           time.Time `json:"month"`
	TotalFFWorkTime int64     `json:"total_ff_work_time"`
}

// HourlyConsumption is one zero-filled hour bucket of feeder work time.
type HourlyConsumption struct {
	Timestamp  string `json:"Timestamp"` // "YYYY-MM-DDTHH:MM:SS", top of the hour
	FFWorkTime int64  `json:"FFWorkTime"`
}

// MonthlyPoint is the wire shape of one monthly series row.
type MonthlyPoint struct {
	Month      string `json:"Month"` // "YYYY-MM"
	FFWorkTime int64  `json:"FFWorkTime"`
}
