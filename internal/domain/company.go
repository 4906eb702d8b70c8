package domain

import "time"

// Company represents a listed company tracked by the research universe.
// Corresponds to companies table in PostgreSQL.
type Company struct {
	CompanyID string // PRIMARY KEY
	Ticker    string // exchange ticker, unique
	Name      string
	Active    bool // inactive companies are skipped by batch runs
	CreatedAt time.Time
}
