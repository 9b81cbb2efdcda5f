package monitor

import "time"

type Status struct {
	PostgreSQL     bool      `json:"postgresql"`
	Redis          bool      `json:"redis"`
	Ledger         bool      `json:"ledger"`
	PendingUploads int       `json:"pending_uploads"`
	LastCheck      time.Time `json:"last_check"`
}
