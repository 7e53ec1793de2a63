package domain

import "time"

// ScamEntry is one address of the curated scam list.
type ScamEntry struct {
	Address string `json:"address"`
	Project string `json:"project,omitempty"`
	Info    string `json:"info,omitempty"`
}

// ScamReport is a user-submitted scam report.
type ScamReport struct {
	ID         string    `json:"id"`
	Address    string    `json:"address"`
	Project    string    `json:"project"`
	Info       string    `json:"info"`
	Discord    string    `json:"discord"`
	ReportedAt time.Time `json:"reported_at"`
}

// ScamOverview combines the curated list with received reports.
type ScamOverview struct {
	Listed  []ScamEntry   `json:"listed"`
	Reports []*ScamReport `json:"reports"`
}
