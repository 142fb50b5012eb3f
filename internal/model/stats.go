package model

// EventStats is an on-demand aggregate over the full event set. It is
// computed fresh on every call and never cached.
type EventStats struct {
	Total    int            `json:"total"`
	ByType   map[string]int `json:"byType"`
	BySource map[string]int `json:"bySource"`
	ByStatus map[string]int `json:"byStatus"`
	Recent   []*Event       `json:"recent"`
}
