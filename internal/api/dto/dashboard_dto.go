package dto

// StatsBucket is one named slice of the dashboard statistics card.
type StatsBucket struct {
	Name    string  `json:"name"`
	Value   int     `json:"value"`
	Percent float64 `json:"percent"`
}

// StatsResponse summarizes a user's full ticket set.
type StatsResponse struct {
	Total   int           `json:"total"`
	Buckets []StatsBucket `json:"buckets"`
}

// DashboardResponse bundles the filtered list with the unfiltered stats.
type DashboardResponse struct {
	Stats   StatsResponse   `json:"stats"`
	Tickets []TicketSummary `json:"tickets"`
}
