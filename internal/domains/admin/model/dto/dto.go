package dto

type Breakdown struct {
	Total int            `json:"total"`
	By    map[string]int `json:"by"`
}

func NewBreakdown(counts map[string]int) Breakdown {
	breakdown := Breakdown{By: counts}
	if breakdown.By == nil {
		breakdown.By = map[string]int{}
	}

	for _, count := range breakdown.By {
		breakdown.Total += count
	}

	return breakdown
}

type StatsResponse struct {
	Profiles        Breakdown `json:"profiles"`
	Properties      Breakdown `json:"properties"`
	Bookings        Breakdown `json:"bookings"`
	Payments        Breakdown `json:"payments"`
	PendingPayments int       `json:"pending_payments"`
	GeneratedAt     string    `json:"generated_at"`
}
