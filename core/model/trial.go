package model

// Trial holds the costs of both strategies on one random instance and the
// ratios derived from them. A nil ratio means the value is undefined for this
// trial (division by zero) and must be left out of aggregates.
type Trial struct {
	Index        int     `json:"trial"`
	OfflineCost  float64 `json:"offline_cost"`
	OnlineCost   float64 `json:"online_cost"`
	Difference   float64 `json:"difference"`
	MinSeatPrice float64 `json:"min_seat_price"`
	MaxSeatPrice float64 `json:"max_seat_price"`
	// TheoreticalMaxRatio is max/min seat price.
	TheoreticalMaxRatio *float64 `json:"theoretical_max_ratio,omitempty"`
	// CompetitiveRatio is online cost over offline cost.
	CompetitiveRatio *float64 `json:"competitive_ratio,omitempty"`
	// NormalizedRatio rescales the excess cost against the price spread.
	NormalizedRatio *float64 `json:"normalized_ratio,omitempty"`
}
