package domain

// Combo is a fixed ordered sequence of single-word command tokens that
// yields a flat reward when typed consecutively.
type Combo struct {
	Name     string   `json:"name"`
	Sequence []string `json:"sequence"`
	Reward   int64    `json:"reward"`
	Message  string   `json:"message"` // {reward} is replaced with the boosted amount
	Effect   string   `json:"effect"`
}
