package model

// FinancialInsight is one ranked, human-readable observation about a
// transaction set.
type FinancialInsight struct {
	ID                       string
	Title                    string
	Description              string
	Category                 string
	ActionableRecommendation string
	RelevanceScore           float64
	IsPersonalized           bool
}

// TrendInsight describes a directional change in spending over time.
type TrendInsight struct {
	Category    string
	Direction   string // "increasing" or "decreasing"
	ChangeRate  float64
	Description string
}

// ActionableRecommendation is a concrete spending action, ordered by
// priority descending for deterministic presentation.
type ActionableRecommendation struct {
	ID       string
	Category string
	Action   string
	Impact   string
	Priority int
}

// UserProfile optionally personalizes insight generation. Supplied by the
// caller and persisted across runs.
type UserProfile struct {
	Segment         string `json:"segment"`
	Industry        string `json:"industry"`
	ExperienceLevel string `json:"experience_level"`
}
