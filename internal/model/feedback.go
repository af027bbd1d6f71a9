package model

// FeedbackKind enumerates the accepted feedback payloads.
type FeedbackKind string

const (
	// FeedbackCategoryCorrection corrects a category suggestion.
	FeedbackCategoryCorrection FeedbackKind = "categoryCorrection"
	// FeedbackSplitAdjustment corrects a split allocation.
	FeedbackSplitAdjustment FeedbackKind = "splitAdjustment"
	// FeedbackInsightRating rates a generated insight.
	FeedbackInsightRating FeedbackKind = "insightRating"
)

// UserFeedback is the sole write input to the learning system. Note carries
// the transaction note for category corrections so the correction can be
// keyed for future lookups.
type UserFeedback struct {
	Kind               FeedbackKind
	OriginalPrediction string
	CorrectedValue     string
	Note               string
	Confidence         float64
}

// LearningMetrics are monotonically accumulating learning counters. They
// persist across restarts.
type LearningMetrics struct {
	FeedbackCount       int     `json:"feedback_count"`
	AccuracyImprovement float64 `json:"accuracy_improvement"`
}
