package categorize

import (
	"testing"
	"time"

	"github.com/finsage/finsage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-10 is a Wednesday.
var (
	workingHours = time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)
	lateNight    = time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC)
)

func record(date time.Time, amount float64, note string) model.TransactionRecord {
	return model.TransactionRecord{Date: date, Amount: amount, Note: note}
}

func TestSuggestCategoryKeywordMatch(t *testing.T) {
	m := NewModel()

	suggestion := m.SuggestCategory(record(lateNight, 40, "weekly grocery run at the supermarket"))
	require.NotNil(t, suggestion)
	assert.Equal(t, "Groceries", suggestion.Category)
	assert.Greater(t, suggestion.Confidence, 0.0)
}

func TestSuggestCategoryNoMatch(t *testing.T) {
	m := NewModel()
	assert.Nil(t, m.SuggestCategory(record(lateNight, 40, "zzz qqq")))
}

func TestSuggestCategoryCorrectionWins(t *testing.T) {
	m := NewModel()
	note := "weekly grocery run"
	m.RecordUserCorrection("Groceries", "Household", note)

	suggestion := m.SuggestCategory(record(lateNight, 40, note))
	require.NotNil(t, suggestion)
	assert.Equal(t, "Household", suggestion.Category)
	assert.InDelta(t, 0.95, suggestion.Confidence, 1e-9)
	assert.Contains(t, suggestion.ReasoningFactors, "matched previous user correction")
}

func TestCorrectionKeyNormalizes(t *testing.T) {
	assert.Equal(t, CorrectionKey("Office  Supplies"), CorrectionKey("office supplies"))
	assert.NotEqual(t, CorrectionKey("office supplies"), CorrectionKey("office supplies and chairs"))
	assert.Len(t, CorrectionKey("anything"), 16)
}

func TestWorkingHoursMeetingRule(t *testing.T) {
	m := NewModel()

	// During working hours the meeting note must land in Business at >= 0.8.
	suggestion := m.SuggestCategory(record(workingHours, 120, "office client meeting"))
	require.NotNil(t, suggestion)
	assert.Equal(t, "Business", suggestion.Category)
	assert.GreaterOrEqual(t, suggestion.Confidence, 0.8)

	// Outside working hours the override must not apply.
	offHours := m.SuggestCategory(record(lateNight, 120, "office client meeting"))
	require.NotNil(t, offHours)
	assert.Less(t, offHours.Confidence, 0.8)
}

func TestAmountBoost(t *testing.T) {
	m := NewModel()

	small := m.SuggestCategory(record(lateNight, 40, "grocery"))
	large := m.SuggestCategory(record(lateNight, 1500, "grocery"))
	require.NotNil(t, small)
	require.NotNil(t, large)
	assert.InDelta(t, small.Confidence+0.2, large.Confidence, 1e-9)
}

func TestSuggestCategoryWithContext(t *testing.T) {
	m := NewModel()

	saturday := time.Date(2024, 1, 13, 11, 0, 0, 0, time.UTC)
	contextual := m.SuggestCategoryWithContext(record(saturday, 30, "cafe lunch"))
	require.NotNil(t, contextual)
	assert.Contains(t, contextual.ContextualFactors, "weekend")
	assert.NotContains(t, contextual.ContextualFactors, "working hours")

	december := time.Date(2024, 12, 10, 14, 0, 0, 0, time.UTC)
	holiday := m.SuggestCategoryWithContext(record(december, 30, "gift shopping"))
	require.NotNil(t, holiday)
	assert.Contains(t, holiday.ContextualFactors, "holiday season")
}

func TestSplitAllocationSumsToOne(t *testing.T) {
	m := NewModel()

	tests := []struct {
		name string
		txn  model.TransactionRecord
	}{
		{name: "mixed business and personal", txn: record(workingHours, 300, "client meeting then family dinner at home")},
		{name: "business only", txn: record(workingHours, 80, "office supplies")},
		{name: "shared expense", txn: record(lateNight, 900, "monthly rent payment")},
		{name: "plain personal", txn: record(lateNight, 20, "haircut")},
		{name: "no signal", txn: record(lateNight, 20, "xyz")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits := m.SuggestSplitAllocation(tt.txn)
			require.NotEmpty(t, splits)

			var sum float64
			for _, split := range splits {
				assert.Greater(t, split.Percentage, 0.0)
				sum += split.Percentage
			}
			assert.InDelta(t, 1.0, sum, 1e-6)
		})
	}
}

func TestSplitAllocationShapes(t *testing.T) {
	m := NewModel()

	mixed := m.SuggestSplitAllocation(record(workingHours, 300, "client meeting then family dinner"))
	require.Len(t, mixed, 2)
	assert.Equal(t, "Business", mixed[0].Category)
	assert.InDelta(t, 0.7, mixed[0].Percentage, 1e-9)

	weakMixed := m.SuggestSplitAllocation(record(workingHours, 300, "work trip with family"))
	require.Len(t, weakMixed, 2)
	assert.InDelta(t, 0.6, weakMixed[0].Percentage, 1e-9)

	businessOnly := m.SuggestSplitAllocation(record(workingHours, 80, "office supplies"))
	require.Len(t, businessOnly, 1)
	assert.Equal(t, "Business", businessOnly[0].Category)

	shared := m.SuggestSplitAllocation(record(lateNight, 900, "monthly rent payment"))
	require.Len(t, shared, 2)
	assert.InDelta(t, 0.8, shared[0].Percentage, 1e-9)
	assert.Equal(t, "Shared", shared[1].Category)
}

func TestAccuracyNudges(t *testing.T) {
	m := NewModel()
	start := m.Accuracy()

	m.RecordUserCorrection("A", "B", "note")
	afterCorrection := m.Accuracy()
	assert.Greater(t, afterCorrection, start)

	m.AdaptiveUpdate(nil)
	assert.Greater(t, m.Accuracy(), afterCorrection)
}
