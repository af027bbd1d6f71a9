package categorize

// categoryKeywords is the fixed keyword table scored against transaction
// notes. Best overlap ratio wins.
var categoryKeywords = map[string][]string{
	"Business":      {"office", "client", "meeting", "invoice", "software", "consulting"},
	"Personal":      {"personal", "gift", "hobby", "clothes", "haircut"},
	"Groceries":     {"grocery", "supermarket", "market", "food", "produce"},
	"Dining":        {"restaurant", "lunch", "dinner", "takeaway", "cafe"},
	"Coffee":        {"coffee", "espresso", "latte", "barista"},
	"Entertainment": {"movie", "cinema", "concert", "streaming", "subscription", "games"},
	"Transport":     {"fuel", "petrol", "parking", "uber", "taxi", "train", "bus"},
	"Utilities":     {"electricity", "water", "gas", "internet", "phone", "utility"},
	"Health":        {"pharmacy", "doctor", "dentist", "gym", "medical"},
	"Investment":    {"shares", "stocks", "etf", "brokerage", "dividend", "investment"},
	"Travel":        {"hotel", "flight", "airline", "airbnb", "travel"},
}

// businessIndicators and personalIndicators drive mixed-use split detection.
var (
	businessIndicators = []string{"office", "client", "meeting", "work", "invoice", "business"}
	personalIndicators = []string{"personal", "family", "home", "gift", "weekend"}

	// strongBusinessIndicators tip a mixed note toward the larger business
	// share.
	strongBusinessIndicators = []string{"client", "meeting", "invoice"}

	// sharedExpenseKeywords mark costs typically split with a household.
	sharedExpenseKeywords = []string{"rent", "utilities", "internet", "electricity", "groceries", "insurance"}
)
