package assistant

import "scan-dashboard/internal/models"

// Intent is the classified purpose of a query.
type Intent string

const (
	IntentTotalScans Intent = "totalScans"
	IntentAccuracy   Intent = "accuracy"
	IntentInventory  Intent = "inventory"
	IntentLowStock   Intent = "lowStock"
	IntentCategory   Intent = "category"
	IntentCost       Intent = "cost"
	IntentTime       Intent = "time"
	IntentTrends     Intent = "trends"
	IntentPayment    Intent = "payment"
	IntentSpecific   Intent = "specific"
	IntentGeneral    Intent = "general"
)

// Intents lists every intent, general last.
var Intents = []Intent{
	IntentTotalScans, IntentAccuracy, IntentInventory, IntentLowStock, IntentCategory,
	IntentCost, IntentTime, IntentTrends, IntentPayment, IntentSpecific, IntentGeneral,
}

// Metric is the kind of figure a query asks for. It is recorded but does not
// change the response.
type Metric string

const (
	MetricCount      Metric = "count"
	MetricPercentage Metric = "percentage"
	MetricCurrency   Metric = "currency"
	MetricTime       Metric = "time"
)

// ParsedQuery is the classification of one query. Every field but Intent is
// optional and empty when nothing matched.
type ParsedQuery struct {
	Intent       Intent           `json:"intent"`
	Timeframe    models.Timeframe `json:"timeframe,omitempty"`
	Category     string           `json:"category,omitempty"`
	Metric       Metric           `json:"metric,omitempty"`
	SpecificItem string           `json:"specific_item,omitempty"`
}

// Answer is what Ask returns for one query.
type Answer struct {
	Query    string      `json:"query"`
	Parsed   ParsedQuery `json:"parsed"`
	Response string      `json:"response"`
	// Degraded is set when the snapshot could not be loaded.
	Degraded bool `json:"degraded,omitempty"`
}
