package assistant

import "scan-dashboard/internal/models"

// Pattern tables are scanned in declaration order and the first entry with a
// pattern contained in the normalized query wins. Reordering entries changes
// classification.

type intentPattern struct {
	intent   Intent
	patterns []string
}

var intentPatterns = []intentPattern{
	// remaining-scans billing questions would otherwise be taken by "how many scans"
	{IntentPayment, []string{"scans remaining", "remaining scans", "scans left"}},
	{IntentTotalScans, []string{"total scans", "how many scans", "scan count", "number of scans", "scans today"}},
	{IntentAccuracy, []string{"accuracy", "accurate", "precision", "error rate"}},
	// lowStock precedes inventory so "low stock" is not taken by "stock"
	{IntentLowStock, []string{"low stock", "running low", "reorder", "out of stock", "restock", "low inventory"}},
	{IntentInventory, []string{"inventory", "stock level", "stock", "how many items", "items in stock"}},
	{IntentCategory, []string{"category", "categories", "breakdown", "distribution"}},
	{IntentCost, []string{"cost", "saving", "money", "roi"}},
	{IntentTime, []string{"time saved", "hours saved", "how much time", "efficiency"}},
	{IntentTrends, []string{"trend", "compare", "growth", "change", "increase", "decrease", "performance"}},
	{IntentPayment, []string{"payment", "balance", "subscription", "billing", "credits", "invoice"}},
	{IntentSpecific, []string{"tell me about", "details", "status of", "info on", "information on"}},
}

type timeframePattern struct {
	timeframe models.Timeframe
	patterns  []string
}

var timeframePatterns = []timeframePattern{
	{models.TimeframeToday, []string{"today", "daily"}},
	{models.TimeframeWeek, []string{"week", "weekly", "7 days"}},
	// year precedes month so "12 months" is not taken by "month"
	{models.TimeframeYear, []string{"year", "annual", "yearly", "12 months"}},
	{models.TimeframeMonth, []string{"month", "monthly", "30 days"}},
}

type namedPattern struct {
	name     string
	patterns []string
}

// Category patterns are matched after the product pattern has been cut from
// the query, so product names such as "macbook" never imply a category.
var categoryPatterns = []namedPattern{
	{"Electronics", []string{"electronics", "electronic", "gadget", "smartphone", "phone", "laptop", "headphone"}},
	{"Clothing", []string{"clothing", "clothes", "apparel", "fashion", "shoes", "jeans"}},
	{"Food & Beverage", []string{"food", "beverage", "drink", "grocery", "groceries"}},
	{"Home & Garden", []string{"home & garden", "home and garden", "garden", "furniture", "appliance"}},
	{"Sports", []string{"sports", "fitness", "outdoor"}},
	{"Books", []string{"books", "novel"}},
	{"Health & Beauty", []string{"health", "beauty", "cosmetic", "skincare"}},
	{"Toys", []string{"toys", "kids"}},
}

type metricPattern struct {
	metric   Metric
	patterns []string
}

var metricPatterns = []metricPattern{
	{MetricCount, []string{"how many", "count", "number of", "total"}},
	{MetricPercentage, []string{"percent", "%", "rate", "accuracy"}},
	{MetricCurrency, []string{"cost", "money", "$", "dollar", "revenue", "saving", "price", "balance"}},
	{MetricTime, []string{"time", "hours", "minutes"}},
}

var productPatterns = []namedPattern{
	{"iPhone 15 Pro", []string{"iphone 15 pro", "iphone 15", "iphone"}},
	{"Samsung Galaxy S24", []string{"samsung galaxy s24", "galaxy s24", "galaxy", "samsung"}},
	{"MacBook Air M3", []string{"macbook air m3", "macbook air", "macbook"}},
	{"Nike Air Max", []string{"nike air max", "air max", "nike"}},
	{"Sony WH-1000XM5", []string{"sony wh-1000xm5", "wh-1000xm5", "sony"}},
	{"Organic Coffee Beans", []string{"organic coffee beans", "organic coffee", "coffee beans", "coffee"}},
	{"Yoga Mat Premium", []string{"yoga mat premium", "yoga mat"}},
	{"Levi's 501 Jeans", []string{"levi's 501", "levis 501", "levi's", "levis"}},
	{"Dyson V15 Vacuum", []string{"dyson v15", "dyson", "vacuum"}},
	{"Kindle Paperwhite", []string{"kindle paperwhite", "kindle", "paperwhite"}},
}

// generalResponses answer queries no pattern recognized.
var generalResponses = []string{
	"I can help with scan totals, accuracy, inventory levels, low-stock alerts, category breakdowns, savings and billing. What would you like to know?",
	"I'm not sure I understood that. Try asking something like \"How many scans today?\" or \"Which items are running low?\"",
	"Your dashboard is tracking scans, inventory and savings. Ask me about any of them, for example \"What's our accuracy this week?\"",
	"I didn't catch a specific question there. You can ask about trends, time saved, cost savings or a particular product.",
}

// suggestedQuestions are offered before the first query.
var suggestedQuestions = []string{
	"How many scans did we do today?",
	"What's our scanning accuracy this week?",
	"Which items are running low on stock?",
	"Show me the category breakdown",
	"How much money have we saved this month?",
	"How much time have we saved this week?",
	"How is our performance trending?",
	"What's my subscription balance?",
	"Tell me about the iPhone 15 Pro",
}

// SuggestedQuestions returns example queries covering the main intents.
func SuggestedQuestions() []string {
	out := make([]string, len(suggestedQuestions))
	copy(out, suggestedQuestions)
	return out
}
