package assistant

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan-dashboard/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func testSnapshot() *models.DataSnapshot {
	return &models.DataSnapshot{
		ScanStats: map[models.Timeframe]models.PeriodStats{
			models.TimeframeToday: {TotalScans: 1247, Accuracy: 98.7, TimeSaved: 12.5, CostSavings: 1875.5},
			models.TimeframeWeek:  {TotalScans: 8934, Accuracy: 97.9, TimeSaved: 89, CostSavings: 13350},
		},
		CategoryAccuracy: []models.CategoryAccuracy{
			{Category: "Electronics", Accuracy: 99.2, Scans: 3421},
			{Category: "Clothing", Accuracy: 96.1, Scans: 2107},
		},
		InventoryItems: []models.InventoryItem{
			{Name: "iPhone 15 Pro", Category: "Electronics", CurrentStock: 45, ReorderPoint: 20, LastScanned: "2 hours ago", Accuracy: 99.5},
			{Name: "Nike Air Max", Category: "Clothing", CurrentStock: 8, ReorderPoint: 15, LastScanned: "1 day ago", Accuracy: 95.8},
		},
		CategoryStock: []models.CategoryStock{
			{Category: "Electronics", Total: 300},
			{Category: "Clothing", Total: 100},
		},
		LowStockItems: []models.InventoryItem{
			{Name: "Nike Air Max", Category: "Clothing", CurrentStock: 8, ReorderPoint: 15},
		},
		Payments: &models.PaymentSummary{
			Balance: 2450.75, Currency: "USD", ScansRemaining: 15420, ScansIncluded: 25000, NextBilling: "2026-11-01",
			Subscriptions: []models.Subscription{{Name: "Scanner Pro", Plan: "Annual", Amount: 299, Status: "active"}},
		},
		Dashboard: &models.DashboardSummary{ScansChange: 12.5, AccuracyChange: 2.1, TimeChange: 8.3, CostChange: -1.4, SystemStatus: "operational"},
	}
}

// ==========================
// Classification Tests
// ==========================

func TestParse_Classification(t *testing.T) {
	p := NewParser()
	tests := []struct {
		query string
		want  ParsedQuery
	}{
		{"total scans and accuracy", ParsedQuery{Intent: IntentTotalScans, Metric: MetricCount}},
		{"low stock this week", ParsedQuery{Intent: IntentLowStock, Timeframe: models.TimeframeWeek}},
		{"asdkjasdj", ParsedQuery{Intent: IntentGeneral}},
		{"", ParsedQuery{Intent: IntentGeneral}},
		{"   ", ParsedQuery{Intent: IntentGeneral}},
		{"What's the stock level for electronics?", ParsedQuery{Intent: IntentInventory, Category: "Electronics"}},
		{"How ACCURATE were clothing scans this month", ParsedQuery{Intent: IntentAccuracy, Category: "Clothing", Timeframe: models.TimeframeMonth, Metric: MetricPercentage}},
		{"Tell me about the iPhone 15 Pro", ParsedQuery{Intent: IntentSpecific, SpecificItem: "iPhone 15 Pro"}},
		{"what's the accuracy for the macbook air", ParsedQuery{Intent: IntentAccuracy, Metric: MetricPercentage, SpecificItem: "MacBook Air M3"}},
		{"which macbook items are running low", ParsedQuery{Intent: IntentLowStock, SpecificItem: "MacBook Air M3"}},
		{"show transport category", ParsedQuery{Intent: IntentCategory}},
		{"iphone stock in electronics", ParsedQuery{Intent: IntentInventory, Category: "Electronics", SpecificItem: "iPhone 15 Pro"}},
		{"total scans over the last 12 months", ParsedQuery{Intent: IntentTotalScans, Timeframe: models.TimeframeYear, Metric: MetricCount}},
		{"how many scans remaining on my plan", ParsedQuery{Intent: IntentPayment, Metric: MetricCount}},
		{"how much money did we save this year", ParsedQuery{Intent: IntentCost, Timeframe: models.TimeframeYear, Metric: MetricCurrency}},
		{"hours saved today", ParsedQuery{Intent: IntentTime, Timeframe: models.TimeframeToday, Metric: MetricTime}},
		{"show me the category breakdown", ParsedQuery{Intent: IntentCategory}},
		{"what's my subscription balance", ParsedQuery{Intent: IntentPayment, Metric: MetricCurrency}},
		{"compare weekly growth", ParsedQuery{Intent: IntentTrends, Timeframe: models.TimeframeWeek}},
		{"is the kindle doing ok", ParsedQuery{Intent: IntentGeneral, SpecificItem: "Kindle Paperwhite"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, p.Parse(tt.query)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestParse_IsDeterministic(t *testing.T) {
	p := NewParser()
	queries := append(SuggestedQuestions(), "low stock this week", "asdkjasdj", "")
	for _, q := range queries {
		first := p.Parse(q)
		second := p.Parse(q)
		assert.Empty(t, cmp.Diff(first, second), q)
	}
}

func TestParse_FirstMatchInTableOrder(t *testing.T) {
	p := NewParser()

	// both "accuracy" and "low stock" match; accuracy is declared first
	assert.Equal(t, IntentAccuracy, p.Parse("accuracy of low stock items").Intent)
	// "low stock" must not be shadowed by the generic "stock"
	assert.Equal(t, IntentLowStock, p.Parse("items with low stock").Intent)
	// timeframe table order: today wins over week
	assert.Equal(t, models.TimeframeToday, p.Parse("today vs this week").Timeframe)
}

// Every pattern must classify to its own entry when asked alone, otherwise an
// earlier entry shadows it and it can never match.
func TestPatternTables_NoShadowedPatterns(t *testing.T) {
	p := NewParser()

	for _, ip := range intentPatterns {
		for _, pattern := range ip.patterns {
			assert.Equal(t, ip.intent, p.Parse(pattern).Intent, "intent pattern %q", pattern)
		}
	}
	for _, tp := range timeframePatterns {
		for _, pattern := range tp.patterns {
			assert.Equal(t, tp.timeframe, p.Parse(pattern).Timeframe, "timeframe pattern %q", pattern)
		}
	}
	for _, cp := range categoryPatterns {
		for _, pattern := range cp.patterns {
			assert.Equal(t, cp.name, p.Parse(pattern).Category, "category pattern %q", pattern)
		}
	}
	for _, mp := range metricPatterns {
		for _, pattern := range mp.patterns {
			assert.Equal(t, mp.metric, p.Parse(pattern).Metric, "metric pattern %q", pattern)
		}
	}
	for _, pp := range productPatterns {
		for _, pattern := range pp.patterns {
			assert.Equal(t, pp.name, p.Parse(pattern).SpecificItem, "product pattern %q", pattern)
		}
	}
}

func TestSuggestedQuestions_AreClassified(t *testing.T) {
	p := NewParser()
	for _, q := range SuggestedQuestions() {
		assert.NotEqual(t, IntentGeneral, p.Parse(q).Intent, q)
	}

	got := SuggestedQuestions()
	got[0] = "mutated"
	assert.NotEqual(t, "mutated", SuggestedQuestions()[0])
}

// ==========================
// Response Generation Tests
// ==========================

func TestGenerateResponse_NotFoundIsAnAnswer(t *testing.T) {
	p := NewParser()
	snap := testSnapshot()

	got := p.GenerateResponse(ParsedQuery{Intent: IntentSpecific, SpecificItem: "nonexistent-gadget"}, snap)
	assert.Contains(t, got, "couldn't find")
	assert.Contains(t, got, "nonexistent-gadget")

	got = p.GenerateResponse(ParsedQuery{Intent: IntentAccuracy, Category: "Toys"}, snap)
	assert.Contains(t, got, "couldn't find")

	got = p.GenerateResponse(ParsedQuery{Intent: IntentInventory, SpecificItem: "Dyson V15 Vacuum"}, snap)
	assert.Contains(t, got, "couldn't find")
}

func TestGenerateResponse_AlwaysNonEmpty(t *testing.T) {
	p := NewParser()
	snapshots := map[string]*models.DataSnapshot{
		"nil":   nil,
		"empty": {},
		"full":  testSnapshot(),
	}
	hints := []ParsedQuery{
		{},
		{Timeframe: models.TimeframeYear, Category: "Books", SpecificItem: "Kindle Paperwhite", Metric: MetricTime},
	}

	for name, snap := range snapshots {
		for _, intent := range append(Intents, Intent("unknown")) {
			for _, h := range hints {
				h.Intent = intent
				require.NotPanics(t, func() {
					got := p.GenerateResponse(h, snap)
					assert.NotEmpty(t, strings.TrimSpace(got), "%s/%s", name, intent)
				})
			}
		}
	}
}

func TestGenerateResponse_DoesNotMutateSnapshot(t *testing.T) {
	p := NewParser()
	snap := testSnapshot()
	before := testSnapshot()

	for _, intent := range Intents {
		p.GenerateResponse(ParsedQuery{Intent: intent, Category: "Clothing"}, snap)
	}
	assert.Empty(t, cmp.Diff(before, snap))
}

func TestGenerateResponse_Builders(t *testing.T) {
	p := NewParser()
	snap := testSnapshot()

	tests := []struct {
		name   string
		parsed ParsedQuery
		want   []string
	}{
		{"total scans default today", ParsedQuery{Intent: IntentTotalScans}, []string{"1,247 scans today"}},
		{"total scans week", ParsedQuery{Intent: IntentTotalScans, Timeframe: models.TimeframeWeek}, []string{"8,934 scans this week"}},
		{"total scans missing period", ParsedQuery{Intent: IntentTotalScans, Timeframe: models.TimeframeYear}, []string{"don't have scan totals for this year"}},
		{"accuracy overall", ParsedQuery{Intent: IntentAccuracy}, []string{"98.7%", "Electronics leads", "Clothing is lowest"}},
		{"accuracy by category", ParsedQuery{Intent: IntentAccuracy, Category: "Clothing"}, []string{"Clothing is 96.1%", "2,107 scans"}},
		{"inventory item", ParsedQuery{Intent: IntentInventory, SpecificItem: "iPhone 15 Pro"}, []string{"45 units"}},
		{"inventory category", ParsedQuery{Intent: IntentInventory, Category: "Electronics"}, []string{"300 units of Electronics"}},
		{"inventory overall", ParsedQuery{Intent: IntentInventory}, []string{"400 units", "1 items"}},
		{"low stock", ParsedQuery{Intent: IntentLowStock}, []string{"Nike Air Max: 8 left (reorder at 15)"}},
		{"low stock healthy category", ParsedQuery{Intent: IntentLowStock, Category: "Electronics"}, []string{"No Electronics items"}},
		{"category breakdown", ParsedQuery{Intent: IntentCategory}, []string{"Electronics: 300 units (75.0%)", "Clothing: 100 units (25.0%)"}},
		{"cost", ParsedQuery{Intent: IntentCost, Timeframe: models.TimeframeWeek}, []string{"$13,350.00 this week"}},
		{"time", ParsedQuery{Intent: IntentTime}, []string{"12.5 hours", "today"}},
		{"trends", ParsedQuery{Intent: IntentTrends}, []string{"+12.5%", "-1.4%"}},
		{"payment", ParsedQuery{Intent: IntentPayment}, []string{"$2,450.75", "15,420 scans remaining", "Scanner Pro"}},
		{"specific item", ParsedQuery{Intent: IntentSpecific, SpecificItem: "Nike Air Max"}, []string{"Clothing", "reorder point"}},
		{"accuracy for an item", ParsedQuery{Intent: IntentAccuracy, SpecificItem: "iPhone 15 Pro"}, []string{"iPhone 15 Pro is 99.5%"}},
		{"accuracy for an unknown item", ParsedQuery{Intent: IntentAccuracy, SpecificItem: "MacBook Air M3"}, []string{"couldn't find", "MacBook Air M3"}},
		{"low stock for a low item", ParsedQuery{Intent: IntentLowStock, SpecificItem: "Nike Air Max"}, []string{"Nike Air Max is running low: 8 left"}},
		{"low stock for a healthy item", ParsedQuery{Intent: IntentLowStock, SpecificItem: "iPhone 15 Pro"}, []string{"iPhone 15 Pro is not running low", "45 in stock"}},
		{"specific without target", ParsedQuery{Intent: IntentSpecific}, []string{"Which product or category"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.GenerateResponse(tt.parsed, snap)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestGenerateResponse_GeneralPicksFromCannedSet(t *testing.T) {
	p := NewParser(WithRandom(rand.New(rand.NewPCG(7, 11))))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got := p.GenerateResponse(ParsedQuery{Intent: IntentGeneral}, testSnapshot())
		assert.Contains(t, generalResponses, got)
		seen[got] = true
	}
	assert.Len(t, seen, len(generalResponses))
}

func TestGenerateResponse_InjectedRandomIsReproducible(t *testing.T) {
	a := NewParser(WithRandom(rand.New(rand.NewPCG(1, 2))))
	b := NewParser(WithRandom(rand.New(rand.NewPCG(1, 2))))
	for i := 0; i < 10; i++ {
		assert.Equal(t,
			a.GenerateResponse(ParsedQuery{Intent: IntentGeneral}, nil),
			b.GenerateResponse(ParsedQuery{Intent: IntentGeneral}, nil))
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "999", formatCount(999))
	assert.Equal(t, "1,000", formatCount(1000))
	assert.Equal(t, "-12,345,678", formatCount(-12345678))
	assert.Equal(t, "$1,875.50", formatMoney(1875.5, "USD"))
	assert.Equal(t, "$1.00", formatMoney(0.999, ""))
	assert.Equal(t, "12.00 CAD", formatMoney(12, "cad"))
	assert.Equal(t, "89 hours", formatHours(89))
}
