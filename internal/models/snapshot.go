package models

// Timeframe is a reporting period. The empty value means unspecified.
type Timeframe string

const (
	TimeframeToday Timeframe = "today"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// Timeframes lists every period in ascending length.
var Timeframes = []Timeframe{TimeframeToday, TimeframeWeek, TimeframeMonth, TimeframeYear}

// PeriodStats aggregates scanning activity for one period.
type PeriodStats struct {
	TotalScans  int     `json:"total_scans" yaml:"total_scans"`
	Accuracy    float64 `json:"accuracy" yaml:"accuracy"`         // percent
	TimeSaved   float64 `json:"time_saved" yaml:"time_saved"`     // hours
	CostSavings float64 `json:"cost_savings" yaml:"cost_savings"` // currency units
}

type CategoryAccuracy struct {
	Category string  `json:"category" yaml:"category"`
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`
	Scans    int     `json:"scans" yaml:"scans"`
}

type InventoryItem struct {
	Name         string  `json:"name" yaml:"name"`
	Category     string  `json:"category" yaml:"category"`
	CurrentStock int     `json:"current_stock" yaml:"current_stock"`
	ReorderPoint int     `json:"reorder_point" yaml:"reorder_point"`
	LastScanned  string  `json:"last_scanned" yaml:"last_scanned"`
	Accuracy     float64 `json:"accuracy" yaml:"accuracy"`
}

// IsLow reports whether the item has reached its reorder point.
func (i InventoryItem) IsLow() bool {
	return i.CurrentStock <= i.ReorderPoint
}

type CategoryStock struct {
	Category string `json:"category" yaml:"category"`
	Total    int    `json:"total" yaml:"total"`
}

type Subscription struct {
	Name   string  `json:"name" yaml:"name"`
	Plan   string  `json:"plan" yaml:"plan"`
	Amount float64 `json:"amount" yaml:"amount"`
	Status string  `json:"status" yaml:"status"`
	Renews string  `json:"renews" yaml:"renews"`
	Method string  `json:"payment_method,omitempty" yaml:"payment_method,omitempty"`
}

type PaymentSummary struct {
	Balance        float64        `json:"balance" yaml:"balance"`
	Currency       string         `json:"currency" yaml:"currency"`
	ScansRemaining int            `json:"scans_remaining" yaml:"scans_remaining"`
	ScansIncluded  int            `json:"scans_included" yaml:"scans_included"`
	NextBilling    string         `json:"next_billing" yaml:"next_billing"`
	Subscriptions  []Subscription `json:"subscriptions" yaml:"subscriptions"`
}

type DashboardSummary struct {
	ScansChange    float64 `json:"scans_change" yaml:"scans_change"`
	AccuracyChange float64 `json:"accuracy_change" yaml:"accuracy_change"`
	TimeChange     float64 `json:"time_change" yaml:"time_change"`
	CostChange     float64 `json:"cost_change" yaml:"cost_change"`
	SystemStatus   string  `json:"system_status" yaml:"system_status"`
	LastSync       string  `json:"last_sync" yaml:"last_sync"`
}

// DataSnapshot is the read-only data bundle the assistant answers from.
type DataSnapshot struct {
	ScanStats        map[Timeframe]PeriodStats `json:"scan_stats" yaml:"scan_stats"`
	CategoryAccuracy []CategoryAccuracy        `json:"category_accuracy" yaml:"category_accuracy"`
	InventoryItems   []InventoryItem           `json:"inventory_items" yaml:"inventory_items"`
	CategoryStock    []CategoryStock           `json:"category_stock" yaml:"category_stock"`
	LowStockItems    []InventoryItem           `json:"low_stock_items" yaml:"low_stock_items"`
	Payments         *PaymentSummary           `json:"payments,omitempty" yaml:"payments,omitempty"`
	Dashboard        *DashboardSummary         `json:"dashboard,omitempty" yaml:"dashboard,omitempty"`
}

// Stats returns the statistics for tf, reporting false when absent.
func (s *DataSnapshot) Stats(tf Timeframe) (PeriodStats, bool) {
	if s == nil || s.ScanStats == nil {
		return PeriodStats{}, false
	}
	st, ok := s.ScanStats[tf]
	return st, ok
}

// DeriveLowStock fills LowStockItems and CategoryStock from InventoryItems
// when a source supplied only the item list.
func (s *DataSnapshot) DeriveLowStock() {
	if s == nil {
		return
	}
	if len(s.LowStockItems) == 0 {
		for _, it := range s.InventoryItems {
			if it.IsLow() {
				s.LowStockItems = append(s.LowStockItems, it)
			}
		}
	}
	if len(s.CategoryStock) == 0 {
		index := map[string]int{}
		for _, it := range s.InventoryItems {
			pos, ok := index[it.Category]
			if !ok {
				pos = len(s.CategoryStock)
				index[it.Category] = pos
				s.CategoryStock = append(s.CategoryStock, CategoryStock{Category: it.Category})
			}
			s.CategoryStock[pos].Total += it.CurrentStock
		}
	}
}
