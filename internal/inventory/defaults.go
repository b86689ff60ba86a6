package inventory

import "scan-dashboard/internal/models"

// DefaultSnapshot returns the demo data the dashboard ships with. Each call
// returns a fresh copy.
func DefaultSnapshot() *models.DataSnapshot {
	s := &models.DataSnapshot{
		ScanStats: map[models.Timeframe]models.PeriodStats{
			models.TimeframeToday: {TotalScans: 1247, Accuracy: 98.7, TimeSaved: 12.5, CostSavings: 1875},
			models.TimeframeWeek:  {TotalScans: 8934, Accuracy: 98.2, TimeSaved: 89.3, CostSavings: 13395},
			models.TimeframeMonth: {TotalScans: 38420, Accuracy: 97.9, TimeSaved: 384.2, CostSavings: 57630},
			models.TimeframeYear:  {TotalScans: 456780, Accuracy: 97.5, TimeSaved: 4567.8, CostSavings: 685170},
		},
		CategoryAccuracy: []models.CategoryAccuracy{
			{Category: "Electronics", Accuracy: 99.2, Scans: 3421},
			{Category: "Clothing", Accuracy: 97.8, Scans: 2876},
			{Category: "Food & Beverage", Accuracy: 96.5, Scans: 2134},
			{Category: "Home & Garden", Accuracy: 98.1, Scans: 1567},
			{Category: "Sports", Accuracy: 97.3, Scans: 1245},
			{Category: "Books", Accuracy: 99.5, Scans: 987},
			{Category: "Health & Beauty", Accuracy: 96.9, Scans: 876},
			{Category: "Toys", Accuracy: 98.4, Scans: 654},
		},
		InventoryItems: []models.InventoryItem{
			{Name: "iPhone 15 Pro", Category: "Electronics", CurrentStock: 45, ReorderPoint: 20, LastScanned: "2 hours ago", Accuracy: 99.8},
			{Name: "Samsung Galaxy S24", Category: "Electronics", CurrentStock: 12, ReorderPoint: 15, LastScanned: "3 hours ago", Accuracy: 99.5},
			{Name: "MacBook Air M3", Category: "Electronics", CurrentStock: 8, ReorderPoint: 10, LastScanned: "1 hour ago", Accuracy: 99.9},
			{Name: "Nike Air Max", Category: "Clothing", CurrentStock: 67, ReorderPoint: 25, LastScanned: "30 minutes ago", Accuracy: 98.2},
			{Name: "Sony WH-1000XM5", Category: "Electronics", CurrentStock: 23, ReorderPoint: 15, LastScanned: "4 hours ago", Accuracy: 99.1},
			{Name: "Organic Coffee Beans", Category: "Food & Beverage", CurrentStock: 5, ReorderPoint: 20, LastScanned: "15 minutes ago", Accuracy: 96.8},
			{Name: "Yoga Mat Premium", Category: "Sports", CurrentStock: 34, ReorderPoint: 15, LastScanned: "5 hours ago", Accuracy: 97.5},
			{Name: "Levi's 501 Jeans", Category: "Clothing", CurrentStock: 18, ReorderPoint: 20, LastScanned: "2 hours ago", Accuracy: 98.0},
			{Name: "Dyson V15 Vacuum", Category: "Home & Garden", CurrentStock: 6, ReorderPoint: 8, LastScanned: "6 hours ago", Accuracy: 99.3},
			{Name: "Kindle Paperwhite", Category: "Electronics", CurrentStock: 29, ReorderPoint: 12, LastScanned: "1 hour ago", Accuracy: 99.6},
		},
		CategoryStock: []models.CategoryStock{
			{Category: "Electronics", Total: 2847},
			{Category: "Clothing", Total: 1923},
			{Category: "Food & Beverage", Total: 1456},
			{Category: "Home & Garden", Total: 987},
			{Category: "Sports", Total: 654},
			{Category: "Books", Total: 432},
			{Category: "Health & Beauty", Total: 321},
			{Category: "Toys", Total: 198},
		},
		Payments: &models.PaymentSummary{
			Balance:        2450.75,
			Currency:       "USD",
			ScansRemaining: 15420,
			ScansIncluded:  25000,
			NextBilling:    "2025-02-15",
			Subscriptions: []models.Subscription{
				{Name: "Professional Plan", Plan: "Monthly", Amount: 299, Status: "active", Renews: "2025-02-15", Method: "Visa ending 4242"},
				{Name: "API Access", Plan: "Monthly", Amount: 99, Status: "active", Renews: "2025-02-15", Method: "Visa ending 4242"},
				{Name: "Advanced Analytics", Plan: "Annual", Amount: 1188, Status: "active", Renews: "2025-11-01", Method: "ACH transfer"},
			},
		},
		Dashboard: &models.DashboardSummary{
			ScansChange:    12.5,
			AccuracyChange: 0.8,
			TimeChange:     15.3,
			CostChange:     18.7,
			SystemStatus:   "All systems operational",
			LastSync:       "2 minutes ago",
		},
	}
	s.DeriveLowStock()
	return s
}
