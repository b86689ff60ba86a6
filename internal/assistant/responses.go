package assistant

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"scan-dashboard/internal/models"
)

const noDataResponse = "I don't have dashboard data available right now. Please try again once the data has synced."

func periodLabel(tf models.Timeframe) string {
	if tf == models.TimeframeToday {
		return "today"
	}
	return "this " + string(tf)
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func formatPercent(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64) + "%"
}

func formatSigned(f float64) string {
	if f >= 0 {
		return "+" + formatPercent(f)
	}
	return formatPercent(f)
}

func formatMoney(amount float64, currency string) string {
	sign := ""
	if amount < 0 {
		sign, amount = "-", -amount
	}
	whole := int(math.Trunc(amount))
	cents := int(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole, cents = whole+1, 0
	}
	body := fmt.Sprintf("%s%s.%02d", sign, formatCount(whole), cents)
	switch strings.ToUpper(currency) {
	case "", "USD":
		return "$" + body
	case "EUR":
		return "€" + body
	case "GBP":
		return "£" + body
	}
	return body + " " + strings.ToUpper(currency)
}

func formatHours(h float64) string {
	if h == math.Trunc(h) {
		return formatCount(int(h)) + " hours"
	}
	return strconv.FormatFloat(h, 'f', 1, 64) + " hours"
}

func nameMatches(name, query string) bool {
	return query != "" && strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

func categoryNotFound(category string) string {
	return fmt.Sprintf("I couldn't find any data for the %q category.", category)
}

func itemNotFound(item string) string {
	return fmt.Sprintf("I couldn't find any item matching %q in your inventory.", item)
}

func findCategoryAccuracy(s *models.DataSnapshot, category string) (models.CategoryAccuracy, bool) {
	for _, c := range s.CategoryAccuracy {
		if nameMatches(c.Category, category) {
			return c, true
		}
	}
	return models.CategoryAccuracy{}, false
}

func findCategoryStock(s *models.DataSnapshot, category string) (models.CategoryStock, bool) {
	for _, c := range s.CategoryStock {
		if nameMatches(c.Category, category) {
			return c, true
		}
	}
	return models.CategoryStock{}, false
}

func findItem(s *models.DataSnapshot, item string) (models.InventoryItem, bool) {
	for _, it := range s.InventoryItems {
		if nameMatches(it.Name, item) {
			return it, true
		}
	}
	return models.InventoryItem{}, false
}

func knownCategory(s *models.DataSnapshot, category string) bool {
	if _, ok := findCategoryAccuracy(s, category); ok {
		return true
	}
	if _, ok := findCategoryStock(s, category); ok {
		return true
	}
	for _, it := range s.InventoryItems {
		if nameMatches(it.Category, category) {
			return true
		}
	}
	return false
}

func totalScansResponse(s *models.DataSnapshot, tf models.Timeframe, category string) string {
	st, ok := s.Stats(tf)
	if !ok {
		if s == nil {
			return noDataResponse
		}
		return fmt.Sprintf("I don't have scan totals for %s yet.", periodLabel(tf))
	}
	out := fmt.Sprintf("You've completed %s scans %s.", formatCount(st.TotalScans), periodLabel(tf))
	if category != "" {
		c, found := findCategoryAccuracy(s, category)
		if !found {
			return out + " " + categoryNotFound(category)
		}
		out += fmt.Sprintf(" %s accounts for %s of all recorded scans.", c.Category, formatCount(c.Scans))
	}
	return out
}

func accuracyResponse(s *models.DataSnapshot, tf models.Timeframe, category, item string) string {
	if s == nil {
		return noDataResponse
	}
	if item != "" && category == "" {
		it, found := findItem(s, item)
		if !found {
			return itemNotFound(item)
		}
		return fmt.Sprintf("Scanning accuracy for %s is %s (last scanned %s).", it.Name, formatPercent(it.Accuracy), it.LastScanned)
	}
	if category != "" {
		c, found := findCategoryAccuracy(s, category)
		if !found {
			return categoryNotFound(category)
		}
		return fmt.Sprintf("Scanning accuracy for %s is %s across %s scans.", c.Category, formatPercent(c.Accuracy), formatCount(c.Scans))
	}

	st, ok := s.Stats(tf)
	if !ok {
		return fmt.Sprintf("I don't have accuracy figures for %s yet.", periodLabel(tf))
	}
	out := fmt.Sprintf("Your scanning accuracy %s is %s.", periodLabel(tf), formatPercent(st.Accuracy))

	if len(s.CategoryAccuracy) > 1 {
		best, worst := s.CategoryAccuracy[0], s.CategoryAccuracy[0]
		for _, c := range s.CategoryAccuracy[1:] {
			if c.Accuracy > best.Accuracy {
				best = c
			}
			if c.Accuracy < worst.Accuracy {
				worst = c
			}
		}
		out += fmt.Sprintf(" %s leads at %s, while %s is lowest at %s.",
			best.Category, formatPercent(best.Accuracy), worst.Category, formatPercent(worst.Accuracy))
	}
	return out
}

func inventoryResponse(s *models.DataSnapshot, category, item string) string {
	if s == nil {
		return noDataResponse
	}
	if item != "" {
		it, found := findItem(s, item)
		if !found {
			return itemNotFound(item)
		}
		return fmt.Sprintf("%s has %s units in stock (reorder point %s).",
			it.Name, formatCount(it.CurrentStock), formatCount(it.ReorderPoint))
	}
	if category != "" {
		c, found := findCategoryStock(s, category)
		if !found {
			return categoryNotFound(category)
		}
		return fmt.Sprintf("You have %s units of %s in stock.", formatCount(c.Total), c.Category)
	}

	if len(s.CategoryStock) == 0 && len(s.InventoryItems) == 0 {
		return "I don't have inventory levels available yet."
	}
	total := 0
	for _, c := range s.CategoryStock {
		total += c.Total
	}
	if len(s.CategoryStock) == 0 {
		for _, it := range s.InventoryItems {
			total += it.CurrentStock
		}
	}
	return fmt.Sprintf("You have %s units in stock across %d tracked items and %d categories. %d items are at or below their reorder point.",
		formatCount(total), len(s.InventoryItems), len(s.CategoryStock), len(s.LowStockItems))
}

func lowStockResponse(s *models.DataSnapshot, category, item string) string {
	if s == nil {
		return noDataResponse
	}
	if item != "" && category == "" {
		it, found := findItem(s, item)
		if !found {
			return itemNotFound(item)
		}
		if it.IsLow() {
			return fmt.Sprintf("%s is running low: %s left (reorder at %s).", it.Name, formatCount(it.CurrentStock), formatCount(it.ReorderPoint))
		}
		return fmt.Sprintf("%s is not running low: %s in stock, reorder point %s.", it.Name, formatCount(it.CurrentStock), formatCount(it.ReorderPoint))
	}
	items := s.LowStockItems
	if category != "" {
		if !knownCategory(s, category) {
			return categoryNotFound(category)
		}
		filtered := make([]models.InventoryItem, 0, len(items))
		for _, it := range items {
			if nameMatches(it.Category, category) {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	if len(items) == 0 {
		if category != "" {
			return fmt.Sprintf("No %s items are running low right now.", category)
		}
		return "Good news: no items are running low right now."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d items need restocking:", len(items))
	for _, it := range items {
		fmt.Fprintf(&b, "\n- %s: %s left (reorder at %s)", it.Name, formatCount(it.CurrentStock), formatCount(it.ReorderPoint))
	}
	return b.String()
}

func categoryResponse(s *models.DataSnapshot, category string) string {
	if s == nil {
		return noDataResponse
	}
	if category != "" {
		acc, hasAcc := findCategoryAccuracy(s, category)
		stock, hasStock := findCategoryStock(s, category)
		switch {
		case hasAcc && hasStock:
			return fmt.Sprintf("%s: %s units in stock, %s scans at %s accuracy.",
				stock.Category, formatCount(stock.Total), formatCount(acc.Scans), formatPercent(acc.Accuracy))
		case hasAcc:
			return fmt.Sprintf("%s: %s scans at %s accuracy.", acc.Category, formatCount(acc.Scans), formatPercent(acc.Accuracy))
		case hasStock:
			return fmt.Sprintf("%s: %s units in stock.", stock.Category, formatCount(stock.Total))
		}
		return categoryNotFound(category)
	}

	if len(s.CategoryStock) == 0 {
		return "I don't have a category breakdown available yet."
	}
	total := 0
	for _, c := range s.CategoryStock {
		total += c.Total
	}
	var b strings.Builder
	b.WriteString("Here's your inventory by category:")
	for _, c := range s.CategoryStock {
		share := 0.0
		if total > 0 {
			share = float64(c.Total) / float64(total) * 100
		}
		fmt.Fprintf(&b, "\n- %s: %s units (%s)", c.Category, formatCount(c.Total), formatPercent(share))
	}
	return b.String()
}

func costResponse(s *models.DataSnapshot, tf models.Timeframe) string {
	st, ok := s.Stats(tf)
	if !ok {
		if s == nil {
			return noDataResponse
		}
		return fmt.Sprintf("I don't have cost savings for %s yet.", periodLabel(tf))
	}
	currency := ""
	if s.Payments != nil {
		currency = s.Payments.Currency
	}
	return fmt.Sprintf("Automated scanning has saved you %s %s.", formatMoney(st.CostSavings, currency), periodLabel(tf))
}

func timeResponse(s *models.DataSnapshot, tf models.Timeframe) string {
	st, ok := s.Stats(tf)
	if !ok {
		if s == nil {
			return noDataResponse
		}
		return fmt.Sprintf("I don't have time savings for %s yet.", periodLabel(tf))
	}
	return fmt.Sprintf("Your team has saved %s of manual counting %s.", formatHours(st.TimeSaved), periodLabel(tf))
}

func trendsResponse(s *models.DataSnapshot, tf models.Timeframe) string {
	if s == nil {
		return noDataResponse
	}
	if s.Dashboard == nil {
		return "I don't have trend data available yet."
	}
	d := s.Dashboard
	out := fmt.Sprintf("Compared with the previous period, scans are %s, accuracy is %s, time saved is %s and cost savings are %s.",
		formatSigned(d.ScansChange), formatSigned(d.AccuracyChange), formatSigned(d.TimeChange), formatSigned(d.CostChange))
	if st, ok := s.Stats(tf); ok {
		out += fmt.Sprintf(" %s you've logged %s scans.", capitalize(periodLabel(tf)), formatCount(st.TotalScans))
	}
	return out
}

func paymentResponse(s *models.DataSnapshot) string {
	if s == nil {
		return noDataResponse
	}
	if s.Payments == nil {
		return "I don't have billing information available yet."
	}
	p := s.Payments
	var b strings.Builder
	fmt.Fprintf(&b, "Your account balance is %s with %s scans remaining", formatMoney(p.Balance, p.Currency), formatCount(p.ScansRemaining))
	if p.ScansIncluded > 0 {
		fmt.Fprintf(&b, " of %s included", formatCount(p.ScansIncluded))
	}
	b.WriteString(".")
	if p.NextBilling != "" {
		fmt.Fprintf(&b, " Next billing date: %s.", p.NextBilling)
	}
	for _, sub := range p.Subscriptions {
		fmt.Fprintf(&b, "\n- %s (%s): %s, %s", sub.Name, sub.Plan, formatMoney(sub.Amount, p.Currency), sub.Status)
	}
	return b.String()
}

func specificResponse(s *models.DataSnapshot, item, category string) string {
	if s == nil {
		return noDataResponse
	}
	switch {
	case item != "":
		it, found := findItem(s, item)
		if !found {
			return itemNotFound(item)
		}
		status := "stock is healthy"
		if it.IsLow() {
			status = "it is at or below its reorder point"
		}
		return fmt.Sprintf("%s (%s): %s units in stock, reorder point %s, last scanned %s with %s accuracy. Currently %s.",
			it.Name, it.Category, formatCount(it.CurrentStock), formatCount(it.ReorderPoint),
			it.LastScanned, formatPercent(it.Accuracy), status)
	case category != "":
		return categoryResponse(s, category)
	}
	return "Which product or category would you like details on? For example, \"Tell me about the Kindle Paperwhite\"."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
