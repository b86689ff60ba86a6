package assistant

import (
	"math/rand/v2"
	"strings"
	"sync"

	"scan-dashboard/internal/models"
)

// Parser classifies free-text queries and renders answers from a snapshot.
// It is safe for concurrent use.
type Parser struct {
	mu  sync.Mutex
	rnd *rand.Rand // nil uses the global source
}

type ParserOption func(*Parser)

// WithRandom fixes the source used to pick general responses.
func WithRandom(r *rand.Rand) ParserOption {
	return func(p *Parser) { p.rnd = r }
}

func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func containsAny(s string, patterns []string) bool {
	return firstMatch(s, patterns) != ""
}

// firstMatch returns the first pattern contained in s, or "".
func firstMatch(s string, patterns []string) string {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return p
		}
	}
	return ""
}

// Parse classifies query. It never fails: unmatched queries get IntentGeneral
// and empty optional fields.
func (p *Parser) Parse(query string) ParsedQuery {
	q := normalize(query)
	parsed := ParsedQuery{Intent: IntentGeneral}
	if q == "" {
		return parsed
	}

	for _, ip := range intentPatterns {
		if containsAny(q, ip.patterns) {
			parsed.Intent = ip.intent
			break
		}
	}
	for _, tp := range timeframePatterns {
		if containsAny(q, tp.patterns) {
			parsed.Timeframe = tp.timeframe
			break
		}
	}
	for _, mp := range metricPatterns {
		if containsAny(q, mp.patterns) {
			parsed.Metric = mp.metric
			break
		}
	}

	rest := q
	for _, pp := range productPatterns {
		if m := firstMatch(q, pp.patterns); m != "" {
			parsed.SpecificItem = pp.name
			rest = strings.Replace(q, m, " ", 1)
			break
		}
	}
	for _, cp := range categoryPatterns {
		if containsAny(rest, cp.patterns) {
			parsed.Category = cp.name
			break
		}
	}
	return parsed
}

func (p *Parser) pick(n int) int {
	if p.rnd == nil {
		return rand.IntN(n)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.IntN(n)
}

// GenerateResponse renders an answer for parsed from snapshot. It always
// returns a non-empty string; absent data and unknown items or categories
// produce explanatory sentences. snapshot is never modified.
func (p *Parser) GenerateResponse(parsed ParsedQuery, snapshot *models.DataSnapshot) string {
	tf := parsed.Timeframe
	if tf == "" {
		tf = models.TimeframeToday
	}

	var out string
	switch parsed.Intent {
	case IntentTotalScans:
		out = totalScansResponse(snapshot, tf, parsed.Category)
	case IntentAccuracy:
		out = accuracyResponse(snapshot, tf, parsed.Category, parsed.SpecificItem)
	case IntentInventory:
		out = inventoryResponse(snapshot, parsed.Category, parsed.SpecificItem)
	case IntentLowStock:
		out = lowStockResponse(snapshot, parsed.Category, parsed.SpecificItem)
	case IntentCategory:
		out = categoryResponse(snapshot, parsed.Category)
	case IntentCost:
		out = costResponse(snapshot, tf)
	case IntentTime:
		out = timeResponse(snapshot, tf)
	case IntentTrends:
		out = trendsResponse(snapshot, tf)
	case IntentPayment:
		out = paymentResponse(snapshot)
	case IntentSpecific:
		out = specificResponse(snapshot, parsed.SpecificItem, parsed.Category)
	}
	if out == "" {
		out = generalResponses[p.pick(len(generalResponses))]
	}
	return out
}

// Respond parses query and renders the answer in one step.
func (p *Parser) Respond(query string, snapshot *models.DataSnapshot) (ParsedQuery, string) {
	parsed := p.Parse(query)
	return parsed, p.GenerateResponse(parsed, snapshot)
}
