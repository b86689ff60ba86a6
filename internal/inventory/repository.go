package inventory

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"scan-dashboard/internal/common/errors"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/models"
)

const (
	queryScanStats = `SELECT period, total_scans, accuracy, time_saved, cost_savings
		FROM scan_stats`

	queryCategoryAccuracy = `SELECT category, accuracy, scans
		FROM category_accuracy ORDER BY scans DESC`

	queryInventoryItems = `SELECT name, category, current_stock, reorder_point,
		COALESCE(to_char(last_scanned, 'YYYY-MM-DD HH24:MI'), ''), accuracy
		FROM inventory_items ORDER BY name`

	querySubscriptions = `SELECT name, plan, amount, status,
		COALESCE(to_char(renews_on, 'YYYY-MM-DD'), ''), COALESCE(payment_method, '')
		FROM subscriptions ORDER BY name`

	queryAccountSummary = `SELECT balance, currency, scans_remaining, scans_included,
		COALESCE(to_char(next_billing, 'YYYY-MM-DD'), ''),
		scans_change, accuracy_change, time_change, cost_change,
		system_status, COALESCE(to_char(last_sync, 'YYYY-MM-DD HH24:MI'), '')
		FROM account_summary LIMIT 1`
)

// Repository builds snapshots from the reporting tables in PostgreSQL.
// Low-stock items and category totals are derived from inventory_items.
type Repository struct {
	db  *sql.DB
	log logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Repository{db: db, log: log.WithFields(map[string]interface{}{"source": "postgres"})}
}

func (r *Repository) Snapshot(ctx context.Context) (*models.DataSnapshot, error) {
	s := &models.DataSnapshot{}

	steps := []struct {
		name string
		load func(context.Context, *models.DataSnapshot) error
	}{
		{"scan_stats", r.loadScanStats},
		{"category_accuracy", r.loadCategoryAccuracy},
		{"inventory_items", r.loadInventoryItems},
		{"account_summary", r.loadAccountSummary},
		{"subscriptions", r.loadSubscriptions},
	}
	for _, step := range steps {
		if err := step.load(ctx, s); err != nil {
			return nil, errors.NewSnapshotUnavailableError("postgres", fmt.Errorf("%s: %w", step.name, err))
		}
	}

	s.DeriveLowStock()
	return s, nil
}

func (r *Repository) loadScanStats(ctx context.Context, s *models.DataSnapshot) error {
	rows, err := r.db.QueryContext(ctx, queryScanStats)
	if err != nil {
		return err
	}
	defer rows.Close()

	s.ScanStats = make(map[models.Timeframe]models.PeriodStats)
	for rows.Next() {
		var period string
		var st models.PeriodStats
		if err := rows.Scan(&period, &st.TotalScans, &st.Accuracy, &st.TimeSaved, &st.CostSavings); err != nil {
			return err
		}
		tf := models.Timeframe(period)
		if !knownTimeframe(tf) {
			r.log.Warn("Skipping unknown scan_stats period", map[string]interface{}{"period": period})
			continue
		}
		s.ScanStats[tf] = st
	}
	return rows.Err()
}

func (r *Repository) loadCategoryAccuracy(ctx context.Context, s *models.DataSnapshot) error {
	rows, err := r.db.QueryContext(ctx, queryCategoryAccuracy)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.CategoryAccuracy
		if err := rows.Scan(&c.Category, &c.Accuracy, &c.Scans); err != nil {
			return err
		}
		s.CategoryAccuracy = append(s.CategoryAccuracy, c)
	}
	return rows.Err()
}

func (r *Repository) loadInventoryItems(ctx context.Context, s *models.DataSnapshot) error {
	rows, err := r.db.QueryContext(ctx, queryInventoryItems)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it models.InventoryItem
		if err := rows.Scan(&it.Name, &it.Category, &it.CurrentStock, &it.ReorderPoint, &it.LastScanned, &it.Accuracy); err != nil {
			return err
		}
		s.InventoryItems = append(s.InventoryItems, it)
	}
	return rows.Err()
}

// loadAccountSummary leaves Payments and Dashboard nil when the table is empty.
func (r *Repository) loadAccountSummary(ctx context.Context, s *models.DataSnapshot) error {
	var p models.PaymentSummary
	var d models.DashboardSummary
	err := r.db.QueryRowContext(ctx, queryAccountSummary).Scan(
		&p.Balance, &p.Currency, &p.ScansRemaining, &p.ScansIncluded, &p.NextBilling,
		&d.ScansChange, &d.AccuracyChange, &d.TimeChange, &d.CostChange,
		&d.SystemStatus, &d.LastSync,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	s.Payments = &p
	s.Dashboard = &d
	return nil
}

func (r *Repository) loadSubscriptions(ctx context.Context, s *models.DataSnapshot) error {
	if s.Payments == nil {
		return nil
	}
	rows, err := r.db.QueryContext(ctx, querySubscriptions)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.Name, &sub.Plan, &sub.Amount, &sub.Status, &sub.Renews, &sub.Method); err != nil {
			return err
		}
		s.Payments.Subscriptions = append(s.Payments.Subscriptions, sub)
	}
	return rows.Err()
}
