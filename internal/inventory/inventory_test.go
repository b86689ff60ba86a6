package inventory

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan-dashboard/internal/common/config"
	"scan-dashboard/internal/common/errors"
	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/models"
)

// ==========================
// Defaults
// ==========================

func TestDefaultSnapshot(t *testing.T) {
	s := DefaultSnapshot()

	for _, tf := range models.Timeframes {
		_, ok := s.Stats(tf)
		assert.True(t, ok, "missing stats for %s", tf)
	}
	require.NotEmpty(t, s.LowStockItems)
	for _, it := range s.LowStockItems {
		assert.True(t, it.IsLow(), it.Name)
	}
	require.NotNil(t, s.Payments)
	require.NotNil(t, s.Dashboard)

	s.InventoryItems[0].Name = "changed"
	assert.Equal(t, "iPhone 15 Pro", DefaultSnapshot().InventoryItems[0].Name)
}

// ==========================
// File loading
// ==========================

const snapshotYAML = `
scan_stats:
  today: {total_scans: 12, accuracy: 99.1, time_saved: 1.5, cost_savings: 40}
category_accuracy:
  - {category: Books, accuracy: 99.5, scans: 10}
inventory_items:
  - {name: Atlas, category: Books, current_stock: 2, reorder_point: 5, last_scanned: today, accuracy: 99}
  - {name: Novel, category: Books, current_stock: 9, reorder_point: 5, last_scanned: today, accuracy: 98}
`

func writeSnapshot(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSnapshotFile(t *testing.T) {
	s, err := LoadSnapshotFile(writeSnapshot(t, snapshotYAML))
	require.NoError(t, err)

	stats, ok := s.Stats(models.TimeframeToday)
	require.True(t, ok)
	assert.Equal(t, 12, stats.TotalScans)

	require.Len(t, s.LowStockItems, 1)
	assert.Equal(t, "Atlas", s.LowStockItems[0].Name)
	assert.Equal(t, []models.CategoryStock{{Category: "Books", Total: 11}}, s.CategoryStock)
	assert.Nil(t, s.Payments)
}

func TestLoadSnapshotFile_ShippedExample(t *testing.T) {
	s, err := LoadSnapshotFile(filepath.Join("..", "..", "configs", "snapshot.example.yaml"))
	require.NoError(t, err)

	assert.Len(t, s.ScanStats, 4)
	require.NotNil(t, s.Payments)
	assert.Equal(t, "Visa ending 4242", s.Payments.Subscriptions[0].Method)
	assert.Len(t, s.LowStockItems, 2)
}

func TestParseSnapshot_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown field", "scan_stats: {}\nwarehouse: north\n"},
		{"unknown period", "scan_stats:\n  decade: {total_scans: 1}\n"},
		{"not yaml", "scan_stats: [unterminated\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml")).Snapshot(context.Background())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSnapshotUnavailable))
}

// ==========================
// Caching
// ==========================

type countingSource struct {
	calls int
	err   error
}

func (c *countingSource) Snapshot(context.Context) (*models.DataSnapshot, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &models.DataSnapshot{}, nil
}

func TestCachedSource_TTL(t *testing.T) {
	next := &countingSource{}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCachedSource(next, time.Minute)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	first, err := c.Snapshot(ctx)
	require.NoError(t, err)
	second, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, next.calls)

	now = now.Add(time.Minute)
	_, err = c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedSource_DoesNotCacheFailures(t *testing.T) {
	next := &countingSource{err: stderrors.New("offline")}
	c := NewCachedSource(next, time.Hour)

	_, err := c.Snapshot(context.Background())
	require.Error(t, err)

	next.err = nil
	s, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.Equal(t, 2, next.calls)
}

func TestStaticSource_Nil(t *testing.T) {
	_, err := NewStaticSource(nil).Snapshot(context.Background())
	assert.True(t, stderrors.Is(err, errors.ErrSnapshotUnavailable))
}

// ==========================
// Postgres repository
// ==========================

func expectSnapshotQueries(mock sqlmock.Sqlmock, withSummary bool) {
	mock.ExpectQuery("FROM scan_stats").WillReturnRows(
		sqlmock.NewRows([]string{"period", "total_scans", "accuracy", "time_saved", "cost_savings"}).
			AddRow("today", 1247, 98.7, 12.5, 1875.0).
			AddRow("fortnight", 1, 1.0, 1.0, 1.0))
	mock.ExpectQuery("FROM category_accuracy").WillReturnRows(
		sqlmock.NewRows([]string{"category", "accuracy", "scans"}).
			AddRow("Electronics", 99.2, 3421))
	mock.ExpectQuery("FROM inventory_items").WillReturnRows(
		sqlmock.NewRows([]string{"name", "category", "current_stock", "reorder_point", "last_scanned", "accuracy"}).
			AddRow("MacBook Air M3", "Electronics", 8, 10, "2025-01-10 09:30", 99.9).
			AddRow("Kindle Paperwhite", "Electronics", 29, 12, "", 99.6))

	summary := mock.ExpectQuery("FROM account_summary")
	if !withSummary {
		summary.WillReturnRows(sqlmock.NewRows([]string{"balance"}))
		return
	}
	summary.WillReturnRows(sqlmock.NewRows([]string{
		"balance", "currency", "scans_remaining", "scans_included", "next_billing",
		"scans_change", "accuracy_change", "time_change", "cost_change", "system_status", "last_sync",
	}).AddRow(2450.75, "USD", 15420, 25000, "2025-02-15", 12.5, 0.8, 15.3, 18.7, "All systems operational", "2025-01-10 09:00"))
	mock.ExpectQuery("FROM subscriptions").WillReturnRows(
		sqlmock.NewRows([]string{"name", "plan", "amount", "status", "renews_on", "payment_method"}).
			AddRow("Professional Plan", "Monthly", 299.0, "active", "2025-02-15", "Visa ending 4242"))
}

func TestRepository_Snapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectSnapshotQueries(mock, true)

	s, err := NewRepository(db, logger.NewTestLogger(t)).Snapshot(context.Background())
	require.NoError(t, err)

	assert.Len(t, s.ScanStats, 1, "unknown periods are skipped")
	assert.Equal(t, 1247, s.ScanStats[models.TimeframeToday].TotalScans)
	require.Len(t, s.InventoryItems, 2)
	require.Len(t, s.LowStockItems, 1)
	assert.Equal(t, "MacBook Air M3", s.LowStockItems[0].Name)
	assert.Equal(t, []models.CategoryStock{{Category: "Electronics", Total: 37}}, s.CategoryStock)

	require.NotNil(t, s.Payments)
	assert.Equal(t, "USD", s.Payments.Currency)
	require.Len(t, s.Payments.Subscriptions, 1)
	assert.Equal(t, "Visa ending 4242", s.Payments.Subscriptions[0].Method)
	require.NotNil(t, s.Dashboard)
	assert.Equal(t, "All systems operational", s.Dashboard.SystemStatus)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Snapshot_NoAccountSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectSnapshotQueries(mock, false)

	s, err := NewRepository(db, nil).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s.Payments)
	assert.Nil(t, s.Dashboard)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Snapshot_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM scan_stats").WillReturnError(stderrors.New("relation does not exist"))

	_, err = NewRepository(db, nil).Snapshot(context.Background())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSnapshotUnavailable))
	assert.Contains(t, err.Error(), "scan_stats")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Open
// ==========================

func TestOpen(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	t.Run("static", func(t *testing.T) {
		cfg := &config.Config{Snapshot: config.SnapshotConfig{Source: config.SnapshotStatic}}
		src, closeFn, err := Open(ctx, cfg, log)
		require.NoError(t, err)
		defer closeFn()

		s, err := src.Snapshot(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, s.InventoryItems)
	})

	t.Run("file", func(t *testing.T) {
		cfg := &config.Config{Snapshot: config.SnapshotConfig{
			Source:   config.SnapshotFile,
			Path:     writeSnapshot(t, snapshotYAML),
			CacheTTL: 1000,
		}}
		src, closeFn, err := Open(ctx, cfg, log)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &CachedSource{}, src)
	})

	t.Run("broken file fails at startup", func(t *testing.T) {
		cfg := &config.Config{Snapshot: config.SnapshotConfig{
			Source: config.SnapshotFile,
			Path:   writeSnapshot(t, "bogus: true\n"),
		}}
		_, _, err := Open(ctx, cfg, log)
		assert.True(t, stderrors.Is(err, errors.ErrSnapshotUnavailable))
	})

	t.Run("unknown source", func(t *testing.T) {
		cfg := &config.Config{Snapshot: config.SnapshotConfig{Source: "mongo"}}
		_, _, err := Open(ctx, cfg, log)
		assert.Error(t, err)
	})
}
