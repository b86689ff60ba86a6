package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/models"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Snapshot(ctx context.Context) (*models.DataSnapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*models.DataSnapshot)
	return snap, args.Error(1)
}

func TestAssistant_Ask(t *testing.T) {
	source := new(MockSource)
	source.On("Snapshot", mock.Anything).Return(testSnapshot(), nil).Once()

	a := New(source, logger.NewTestLogger(t))
	answer := a.Ask(context.Background(), "How many scans this week?")

	assert.Equal(t, IntentTotalScans, answer.Parsed.Intent)
	assert.Equal(t, models.TimeframeWeek, answer.Parsed.Timeframe)
	assert.Contains(t, answer.Response, "8,934")
	assert.False(t, answer.Degraded)
	source.AssertExpectations(t)
}

func TestAssistant_Ask_DegradesWhenSnapshotFails(t *testing.T) {
	source := new(MockSource)
	source.On("Snapshot", mock.Anything).Return(nil, errors.New("database offline")).Once()

	a := New(source, logger.NewTestLogger(t))
	answer := a.Ask(context.Background(), "which items are running low?")

	assert.Equal(t, IntentLowStock, answer.Parsed.Intent)
	assert.True(t, answer.Degraded)
	assert.Equal(t, noDataResponse, answer.Response)
	source.AssertExpectations(t)
}

func TestAssistant_Ask_WithoutSource(t *testing.T) {
	a := New(nil, nil)
	answer := a.Ask(context.Background(), "hello there")

	assert.Equal(t, IntentGeneral, answer.Parsed.Intent)
	assert.True(t, answer.Degraded)
	assert.Contains(t, generalResponses, answer.Response)
}
