package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/interfaces"
)

type warmRecorder struct {
	calls int
	err   error
}

func (w *warmRecorder) Query(ctx context.Context, q interfaces.SubstanceQuery) (*interfaces.SubstanceQueryResult, error) {
	return &interfaces.SubstanceQueryResult{}, nil
}

func (w *warmRecorder) GetByID(ctx context.Context, id string) (json.RawMessage, error) {
	return nil, interfaces.ErrSubstanceNotFound
}

func (w *warmRecorder) Warm(ctx context.Context) error {
	w.calls++
	return w.err
}

func (w *warmRecorder) Stats() interfaces.SubstanceStats {
	return interfaces.SubstanceStats{}
}

func TestStart_InvalidCronExpression(t *testing.T) {
	s := NewService(&warmRecorder{}, arbor.NewLogger())
	assert.Error(t, s.Start("not a cron expr"))
}

func TestStart_AlreadyRunning(t *testing.T) {
	s := NewService(&warmRecorder{}, arbor.NewLogger())
	require.NoError(t, s.Start("*/1 * * * *"))
	defer s.Stop()

	assert.Error(t, s.Start("*/1 * * * *"))
}

func TestStop_Idempotent(t *testing.T) {
	s := NewService(&warmRecorder{}, arbor.NewLogger())
	require.NoError(t, s.Start(""))
	s.Stop()
	s.Stop()
}

func TestWarm_RecordsOutcome(t *testing.T) {
	rec := &warmRecorder{}
	s := NewService(rec, arbor.NewLogger())

	s.warm()
	assert.Equal(t, 1, rec.calls)

	lastRun, lastErr := s.LastRun()
	require.NotNil(t, lastRun)
	assert.Empty(t, lastErr)
}

func TestWarm_RecordsError(t *testing.T) {
	rec := &warmRecorder{err: errors.New("directory gone")}
	s := NewService(rec, arbor.NewLogger())

	s.warm()

	lastRun, lastErr := s.LastRun()
	require.NotNil(t, lastRun)
	assert.Equal(t, "directory gone", lastErr)

	// A subsequent success clears the recorded error
	rec.err = nil
	s.warm()
	_, lastErr = s.LastRun()
	assert.Empty(t, lastErr)
}
