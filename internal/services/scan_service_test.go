// internal/services/scan_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightpulse/backend/internal/models"
)

// fakeChecker accepts each code exactly once, like the conditional check-in
// UPDATE does.
type fakeChecker struct {
	used map[string]bool
}

func newFakeChecker() *fakeChecker {
	return &fakeChecker{used: make(map[string]bool)}
}

func (f *fakeChecker) ScanTicket(ctx context.Context, eventID uuid.UUID, code string) (*ScanOutcome, error) {
	if code == "" {
		return &ScanOutcome{Accepted: false, Reason: ScanReasonNotFound}, nil
	}
	if f.used[code] {
		return &ScanOutcome{Accepted: false, Reason: ScanReasonAlreadyUsed}, nil
	}
	f.used[code] = true
	return &ScanOutcome{Accepted: true, Ticket: &models.Ticket{Code: code}}, nil
}

func TestScanSessionLifecycle(t *testing.T) {
	svc := NewScanService(newFakeChecker())
	operatorID := uuid.New()
	eventID := uuid.New()

	session := svc.OpenSession(eventID, operatorID, "door-1")
	assert.Equal(t, ScanStateIdle, session.State)
	assert.Equal(t, eventID, session.EventID)

	got, err := svc.GetSession(session.ID, operatorID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	require.NoError(t, svc.CloseSession(session.ID, operatorID))

	_, err = svc.GetSession(session.ID, operatorID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestScanAcceptsActiveTicketOnce(t *testing.T) {
	svc := NewScanService(newFakeChecker())
	operatorID := uuid.New()
	session := svc.OpenSession(uuid.New(), operatorID, "door-1")

	outcome, err := svc.Scan(context.Background(), session.ID, operatorID, "np_abc123")
	require.NoError(t, err)
	assert.True(t, outcome.Accepted)

	// Second scan of the same code must fail, never succeed twice.
	outcome, err = svc.Scan(context.Background(), session.ID, operatorID, "np_abc123")
	require.NoError(t, err)
	assert.False(t, outcome.Accepted)
	assert.Equal(t, ScanReasonAlreadyUsed, outcome.Reason)

	got, err := svc.GetSession(session.ID, operatorID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Scanned)
	assert.Equal(t, 1, got.Accepted)
	assert.Equal(t, ScanStateIdle, got.State)
}

func TestScanUnknownCodeFails(t *testing.T) {
	svc := NewScanService(newFakeChecker())
	operatorID := uuid.New()
	session := svc.OpenSession(uuid.New(), operatorID, "door-1")

	outcome, err := svc.Scan(context.Background(), session.ID, operatorID, "")
	require.NoError(t, err)
	assert.False(t, outcome.Accepted)
	assert.Equal(t, ScanReasonNotFound, outcome.Reason)
}

func TestScanRejectsForeignSession(t *testing.T) {
	svc := NewScanService(newFakeChecker())
	owner := uuid.New()
	session := svc.OpenSession(uuid.New(), owner, "door-1")

	_, err := svc.Scan(context.Background(), session.ID, uuid.New(), "np_abc")
	assert.ErrorIs(t, err, ErrSessionWrongDevice)

	err = svc.CloseSession(session.ID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionWrongDevice)
}

func TestScanUnknownSession(t *testing.T) {
	svc := NewScanService(newFakeChecker())

	_, err := svc.Scan(context.Background(), uuid.New(), uuid.New(), "np_abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
