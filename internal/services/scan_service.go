// internal/services/scan_service.go
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ScanState is the scanner session state machine:
// idle -> scanning -> (success | failure) -> idle.
type ScanState string

const (
	ScanStateIdle     ScanState = "idle"
	ScanStateScanning ScanState = "scanning"
	ScanStateSuccess  ScanState = "success"
	ScanStateFailure  ScanState = "failure"
)

var (
	ErrSessionNotFound    = errors.New("scanner session not found")
	ErrInvalidTransition  = errors.New("invalid scanner state transition")
	ErrSessionWrongDevice = errors.New("scanner session belongs to another device")
)

// TicketChecker is the piece of the ticket service the scanner needs.
type TicketChecker interface {
	ScanTicket(ctx context.Context, eventID uuid.UUID, code string) (*ScanOutcome, error)
}

// ScanSession tracks one physical scanner at one event door.
type ScanSession struct {
	ID         uuid.UUID    `json:"id"`
	EventID    uuid.UUID    `json:"event_id"`
	OperatorID uuid.UUID    `json:"operator_id"`
	DeviceName string       `json:"device_name"`
	State      ScanState    `json:"state"`
	LastResult *ScanOutcome `json:"last_result,omitempty"`
	Scanned    int          `json:"scanned"`
	Accepted   int          `json:"accepted"`
	StartedAt  time.Time    `json:"started_at"`
	LastSeenAt time.Time    `json:"last_seen_at"`
}

// ScanService keeps scanner sessions in process memory, same shape as the
// per-IP rate limiter registry. Sessions idle for an hour are dropped.
type ScanService struct {
	mtx      sync.Mutex
	sessions map[uuid.UUID]*ScanSession
	tickets  TicketChecker
}

func NewScanService(tickets TicketChecker) *ScanService {
	s := &ScanService{
		sessions: make(map[uuid.UUID]*ScanSession),
		tickets:  tickets,
	}
	go s.cleanupSessions()
	return s
}

func (s *ScanService) cleanupSessions() {
	for {
		time.Sleep(time.Minute)
		s.mtx.Lock()
		for id, sess := range s.sessions {
			if time.Since(sess.LastSeenAt) > time.Hour {
				delete(s.sessions, id)
			}
		}
		s.mtx.Unlock()
	}
}

// OpenSession registers a scanner device for an event door.
func (s *ScanService) OpenSession(eventID, operatorID uuid.UUID, deviceName string) *ScanSession {
	sess := &ScanSession{
		ID:         uuid.New(),
		EventID:    eventID,
		OperatorID: operatorID,
		DeviceName: deviceName,
		State:      ScanStateIdle,
		StartedAt:  time.Now(),
		LastSeenAt: time.Now(),
	}

	s.mtx.Lock()
	s.sessions[sess.ID] = sess
	s.mtx.Unlock()

	return sess
}

func (s *ScanService) GetSession(sessionID, operatorID uuid.UUID) (*ScanSession, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.locked(sessionID, operatorID)
}

func (s *ScanService) locked(sessionID, operatorID uuid.UUID) (*ScanSession, error) {
	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if sess.OperatorID != operatorID {
		return nil, ErrSessionWrongDevice
	}
	return sess, nil
}

// Scan runs one full idle -> scanning -> outcome -> idle cycle. A session
// already mid-scan rejects the second submission instead of double-checking
// the same code.
func (s *ScanService) Scan(ctx context.Context, sessionID, operatorID uuid.UUID, code string) (*ScanOutcome, error) {
	s.mtx.Lock()
	sess, err := s.locked(sessionID, operatorID)
	if err != nil {
		s.mtx.Unlock()
		return nil, err
	}
	if sess.State != ScanStateIdle {
		s.mtx.Unlock()
		return nil, ErrInvalidTransition
	}
	sess.State = ScanStateScanning
	sess.LastSeenAt = time.Now()
	eventID := sess.EventID
	s.mtx.Unlock()

	outcome, err := s.tickets.ScanTicket(ctx, eventID, code)

	s.mtx.Lock()
	defer s.mtx.Unlock()
	if err != nil {
		sess.State = ScanStateIdle
		return nil, err
	}

	sess.Scanned++
	if outcome.Accepted {
		sess.State = ScanStateSuccess
		sess.Accepted++
	} else {
		sess.State = ScanStateFailure
	}
	sess.LastResult = outcome

	// The terminal state is observable through LastResult; the session is
	// immediately ready for the next code.
	sess.State = ScanStateIdle

	return outcome, nil
}

// CloseSession drops a session when the door closes.
func (s *ScanService) CloseSession(sessionID, operatorID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, err := s.locked(sessionID, operatorID); err != nil {
		return err
	}
	delete(s.sessions, sessionID)
	return nil
}
