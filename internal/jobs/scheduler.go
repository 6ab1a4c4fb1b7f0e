// internal/jobs/scheduler.go
package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/nightpulse/backend/internal/services"
)

// Scheduler runs the recurring maintenance jobs: reconciling payment
// transactions stuck in processing and closing out past events.
type Scheduler struct {
	scheduler *gocron.Scheduler
	payments  *services.PaymentService
	events    *services.EventService
}

func NewScheduler(payments *services.PaymentService, events *services.EventService) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		payments:  payments,
		events:    events,
	}
}

func (s *Scheduler) Start() {
	s.scheduler.Every(5).Minutes().Do(s.reconcileStalePayments)
	s.scheduler.Every(1).Day().At("04:00").Do(s.completePastEvents)
	s.scheduler.StartAsync()
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) reconcileStalePayments() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Transactions younger than 15 minutes may still be confirmed by the
	// client; leave those alone.
	settled, err := s.payments.ReconcileStale(ctx, 15*time.Minute)
	if err != nil {
		logrus.WithError(err).Error("Payment reconciliation failed")
		return
	}
	if settled > 0 {
		logrus.WithField("settled", settled).Info("Reconciled stale payment transactions")
	}
}

func (s *Scheduler) completePastEvents() {
	completed, err := s.events.CompletePastEvents()
	if err != nil {
		logrus.WithError(err).Error("Completing past events failed")
		return
	}
	if completed > 0 {
		logrus.WithField("completed", completed).Info("Marked past events completed")
	}
}
