package jobs

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/bookingbot/backend/internal/models"
	"github.com/bookingbot/backend/internal/services"
	"github.com/bookingbot/backend/internal/storage"
)

// CleanupJob handles scheduled housekeeping: expiring idle sessions and
// reconciling bookings whose payment was never completed.
type CleanupJob struct {
	store     storage.Store
	sessions  *services.SessionManager
	payments  services.PaymentProvider
	isRunning atomic.Bool

	// PendingTimeout is how long a pending booking may wait for payment
	// approval before it is reconciled against the provider.
	PendingTimeout time.Duration
}

// NewCleanupJob creates a new cleanup job scheduler
func NewCleanupJob(store storage.Store, sessions *services.SessionManager, payments services.PaymentProvider) *CleanupJob {
	return &CleanupJob{
		store:          store,
		sessions:       sessions,
		payments:       payments,
		PendingTimeout: time.Hour,
	}
}

// Start begins all scheduled cleanup jobs
func (j *CleanupJob) Start() {
	if !j.isRunning.CompareAndSwap(false, true) {
		log.Println("Cleanup jobs already running")
		return
	}

	log.Println("Starting scheduled cleanup jobs...")

	go j.scheduleSessionCleanup()
	go j.schedulePendingBookingSweep()

	log.Println("All cleanup jobs started successfully")
}

// Stop halts all scheduled jobs
func (j *CleanupJob) Stop() {
	j.isRunning.Store(false)
	log.Println("Stopping scheduled cleanup jobs...")
}

// scheduleSessionCleanup drops idle sessions every 10 minutes.
func (j *CleanupJob) scheduleSessionCleanup() {
	for j.isRunning.Load() {
		time.Sleep(10 * time.Minute)
		if !j.isRunning.Load() {
			break
		}

		if n := j.sessions.ExpireIdle(); n > 0 {
			log.Printf("Session cleanup: removed %d idle sessions", n)
		}
	}
}

// schedulePendingBookingSweep reconciles stale pending bookings hourly. A
// pending booking whose payment order was never approved is marked cancelled;
// one whose order completed without our capture callback is left alone for
// manual review.
func (j *CleanupJob) schedulePendingBookingSweep() {
	for j.isRunning.Load() {
		time.Sleep(time.Hour)
		if !j.isRunning.Load() {
			break
		}

		j.sweepPendingBookings()
	}
}

func (j *CleanupJob) sweepPendingBookings() {
	pending, err := j.store.GetBookingsByPaymentStatus(models.PaymentStatusPending)
	if err != nil {
		log.Printf("❌ Pending booking sweep failed: %v", err)
		return
	}

	cutoff := time.Now().Add(-j.PendingTimeout)
	cancelled := 0
	for _, booking := range pending {
		if booking.CreatedAt.After(cutoff) || booking.PaymentOrderID == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		status, err := j.payments.GetOrder(ctx, booking.PaymentOrderID)
		cancel()
		if err != nil {
			log.Printf("❌ Failed to check order %s for booking %s: %v",
				booking.PaymentOrderID, booking.BookingReference, err)
			continue
		}
		if status == "COMPLETED" || status == "APPROVED" {
			log.Printf("⚠️  Booking %s has order status %s but was never captured, leaving for review",
				booking.BookingReference, status)
			continue
		}

		booking.PaymentStatus = models.PaymentStatusCancelled
		if err := j.store.UpdateBooking(booking); err != nil {
			log.Printf("❌ Failed to cancel stale booking %s: %v", booking.BookingReference, err)
			continue
		}
		cancelled++
	}

	if cancelled > 0 {
		log.Printf("Pending booking sweep: cancelled %d stale bookings", cancelled)
	}
}
