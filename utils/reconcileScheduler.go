package utils

import (
	"errors"
	"log"
	"strconv"
	"time"

	"prepo/config"
	"prepo/database"
	"prepo/models"

	"github.com/robfig/cron/v3"
)

// logSweep logs reconciliation sweep events with timestamp
func logSweep(message string) {
	log.Printf("[RECONCILE-SWEEP %s] %s", time.Now().Format(time.RFC3339), message)
}

// sweepStalePendingRegistrations re-checks old pending registrations whose
// payment transaction may have landed on-chain after the original confirm
// attempt failed. Hits are logged for the owner to act on; the sweep never
// confirms anything itself.
func sweepStalePendingRegistrations(chain *ChainClient) {
	db := database.Database.Db
	cutoff := time.Now().Add(-time.Duration(config.AppConfig.PendingSweepAfterHours) * time.Hour)

	var stale []models.CourseRegistration
	if err := db.Where("status = ? AND created_at < ? AND tx_hash <> ''",
		models.RegistrationStatusPending, cutoff).
		Order("created_at asc").
		Limit(100).
		Find(&stale).Error; err != nil {
		logSweep("Error fetching stale pending registrations: " + err.Error())
		return
	}

	if len(stale) == 0 {
		return
	}
	logSweep("Checking " + strconv.Itoa(len(stale)) + " stale pending registrations")

	landed := 0
	for _, reg := range stale {
		info, err := chain.VerifyPayment(reg.TxHash)
		if err != nil {
			if errors.Is(err, ErrTxNotFound) || errors.Is(err, ErrTxPending) || errors.Is(err, ErrWrongRecipient) {
				continue
			}
			logSweep("RPC error while checking " + reg.TxHash + ": " + err.Error())
			continue
		}

		landed++
		logSweep("Registration pending but payment landed on-chain: course=" + reg.CourseCode +
			" user=" + reg.UserAddress + " tx=" + reg.TxHash +
			" amount=" + strconv.FormatFloat(info.Amount, 'f', 6, 64))
	}

	if landed > 0 {
		logSweep(strconv.Itoa(landed) + " pending registrations have landed payments awaiting owner approval")
	}
}

// StartReconcileScheduler runs the stale-pending sweep every hour
func StartReconcileScheduler(chain *ChainClient) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", func() {
		sweepStalePendingRegistrations(chain)
	}); err != nil {
		log.Fatalf("Failed to schedule reconciliation sweep: %v", err)
	}

	c.Start()
	logSweep("Reconciliation sweep scheduled hourly")
	return c
}
