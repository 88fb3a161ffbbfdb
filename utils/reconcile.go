package utils

import (
	"errors"
	"time"

	"prepo/models"

	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrInvalidAmount        = errors.New("invalid paid amount on registration")
	ErrDuplicatePending     = errors.New("pending registration already exists")
	ErrPaymentAlreadyUsed   = errors.New("payment transaction already used")
)

// ConfirmResult carries the outcome of a confirm attempt
type ConfirmResult struct {
	Registration     models.CourseRegistration
	Payout           *models.Payout
	AlreadyConfirmed bool
}

// RecordPendingRegistration inserts a pending registration for a course
// payment. The client-declared amount is stored as advisory; the verify
// path later overwrites AmountPaid with the chain-derived value. A second
// pending record for the same (courseCode, userAddress) pair is rejected:
// the pre-check gives a clean error on the common path and the partial
// unique index on the pair catches concurrent inserts the check misses.
func RecordPendingRegistration(db *gorm.DB, courseCode, userAddress string, amountDeclared float64, txHash string) (*models.CourseRegistration, error) {
	userAddress = NormalizeAddress(userAddress)

	var course models.Course
	if err := db.Where("code = ? AND is_deleted = false", courseCode).First(&course).Error; err != nil {
		return nil, ErrCourseNotFound
	}

	reg := models.CourseRegistration{
		CourseCode:     courseCode,
		UserAddress:    userAddress,
		AmountDeclared: amountDeclared,
		AmountPaid:     amountDeclared,
		TxHash:         txHash,
		Status:         models.RegistrationStatusPending,
	}

	var existing models.CourseRegistration
	if err := db.Where("course_code = ? AND user_address = ? AND status = ?",
		courseCode, userAddress, models.RegistrationStatusPending).First(&existing).Error; err == nil {
		return nil, ErrDuplicatePending
	}

	if err := db.Create(&reg).Error; err != nil {
		if !IsUniqueViolation(err) {
			return nil, err
		}
		// Raced a concurrent insert; the index says which invariant tripped
		if pairErr := db.Where("course_code = ? AND user_address = ? AND status = ?",
			courseCode, userAddress, models.RegistrationStatusPending).First(&existing).Error; pairErr == nil {
			return nil, ErrDuplicatePending
		}
		return nil, ErrPaymentAlreadyUsed
	}

	return &reg, nil
}

// ConfirmRegistration moves one registration from pending to confirmed and
// records the mentor payout obligation. The transition is a conditional
// update guarded by the expected prior state, so of two concurrent calls
// exactly one wins; the loser observes the confirmed record and returns it
// untouched. Confirming an already-confirmed registration is a no-op.
func ConfirmRegistration(db *gorm.DB, registrationID uint, payoutTxHash string) (*ConfirmResult, error) {
	var reg models.CourseRegistration
	if err := db.First(&reg, registrationID).Error; err != nil {
		return nil, ErrRegistrationNotFound
	}

	if reg.Status == models.RegistrationStatusConfirmed {
		return &ConfirmResult{Registration: reg, AlreadyConfirmed: true}, nil
	}

	var course models.Course
	if err := db.Where("code = ? AND is_deleted = false", reg.CourseCode).First(&course).Error; err != nil {
		return nil, ErrCourseNotFound
	}

	if reg.AmountPaid <= 0 {
		return nil, ErrInvalidAmount
	}

	mentorShare := MentorShare(reg.AmountPaid)
	now := time.Now()

	payoutStatus := models.PayoutStatusPendingManual
	if payoutTxHash != "" {
		payoutStatus = models.PayoutStatusCompleted
	}
	payout := models.Payout{
		RegistrationID: reg.ID,
		MentorAddress:  NormalizeAddress(course.MentorAddress),
		Amount:         mentorShare,
		TxHash:         payoutTxHash,
		Status:         payoutStatus,
		Note:           "Paid via owner wallet",
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	res := tx.Model(&models.CourseRegistration{}).
		Where("id = ? AND status = ?", reg.ID, models.RegistrationStatusPending).
		Updates(map[string]interface{}{
			"status":          models.RegistrationStatusConfirmed,
			"confirmed_at":    now,
			"mentor_share":    mentorShare,
			"confirm_tx_hash": payoutTxHash,
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race to a concurrent confirm
		tx.Rollback()
		if err := db.First(&reg, registrationID).Error; err != nil {
			return nil, ErrRegistrationNotFound
		}
		return &ConfirmResult{Registration: reg, AlreadyConfirmed: true}, nil
	}

	if err := tx.Create(&payout).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if err := db.First(&reg, registrationID).Error; err != nil {
		return nil, err
	}

	return &ConfirmResult{Registration: reg, Payout: &payout}, nil
}

// ApplyVerifiedPayment reconciles a chain-verified payment against the
// registration store. The chain-derived amount always wins over whatever
// the client declared. When no pending record exists for the pair, a new
// one is created from the verified payment (the mentee may have paid the
// contract directly without posting intent first). The matching record is
// then confirmed without a payout transaction; the owner releases the
// payout later from the console.
func ApplyVerifiedPayment(db *gorm.DB, courseCode string, info *PaymentInfo) (*ConfirmResult, error) {
	userAddress := NormalizeAddress(info.From)

	// A payment transaction reconciles at most one registration. A replay
	// against another course (or user) is rejected; the same pair re-playing
	// its own transaction is idempotent.
	var used models.CourseRegistration
	if err := db.Where("tx_hash = ? AND status = ?",
		info.TxHash, models.RegistrationStatusConfirmed).First(&used).Error; err == nil {
		if used.CourseCode == courseCode && used.UserAddress == userAddress {
			return &ConfirmResult{Registration: used, AlreadyConfirmed: true}, nil
		}
		return nil, ErrPaymentAlreadyUsed
	}

	var reg models.CourseRegistration
	err := db.Where("course_code = ? AND user_address = ? AND status = ?",
		courseCode, userAddress, models.RegistrationStatusPending).First(&reg).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		// Idempotency: a confirmed record for this pair means this payment
		// was already reconciled
		if err := db.Where("course_code = ? AND user_address = ? AND status = ?",
			courseCode, userAddress, models.RegistrationStatusConfirmed).First(&reg).Error; err == nil {
			return &ConfirmResult{Registration: reg, AlreadyConfirmed: true}, nil
		}

		reg = models.CourseRegistration{
			CourseCode:     courseCode,
			UserAddress:    userAddress,
			AmountDeclared: info.Amount,
			AmountPaid:     info.Amount,
			TxHash:         info.TxHash,
			Status:         models.RegistrationStatusPending,
		}
		if err := db.Create(&reg).Error; err != nil {
			if !IsUniqueViolation(err) {
				return nil, err
			}
			// Lost a race: either the pair's pending record or this
			// transaction's registration landed first. Reuse whatever won.
			if pairErr := db.Where("course_code = ? AND user_address = ? AND status = ?",
				courseCode, userAddress, models.RegistrationStatusPending).First(&reg).Error; pairErr != nil {
				if confErr := db.Where("course_code = ? AND user_address = ? AND status = ?",
					courseCode, userAddress, models.RegistrationStatusConfirmed).First(&reg).Error; confErr == nil {
					return &ConfirmResult{Registration: reg, AlreadyConfirmed: true}, nil
				}
				return nil, ErrPaymentAlreadyUsed
			}
		}
	} else {
		// Overwrite the advisory amount with the chain-derived one before
		// confirming
		if err := db.Model(&models.CourseRegistration{}).
			Where("id = ? AND status = ?", reg.ID, models.RegistrationStatusPending).
			Updates(map[string]interface{}{
				"amount_paid": info.Amount,
				"tx_hash":     info.TxHash,
			}).Error; err != nil {
			if IsUniqueViolation(err) {
				return nil, ErrPaymentAlreadyUsed
			}
			return nil, err
		}
	}

	return ConfirmRegistration(db, reg.ID, "")
}
