package utils

import (
	"path/filepath"
	"sync"
	"testing"

	"prepo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Bounty{},
		&models.CourseRegistration{},
		&models.BountyRegistration{},
		&models.Payout{},
		&models.Prize{},
		&models.Earning{},
	))

	return db
}

func seedCourse(t *testing.T, db *gorm.DB, code, mentor string) models.Course {
	t.Helper()
	course := models.Course{Code: code, Title: "Test Course", Fee: 10, MentorAddress: mentor}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func seedPending(t *testing.T, db *gorm.DB, code, address string, amount float64) models.CourseRegistration {
	t.Helper()
	reg := models.CourseRegistration{
		CourseCode:     code,
		UserAddress:    address,
		AmountDeclared: amount,
		AmountPaid:     amount,
		TxHash:         "0xpay",
		Status:         models.RegistrationStatusPending,
	}
	require.NoError(t, db.Create(&reg).Error)
	return reg
}

func TestConfirmRegistration(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")
	reg := seedPending(t, db, "C1", "0xaaa", 10)

	result, err := ConfirmRegistration(db, reg.ID, "0xTX1")
	require.NoError(t, err)
	require.False(t, result.AlreadyConfirmed)

	confirmed := result.Registration
	assert.Equal(t, models.RegistrationStatusConfirmed, confirmed.Status)
	assert.Equal(t, 8.0, confirmed.MentorShare)
	assert.Equal(t, "0xTX1", confirmed.ConfirmTxHash)
	require.NotNil(t, confirmed.ConfirmedAt)

	require.NotNil(t, result.Payout)
	assert.Equal(t, "0xmentor", result.Payout.MentorAddress)
	assert.Equal(t, 8.0, result.Payout.Amount)
	assert.Equal(t, models.PayoutStatusCompleted, result.Payout.Status)
}

func TestConfirmRegistrationWithoutPayoutTx(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")
	reg := seedPending(t, db, "C1", "0xaaa", 5)

	result, err := ConfirmRegistration(db, reg.ID, "")
	require.NoError(t, err)
	require.NotNil(t, result.Payout)
	assert.Equal(t, models.PayoutStatusPendingManual, result.Payout.Status)
	assert.Equal(t, 4.0, result.Payout.Amount)
}

func TestConfirmRegistrationIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")
	reg := seedPending(t, db, "C1", "0xaaa", 10)

	first, err := ConfirmRegistration(db, reg.ID, "0xTX1")
	require.NoError(t, err)
	require.False(t, first.AlreadyConfirmed)

	// A second confirm with a different payout hash must not mutate
	// anything
	second, err := ConfirmRegistration(db, reg.ID, "0xTX2")
	require.NoError(t, err)
	assert.True(t, second.AlreadyConfirmed)
	assert.Equal(t, "0xTX1", second.Registration.ConfirmTxHash)
	assert.Equal(t, 8.0, second.Registration.MentorShare)

	var payouts int64
	db.Model(&models.Payout{}).Where("registration_id = ?", reg.ID).Count(&payouts)
	assert.Equal(t, int64(1), payouts)
}

func TestConfirmRegistrationInvalidAmount(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")
	reg := seedPending(t, db, "C1", "0xaaa", 0)

	_, err := ConfirmRegistration(db, reg.ID, "0xTX1")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// The registration must remain pending
	var after models.CourseRegistration
	require.NoError(t, db.First(&after, reg.ID).Error)
	assert.Equal(t, models.RegistrationStatusPending, after.Status)
	assert.Zero(t, after.MentorShare)
}

func TestConfirmRegistrationNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := ConfirmRegistration(db, 9999, "0xTX1")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestConfirmRegistrationCourseMissing(t *testing.T) {
	db := setupTestDB(t)
	reg := seedPending(t, db, "NOPE", "0xaaa", 10)

	_, err := ConfirmRegistration(db, reg.ID, "0xTX1")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestConfirmRegistrationConcurrent(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")
	reg := seedPending(t, db, "C1", "0xaaa", 10)

	hashes := []string{"0xTX1", "0xTX2"}
	results := make([]*ConfirmResult, len(hashes))
	errs := make([]error, len(hashes))

	var wg sync.WaitGroup
	for i := range hashes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = ConfirmRegistration(db, reg.ID, hashes[i])
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := range hashes {
		require.NoError(t, errs[i])
		if !results[i].AlreadyConfirmed {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent confirm must win")

	var payouts int64
	db.Model(&models.Payout{}).Where("registration_id = ?", reg.ID).Count(&payouts)
	assert.Equal(t, int64(1), payouts)

	var final models.CourseRegistration
	require.NoError(t, db.First(&final, reg.ID).Error)
	assert.Equal(t, models.RegistrationStatusConfirmed, final.Status)
	assert.Equal(t, 8.0, final.MentorShare)
	assert.Contains(t, hashes, final.ConfirmTxHash)
}

func TestRecordPendingRegistration(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")

	reg, err := RecordPendingRegistration(db, "C1", "0xAAA", 10, "0xpay")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusPending, reg.Status)
	assert.Equal(t, "0xaaa", reg.UserAddress, "address must be stored lowercase")
	assert.Equal(t, 10.0, reg.AmountPaid)
}

func TestRecordPendingRegistrationDuplicate(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")

	_, err := RecordPendingRegistration(db, "C1", "0xaaa", 10, "0xpay")
	require.NoError(t, err)

	// Same pair, regardless of address casing
	_, err = RecordPendingRegistration(db, "C1", "0xAAA", 10, "0xpay2")
	assert.ErrorIs(t, err, ErrDuplicatePending)
}

func TestPendingPairUniqueIndex(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")
	seedPending(t, db, "C1", "0xaaa", 10)

	// A direct insert bypassing the application check must still be
	// rejected by the partial unique index on the pair
	err := db.Create(&models.CourseRegistration{
		CourseCode:  "C1",
		UserAddress: "0xaaa",
		AmountPaid:  10,
		TxHash:      "0xother",
		Status:      models.RegistrationStatusPending,
	}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestCourseCodeCollisionIsUniqueViolation(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")

	// Create handlers regenerate the code and retry on this error
	err := db.Create(&models.Course{Code: "C1", Title: "Clone", MentorAddress: "0xmentor"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestRecordPendingRegistrationReusedTxHash(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")
	seedCourse(t, db, "C2", "0xmentor")
	seedPending(t, db, "C1", "0xaaa", 10)

	// The payment transaction is already attached to another pair
	_, err := RecordPendingRegistration(db, "C2", "0xbbb", 10, "0xpay")
	assert.ErrorIs(t, err, ErrPaymentAlreadyUsed)
}

func TestRecordPendingRegistrationCourseMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := RecordPendingRegistration(db, "NOPE", "0xaaa", 10, "0xpay")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestApplyVerifiedPaymentOverwritesDeclaredAmount(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")
	reg := seedPending(t, db, "C1", "0xaaa", 9.5)

	result, err := ApplyVerifiedPayment(db, "C1", &PaymentInfo{From: "0xAAA", Amount: 10, TxHash: "0xchain"})
	require.NoError(t, err)
	require.False(t, result.AlreadyConfirmed)

	assert.Equal(t, reg.ID, result.Registration.ID)
	assert.Equal(t, 10.0, result.Registration.AmountPaid, "chain-derived amount wins")
	assert.Equal(t, 8.0, result.Registration.MentorShare)
	assert.Equal(t, "0xchain", result.Registration.TxHash)
	assert.Equal(t, models.RegistrationStatusConfirmed, result.Registration.Status)
}

func TestApplyVerifiedPaymentWithoutPending(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")

	// Mentee paid the contract directly with no prior intent posted
	result, err := ApplyVerifiedPayment(db, "C1", &PaymentInfo{From: "0xbbb", Amount: 10, TxHash: "0xchain"})
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusConfirmed, result.Registration.Status)
	assert.Equal(t, 10.0, result.Registration.AmountPaid)
}

func TestApplyVerifiedPaymentReplayRejected(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")
	seedCourse(t, db, "C2", "0xmentor")

	info := &PaymentInfo{From: "0xaaa", Amount: 10, TxHash: "0xchain"}

	first, err := ApplyVerifiedPayment(db, "C1", info)
	require.NoError(t, err)
	require.Equal(t, models.RegistrationStatusConfirmed, first.Registration.Status)

	// The same payment cannot buy a second course
	_, err = ApplyVerifiedPayment(db, "C2", info)
	assert.ErrorIs(t, err, ErrPaymentAlreadyUsed)

	var confirmed int64
	db.Model(&models.CourseRegistration{}).
		Where("tx_hash = ? AND status = ?", "0xchain", models.RegistrationStatusConfirmed).
		Count(&confirmed)
	assert.Equal(t, int64(1), confirmed)
}

func TestApplyVerifiedPaymentIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedCourse(t, db, "C1", "0xmentor")

	info := &PaymentInfo{From: "0xaaa", Amount: 10, TxHash: "0xchain"}

	first, err := ApplyVerifiedPayment(db, "C1", info)
	require.NoError(t, err)
	require.False(t, first.AlreadyConfirmed)

	second, err := ApplyVerifiedPayment(db, "C1", info)
	require.NoError(t, err)
	assert.True(t, second.AlreadyConfirmed)
	assert.Equal(t, first.Registration.ID, second.Registration.ID)

	var count int64
	db.Model(&models.CourseRegistration{}).Where("course_code = ? AND user_address = ?", "C1", "0xaaa").Count(&count)
	assert.Equal(t, int64(1), count)
}
