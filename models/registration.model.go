package models

import (
	"time"

	"gorm.io/gorm"
)

// RegistrationStatus defines the status of a payment registration
type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
)

// CourseRegistration records one mentee's payment attempt for one course.
// A record is created pending when the mentee reports their enrollment
// transaction and is transitioned to confirmed exactly once, either by
// on-chain verification or by the owner's approval. Confirmed records are
// never mutated again.
// The partial unique indexes back two invariants the application code alone
// cannot close under concurrency: at most one pending record per
// (courseCode, userAddress) pair, and at most one registration per payment
// transaction.
type CourseRegistration struct {
	gorm.Model
	CourseCode     string             `gorm:"not null;index;index:idx_course_regs_pending_pair,unique,where:status = 'pending'" json:"courseCode"`
	UserAddress    string             `gorm:"not null;index;index:idx_course_regs_pending_pair,unique,where:status = 'pending'" json:"userAddress"` // stored lowercase
	AmountDeclared float64            `gorm:"default:0" json:"amountDeclared"` // client-reported, advisory only
	AmountPaid     float64            `gorm:"default:0" json:"amountPaid"`     // chain-derived when verified
	TxHash         string             `gorm:"index:idx_course_regs_tx_hash,unique,where:tx_hash <> ''" json:"txHash"` // mentee's payment transaction
	Status         RegistrationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ConfirmedAt    *time.Time         `json:"confirmedAt"`
	MentorShare    float64            `gorm:"default:0" json:"mentorShare"` // 80% of AmountPaid, set at confirm time
	ConfirmTxHash  string             `json:"confirmTxHash"`                // owner's payout transaction
}

func (CourseRegistration) TableName() string {
	return "course_registrations"
}

// BountyRegistration records a participant entering a bounty. Entries are
// confirmed immediately after their entry-fee transaction verifies against
// the payment sink.
type BountyRegistration struct {
	gorm.Model
	BountyCode  string             `gorm:"index;not null" json:"bountyCode"`
	UserAddress string             `gorm:"index;not null" json:"userAddress"`
	AmountPaid  float64            `gorm:"default:0" json:"amountPaid"`
	TxHash      string             `gorm:"index" json:"txHash"`
	IsEnrolled  bool               `gorm:"default:false" json:"isEnrolled"` // entered via linked-course discount
	Status      RegistrationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ConfirmedAt *time.Time         `json:"confirmedAt"`
}

func (BountyRegistration) TableName() string {
	return "bounty_registrations"
}
