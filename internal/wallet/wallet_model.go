package wallet

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TypeDeposit  TransactionType = "Deposit"
	TypeWithdraw TransactionType = "Withdraw"
	TypePayment  TransactionType = "Payment"
	TypeRefund   TransactionType = "Refund"
	TypeReward   TransactionType = "Reward"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "Pending"
	StatusCompleted TransactionStatus = "Completed"
	StatusRejected  TransactionStatus = "Rejected"
	StatusFailed    TransactionStatus = "Failed"
)

// WalletTransaction is an append-only ledger entry. Sign convention: negative
// amount = outflow from the wallet, positive = inflow. The sum of Completed
// entries for a member equals that member's wallet balance.
type WalletTransaction struct {
	gorm.Model
	MemberID uint `gorm:"index;not null" json:"member_id"`

	Amount decimal.Decimal   `gorm:"type:numeric(18,2);not null" json:"amount"`
	Type   TransactionType   `gorm:"type:varchar(20);not null" json:"type"`
	Status TransactionStatus `gorm:"type:varchar(20);not null" json:"status"`

	// RelatedID is a free-form back-reference to the booking or tournament
	// this entry settles.
	RelatedID   *string `gorm:"index" json:"related_id,omitempty"`
	Description string  `json:"description"`

	// Deposit requests carry an operator-facing reference code and an
	// optional transfer-proof image for the manual approval flow.
	ReferenceCode string  `gorm:"index" json:"reference_code,omitempty"`
	ProofImageURL *string `json:"proof_image_url,omitempty"`
}
