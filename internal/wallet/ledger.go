package wallet

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/internal/member"
)

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrTransactionNotFound = errors.New("wallet transaction not found")
	ErrNotPending          = errors.New("transaction is not pending")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Ledger is the single funnel for wallet balance mutations. Every balance
// change happens inside a caller-owned transaction and is paired 1:1 with a
// Completed ledger entry, so the balance never drifts from the entry sum and
// never goes below zero.
type Ledger struct {
	thresholds member.TierThresholds
}

func NewLedger(thresholds member.TierThresholds) *Ledger {
	return &Ledger{thresholds: thresholds}
}

// Entry describes the ledger record to append alongside a mutation.
type Entry struct {
	Type        TransactionType
	Description string
	RelatedID   string
}

// Debit takes amount out of the member's wallet and appends a negative
// Completed entry. When spend is true the amount counts toward TotalSpent and
// the tier watermark is re-evaluated (upgrades only). The passed member is
// updated in place to reflect the committed state.
func (l *Ledger) Debit(tx *gorm.DB, m *member.Member, amount decimal.Decimal, spend bool, e Entry) (*WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if m.WalletBalance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	m.WalletBalance = m.WalletBalance.Sub(amount)
	if spend {
		m.TotalSpent = m.TotalSpent.Add(amount)
		m.Tier = member.TierFor(m.TotalSpent, m.Tier, l.thresholds)
	}

	if err := tx.Model(m).Updates(map[string]interface{}{
		"wallet_balance": m.WalletBalance,
		"total_spent":    m.TotalSpent,
		"tier":           m.Tier,
	}).Error; err != nil {
		return nil, err
	}

	return l.append(tx, m.ID, amount.Neg(), e)
}

// Credit puts amount into the member's wallet and appends a positive Completed
// entry. When refund is true the amount is subtracted from TotalSpent (floored
// at zero); the stored tier is never lowered.
func (l *Ledger) Credit(tx *gorm.DB, m *member.Member, amount decimal.Decimal, refund bool, e Entry) (*WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	m.WalletBalance = m.WalletBalance.Add(amount)
	if refund {
		m.TotalSpent = m.TotalSpent.Sub(amount)
		if m.TotalSpent.IsNegative() {
			m.TotalSpent = decimal.Zero
		}
	}

	if err := tx.Model(m).Updates(map[string]interface{}{
		"wallet_balance": m.WalletBalance,
		"total_spent":    m.TotalSpent,
	}).Error; err != nil {
		return nil, err
	}

	return l.append(tx, m.ID, amount, e)
}

// CompleteDeposit flips an approved Pending deposit to Completed and credits
// the balance. The pending row itself becomes the paired entry; no second
// record is appended. The guarded update closes the race between two admins
// approving the same deposit.
func (l *Ledger) CompleteDeposit(tx *gorm.DB, m *member.Member, wtx *WalletTransaction) error {
	if wtx.Status != StatusPending || wtx.Type != TypeDeposit {
		return ErrNotPending
	}
	if !wtx.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	res := tx.Model(&WalletTransaction{}).
		Where("id = ? AND status = ?", wtx.ID, StatusPending).
		Update("status", StatusCompleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	wtx.Status = StatusCompleted

	m.WalletBalance = m.WalletBalance.Add(wtx.Amount)
	return tx.Model(m).Update("wallet_balance", m.WalletBalance).Error
}

func (l *Ledger) append(tx *gorm.DB, memberID uint, amount decimal.Decimal, e Entry) (*WalletTransaction, error) {
	record := &WalletTransaction{
		MemberID:    memberID,
		Amount:      amount,
		Type:        e.Type,
		Status:      StatusCompleted,
		Description: e.Description,
	}
	if e.RelatedID != "" {
		record.RelatedID = &e.RelatedID
	}
	if err := tx.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}
