package wallet

import (
	"gorm.io/gorm"
)

// WalletRepository covers read paths over the ledger. Writes go through Ledger.
type WalletRepository interface {
	GetByMember(memberID uint, page, limit int) ([]WalletTransaction, int64, error)
	GetPendingDeposits() ([]WalletTransaction, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetByMember(memberID uint, page, limit int) ([]WalletTransaction, int64, error) {
	var transactions []WalletTransaction
	var totalCount int64

	offset := (page - 1) * limit

	query := r.db.Model(&WalletTransaction{}).Where("member_id = ?", memberID)
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, totalCount, nil
}

func (r *walletRepository) GetPendingDeposits() ([]WalletTransaction, error) {
	var transactions []WalletTransaction
	if err := r.db.
		Where("status = ? AND type = ?", StatusPending, TypeDeposit).
		Order("created_at desc").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
