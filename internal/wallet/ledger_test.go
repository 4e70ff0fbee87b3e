package wallet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pcmclub/pcm-backend/internal/member"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&member.Member{}, &WalletTransaction{}))
	return db
}

func testLedger() *Ledger {
	return NewLedger(member.TierThresholds{
		Silver:  decimal.NewFromInt(5000000),
		Gold:    decimal.NewFromInt(20000000),
		Diamond: decimal.NewFromInt(50000000),
	})
}

func createMember(t *testing.T, db *gorm.DB, balance int64) *member.Member {
	t.Helper()
	m := &member.Member{
		FullName:      "Test Member",
		Email:         "member@test.local",
		Role:          member.RoleMember,
		IsActive:      true,
		WalletBalance: decimal.NewFromInt(balance),
		TotalSpent:    decimal.Zero,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func TestDebitCreatesPairedEntry(t *testing.T) {
	db := setupLedgerDB(t)
	ledger := testLedger()
	m := createMember(t, db, 200000)

	var entry *WalletTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = ledger.Debit(tx, m, decimal.NewFromInt(150000), true, Entry{
			Type:        TypePayment,
			Description: "Court booking",
		})
		return err
	})
	require.NoError(t, err)

	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(-150000)))
	assert.Equal(t, StatusCompleted, entry.Status)
	assert.Equal(t, TypePayment, entry.Type)

	var stored member.Member
	require.NoError(t, db.First(&stored, m.ID).Error)
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(50000)))
	assert.True(t, stored.TotalSpent.Equal(decimal.NewFromInt(150000)))
}

func TestDebitInsufficientFundsLeavesNoTrace(t *testing.T) {
	db := setupLedgerDB(t)
	ledger := testLedger()
	m := createMember(t, db, 100)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Debit(tx, m, decimal.NewFromInt(200), true, Entry{Type: TypePayment})
		return err
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	var stored member.Member
	require.NoError(t, db.First(&stored, m.ID).Error)
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(100)))

	var entries int64
	require.NoError(t, db.Model(&WalletTransaction{}).Count(&entries).Error)
	assert.Zero(t, entries)
}

func TestDebitRejectsNonPositiveAmount(t *testing.T) {
	db := setupLedgerDB(t)
	ledger := testLedger()
	m := createMember(t, db, 1000)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Debit(tx, m, decimal.Zero, true, Entry{Type: TypePayment})
		return err
	})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDebitUpgradesTier(t *testing.T) {
	db := setupLedgerDB(t)
	ledger := testLedger()
	m := createMember(t, db, 6000000)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Debit(tx, m, decimal.NewFromInt(5000000), true, Entry{Type: TypePayment})
		return err
	})
	require.NoError(t, err)

	var stored member.Member
	require.NoError(t, db.First(&stored, m.ID).Error)
	assert.Equal(t, member.TierSilver, stored.Tier)
}

func TestCreditRefundShrinksTotalSpentButNotTier(t *testing.T) {
	db := setupLedgerDB(t)
	ledger := testLedger()
	m := createMember(t, db, 10000000)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Debit(tx, m, decimal.NewFromInt(6000000), true, Entry{Type: TypePayment})
		return err
	})
	require.NoError(t, err)
	require.Equal(t, member.TierSilver, m.Tier)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Credit(tx, m, decimal.NewFromInt(6000000), true, Entry{Type: TypeRefund})
		return err
	})
	require.NoError(t, err)

	var stored member.Member
	require.NoError(t, db.First(&stored, m.ID).Error)
	assert.True(t, stored.TotalSpent.IsZero())
	assert.Equal(t, member.TierSilver, stored.Tier, "tier is a watermark and never drops")
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(10000000)))
}

func TestCreditRefundFloorsTotalSpentAtZero(t *testing.T) {
	db := setupLedgerDB(t)
	ledger := testLedger()
	m := createMember(t, db, 0)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Credit(tx, m, decimal.NewFromInt(500), true, Entry{Type: TypeRefund})
		return err
	})
	require.NoError(t, err)

	var stored member.Member
	require.NoError(t, db.First(&stored, m.ID).Error)
	assert.True(t, stored.TotalSpent.IsZero())
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(500)))
}

func TestCompleteDepositOnlyOnce(t *testing.T) {
	db := setupLedgerDB(t)
	ledger := testLedger()
	m := createMember(t, db, 0)

	pending := &WalletTransaction{
		MemberID: m.ID,
		Amount:   decimal.NewFromInt(100000),
		Type:     TypeDeposit,
		Status:   StatusPending,
	}
	require.NoError(t, db.Create(pending).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		return ledger.CompleteDeposit(tx, m, pending)
	})
	require.NoError(t, err)

	var stored member.Member
	require.NoError(t, db.First(&stored, m.ID).Error)
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(100000)))

	// A second approval of the same row must not credit twice.
	var reloaded WalletTransaction
	require.NoError(t, db.First(&reloaded, pending.ID).Error)
	err = db.Transaction(func(tx *gorm.DB) error {
		return ledger.CompleteDeposit(tx, m, &reloaded)
	})
	require.ErrorIs(t, err, ErrNotPending)

	require.NoError(t, db.First(&stored, m.ID).Error)
	assert.True(t, stored.WalletBalance.Equal(decimal.NewFromInt(100000)))
}

// The ledger invariant: the sum of all Completed entries for a member equals
// the member's balance, across any mix of operations.
func TestBalanceMatchesCompletedEntrySum(t *testing.T) {
	db := setupLedgerDB(t)
	ledger := testLedger()
	m := createMember(t, db, 0)

	deposit := &WalletTransaction{
		MemberID: m.ID,
		Amount:   decimal.NewFromInt(500000),
		Type:     TypeDeposit,
		Status:   StatusPending,
	}
	require.NoError(t, db.Create(deposit).Error)
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ledger.CompleteDeposit(tx, m, deposit)
	}))

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Debit(tx, m, decimal.NewFromInt(150000), true, Entry{Type: TypePayment})
		return err
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Credit(tx, m, decimal.NewFromInt(150000), true, Entry{Type: TypeRefund})
		return err
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := ledger.Credit(tx, m, decimal.NewFromInt(75000), false, Entry{Type: TypeReward})
		return err
	}))

	var entries []WalletTransaction
	require.NoError(t, db.Where("member_id = ? AND status = ?", m.ID, StatusCompleted).Find(&entries).Error)

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}

	var stored member.Member
	require.NoError(t, db.First(&stored, m.ID).Error)
	assert.True(t, stored.WalletBalance.Equal(sum),
		"balance %s != entry sum %s", stored.WalletBalance, sum)
}
