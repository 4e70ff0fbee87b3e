package member

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tier is the membership rank derived from cumulative spend. Ordering matters:
// comparisons gate tier-restricted features such as recurring bookings.
type Tier int

const (
	TierStandard Tier = iota
	TierSilver
	TierGold
	TierDiamond
)

func (t Tier) String() string {
	switch t {
	case TierSilver:
		return "Silver"
	case TierGold:
		return "Gold"
	case TierDiamond:
		return "Diamond"
	default:
		return "Standard"
	}
}

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type Member struct {
	gorm.Model
	FullName string `gorm:"not null" json:"full_name"`
	Email    string `gorm:"not null;uniqueIndex" json:"email"`
	Role     string `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	// RankLevel is an informational skill rating (DUPR-like). It never feeds
	// into pricing or tier logic.
	RankLevel float64 `gorm:"not null;default:1.0" json:"rank_level"`

	WalletBalance decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"wallet_balance"`
	TotalSpent    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"total_spent"`
	Tier          Tier            `gorm:"not null;default:0" json:"tier"`

	JoinDate time.Time `json:"join_date"`
}

func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}
