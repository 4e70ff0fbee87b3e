package wallet

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/middleware"
	"github.com/pcmclub/pcm-backend/internal/notification"
	"github.com/pcmclub/pcm-backend/pkg/events"
	"github.com/pcmclub/pcm-backend/pkg/responses"
	"github.com/pcmclub/pcm-backend/pkg/validator"
)

// WalletController handles wallet reads and the manual deposit approval flow.
type WalletController struct {
	db     *gorm.DB
	repo   WalletRepository
	ledger *Ledger
	pub    events.Publisher
}

func NewWalletController(db *gorm.DB, repo WalletRepository, ledger *Ledger, pub events.Publisher) *WalletController {
	return &WalletController{db: db, repo: repo, ledger: ledger, pub: pub}
}

type DepositRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"omitempty,max=500"`
	ProofImageURL string          `json:"proof_image_url" binding:"omitempty,url"`
}

// Deposit godoc
// @Summary Request a wallet top-up
// @Description Creates a Pending deposit entry; an admin approves it later.
// @Tags Wallet
// @Accept json
// @Produce json
// @Param deposit body DepositRequest true "Deposit request"
// @Success 201 {object} responses.SuccessResponse{data=WalletTransaction}
// @Failure 400 {object} responses.ErrorResponse
// @Router /wallet/deposit [post]
// @Security BearerAuth
func (wc *WalletController) Deposit(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}
	if !req.Amount.IsPositive() {
		responses.SendError(c, http.StatusBadRequest, "Deposit amount must be positive", nil)
		return
	}

	description := req.Description
	if description == "" {
		description = "Wallet top-up"
	}

	wtx := &WalletTransaction{
		MemberID:      memberID,
		Amount:        req.Amount,
		Type:          TypeDeposit,
		Status:        StatusPending,
		Description:   description,
		ReferenceCode: uuid.NewString(),
	}
	if req.ProofImageURL != "" {
		wtx.ProofImageURL = &req.ProofImageURL
	}

	if err := wc.db.Create(wtx).Error; err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create deposit request", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Deposit request submitted, awaiting admin approval", wtx)
}

// Approve godoc
// @Summary Approve a pending deposit
// @Tags Wallet
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Transaction is not pending"
// @Router /wallet/approve/{id} [put]
// @Security BearerAuth
func (wc *WalletController) Approve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid transaction ID", nil)
		return
	}

	var approved *WalletTransaction
	txErr := wc.db.Transaction(func(tx *gorm.DB) error {
		var wtx WalletTransaction
		if err := tx.First(&wtx, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		m, err := member.GetForUpdate(tx, wtx.MemberID)
		if err != nil {
			return err
		}

		if err := wc.ledger.CompleteDeposit(tx, m, &wtx); err != nil {
			return err
		}

		note := &notification.Notification{
			ReceiverID: m.ID,
			Message:    fmt.Sprintf("Your deposit of %s has been approved.", wtx.Amount.StringFixed(0)),
			Type:       notification.TypeSuccess,
		}
		related := fmt.Sprintf("%d", wtx.ID)
		note.RelatedID = &related
		if err := tx.Create(note).Error; err != nil {
			return err
		}

		approved = &wtx
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if txErr != nil {
		switch {
		case errors.Is(txErr, ErrTransactionNotFound), errors.Is(txErr, member.ErrMemberNotFound):
			responses.SendError(c, http.StatusNotFound, "Transaction not found", nil)
		case errors.Is(txErr, ErrNotPending):
			responses.SendError(c, http.StatusConflict, "Transaction is not pending approval", nil)
		default:
			responses.SendError(c, http.StatusInternalServerError, "Approval failed, please retry", txErr.Error())
		}
		return
	}

	wc.pub.Publish(c.Request.Context(), events.RKMemberNotification(approved.MemberID), events.MemberNotification{
		MemberID: approved.MemberID,
		Message:  "Your deposit request has been approved!",
	})

	responses.SendSuccess(c, http.StatusOK, "Transaction approved", approved)
}

// Reject godoc
// @Summary Reject a pending deposit
// @Tags Wallet
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /wallet/reject/{id} [put]
// @Security BearerAuth
func (wc *WalletController) Reject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid transaction ID", nil)
		return
	}

	res := wc.db.Model(&WalletTransaction{}).
		Where("id = ? AND status = ? AND type = ?", id, StatusPending, TypeDeposit).
		Update("status", StatusRejected)
	if res.Error != nil {
		responses.SendError(c, http.StatusInternalServerError, "Rejection failed", res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		responses.SendError(c, http.StatusConflict, "Transaction not found or not pending", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Transaction rejected", nil)
}

// MyTransactions godoc
// @Summary List the authenticated member's ledger entries
// @Tags Wallet
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]WalletTransaction}
// @Router /wallet/transactions [get]
// @Security BearerAuth
func (wc *WalletController) MyTransactions(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	transactions, total, err := wc.repo.GetByMember(memberID, page, pageSize)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve transactions", err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Transactions retrieved successfully", transactions, total, page, pageSize)
}

// Balance godoc
// @Summary Get the authenticated member's wallet balance
// @Tags Wallet
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Router /wallet/balance [get]
// @Security BearerAuth
func (wc *WalletController) Balance(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var m member.Member
	if err := wc.db.First(&m, memberID).Error; err != nil {
		responses.SendError(c, http.StatusNotFound, "Member not found", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Balance retrieved successfully", gin.H{
		"balance":     m.WalletBalance,
		"total_spent": m.TotalSpent,
		"tier":        m.Tier.String(),
	})
}

// AllPending godoc
// @Summary List all pending deposit requests
// @Tags Wallet
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]WalletTransaction}
// @Router /wallet/all-pending [get]
// @Security BearerAuth
func (wc *WalletController) AllPending(c *gin.Context) {
	transactions, err := wc.repo.GetPendingDeposits()
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve pending deposits", err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Pending deposits retrieved successfully", transactions)
}

// PaymentInfo godoc
// @Summary Get bank transfer instructions for deposits
// @Tags Wallet
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Router /wallet/payment-info [get]
func (wc *WalletController) PaymentInfo(c *gin.Context) {
	responses.SendSuccess(c, http.StatusOK, "Payment info retrieved successfully", gin.H{
		"bank_name":      "MB Bank",
		"account_number": "0987654321",
		"account_name":   "PCM BADMINTON",
		"qr_url":         "https://img.vietqr.io/image/MB-0987654321-compact.png",
		"description":    "Nap tien [UserCode]",
	})
}
