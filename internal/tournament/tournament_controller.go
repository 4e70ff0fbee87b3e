package tournament

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pcmclub/pcm-backend/internal/member"
	"github.com/pcmclub/pcm-backend/internal/middleware"
	"github.com/pcmclub/pcm-backend/internal/wallet"
	"github.com/pcmclub/pcm-backend/pkg/responses"
	"github.com/pcmclub/pcm-backend/pkg/validator"
)

type TournamentController struct {
	service *TournamentService
	repo    TournamentRepository
}

func NewTournamentController(service *TournamentService, repo TournamentRepository) *TournamentController {
	return &TournamentController{service: service, repo: repo}
}

type CreateTournamentRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	StartDate       string `json:"start_date" binding:"required"` // RFC3339
	EndDate         string `json:"end_date" binding:"required"`
	Format          string `json:"format" binding:"required,oneof=RoundRobin Knockout Hybrid"`
	EntryFee        string `json:"entry_fee"`
	SeedPrizePool   string `json:"seed_prize_pool"`
	MaxParticipants int    `json:"max_participants"`
}

type JoinTournamentRequest struct {
	TeamName string `json:"team_name"`
}

type MatchResultRequest struct {
	Score1  int    `json:"score1" binding:"min=0"`
	Score2  int    `json:"score2" binding:"min=0"`
	Winner  string `json:"winner" binding:"required,oneof=Team1 Team2 Draw"`
	Details string `json:"details"`
}

// Create godoc
// @Summary Create a tournament
// @Tags Tournaments
// @Accept json
// @Produce json
// @Param tournament body CreateTournamentRequest true "Tournament"
// @Success 201 {object} responses.SuccessResponse{data=Tournament}
// @Router /tournaments [post]
// @Security BearerAuth
func (tc *TournamentController) Create(c *gin.Context) {
	var req CreateTournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid start_date, expected RFC3339", nil)
		return
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid end_date, expected RFC3339", nil)
		return
	}

	entryFee, err := parseAmount(req.EntryFee)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid entry_fee", nil)
		return
	}
	seed, err := parseAmount(req.SeedPrizePool)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid seed_prize_pool", nil)
		return
	}

	t, err := tc.service.CreateTournament(c.Request.Context(), CreateTournamentInput{
		Name:            req.Name,
		Description:     req.Description,
		StartDate:       startDate,
		EndDate:         endDate,
		Format:          TournamentFormat(req.Format),
		EntryFee:        entryFee,
		SeedPrizePool:   seed,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create tournament", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Tournament created successfully", t)
}

// List godoc
// @Summary List tournaments
// @Tags Tournaments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Tournament}
// @Router /tournaments [get]
func (tc *TournamentController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	tournaments, total, err := tc.repo.GetAll(page, pageSize)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve tournaments", err.Error())
		return
	}

	responses.SendPaginated(c, http.StatusOK, "Tournaments retrieved successfully", tournaments, total, page, pageSize)
}

// Get godoc
// @Summary Get a tournament with its participants and matches
// @Tags Tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /tournaments/{id} [get]
func (tc *TournamentController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid tournament ID", nil)
		return
	}

	t, err := tc.repo.GetByID(uint(id))
	if err != nil {
		tc.respondError(c, err)
		return
	}
	participants, err := tc.repo.GetParticipants(t.ID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve participants", err.Error())
		return
	}
	matches, err := tc.repo.GetMatches(t.ID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve matches", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Tournament retrieved successfully", gin.H{
		"tournament":   t,
		"participants": participants,
		"matches":      matches,
	})
}

// Join godoc
// @Summary Join a tournament
// @Description Debits the entry fee and registers the member atomically.
// @Tags Tournaments
// @Accept json
// @Produce json
// @Param id path int true "Tournament ID"
// @Param body body JoinTournamentRequest false "Team name"
// @Success 201 {object} responses.SuccessResponse{data=TournamentParticipant}
// @Failure 402 {object} responses.ErrorResponse "Insufficient funds"
// @Failure 409 {object} responses.ErrorResponse "Already joined or registration closed"
// @Router /tournaments/{id}/join [post]
// @Security BearerAuth
func (tc *TournamentController) Join(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid tournament ID", nil)
		return
	}

	// Body is optional; a missing team name is fine.
	var req JoinTournamentRequest
	_ = c.ShouldBindJSON(&req)

	participant, err := tc.service.JoinTournament(c.Request.Context(), uint(id), memberID, req.TeamName)
	if err != nil {
		tc.respondError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Joined tournament successfully", participant)
}

// GenerateSchedule godoc
// @Summary Generate the tournament bracket
// @Tags Tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 201 {object} responses.SuccessResponse{data=[]Match}
// @Failure 409 {object} responses.ErrorResponse "Schedule already generated"
// @Router /tournaments/{id}/schedule [post]
// @Security BearerAuth
func (tc *TournamentController) GenerateSchedule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid tournament ID", nil)
		return
	}

	matches, err := tc.service.GenerateSchedule(c.Request.Context(), uint(id))
	if err != nil {
		tc.respondError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Schedule generated successfully", matches)
}

// UpdateMatchResult godoc
// @Summary Record a match result
// @Tags Tournaments
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param result body MatchResultRequest true "Result"
// @Success 200 {object} responses.SuccessResponse{data=Match}
// @Failure 409 {object} responses.ErrorResponse "Result already recorded"
// @Router /tournaments/matches/{id}/result [put]
// @Security BearerAuth
func (tc *TournamentController) UpdateMatchResult(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid match ID", nil)
		return
	}

	var req MatchResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	m, err := tc.service.UpdateMatchResult(c.Request.Context(), uint(id), req.Score1, req.Score2, MatchWinner(req.Winner), req.Details)
	if err != nil {
		tc.respondError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Match result recorded", m)
}

// Finish godoc
// @Summary Finish a tournament and pay the prize pool
// @Tags Tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Param winner_id query int true "Winning member ID"
// @Success 200 {object} responses.SuccessResponse{data=Tournament}
// @Failure 409 {object} responses.ErrorResponse "Already finished"
// @Router /tournaments/{id}/finish [post]
// @Security BearerAuth
func (tc *TournamentController) Finish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid tournament ID", nil)
		return
	}
	winnerID, err := strconv.ParseUint(c.Query("winner_id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid winner_id", nil)
		return
	}

	t, err := tc.service.FinishTournament(c.Request.Context(), uint(id), uint(winnerID))
	if err != nil {
		tc.respondError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Tournament finished", t)
}

func (tc *TournamentController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wallet.ErrInsufficientFunds):
		responses.SendError(c, http.StatusPaymentRequired, "Insufficient wallet balance", nil)
	case errors.Is(err, ErrTournamentNotFound), errors.Is(err, ErrMatchNotFound),
		errors.Is(err, member.ErrMemberNotFound), errors.Is(err, ErrWinnerNotParticipating):
		responses.SendError(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrAlreadyJoined), errors.Is(err, ErrRegistrationClosed),
		errors.Is(err, ErrTournamentFull), errors.Is(err, ErrScheduleExists),
		errors.Is(err, ErrMatchAlreadyFinished), errors.Is(err, ErrTournamentFinished):
		responses.SendError(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrNotEnoughParticipants):
		responses.SendError(c, http.StatusBadRequest, err.Error(), nil)
	default:
		responses.SendError(c, http.StatusInternalServerError, "Transaction failed, please retry", err.Error())
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, errors.New("invalid amount")
	}
	return d, nil
}
