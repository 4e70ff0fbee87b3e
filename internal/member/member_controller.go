package member

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pcmclub/pcm-backend/internal/middleware"
	"github.com/pcmclub/pcm-backend/pkg/responses"
)

// MemberController handles profile and ranking requests.
type MemberController struct {
	repo MemberRepository
}

func NewMemberController(repo MemberRepository) *MemberController {
	return &MemberController{repo: repo}
}

// GetMe godoc
// @Summary Get the authenticated member's profile
// @Tags Members
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=Member}
// @Failure 404 {object} responses.ErrorResponse
// @Router /members/me [get]
// @Security BearerAuth
func (mc *MemberController) GetMe(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	m, err := mc.repo.GetByID(memberID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			responses.SendError(c, http.StatusNotFound, "Member not found", nil)
			return
		}
		responses.SendError(c, http.StatusInternalServerError, "Failed to load profile", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Profile retrieved successfully", m)
}

// GetRanking godoc
// @Summary List top members by rank level
// @Tags Members
// @Produce json
// @Param limit query int false "Number of members" default(20)
// @Success 200 {object} responses.SuccessResponse{data=[]Member}
// @Router /members/ranking [get]
func (mc *MemberController) GetRanking(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	members, err := mc.repo.GetRanking(limit)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to load ranking", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Ranking retrieved successfully", members)
}
