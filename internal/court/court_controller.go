package court

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pcmclub/pcm-backend/pkg/responses"
	"github.com/pcmclub/pcm-backend/pkg/validator"
)

type CourtController struct {
	repo CourtRepository
}

func NewCourtController(repo CourtRepository) *CourtController {
	return &CourtController{repo: repo}
}

type CreateCourtRequest struct {
	Name         string          `json:"name" binding:"required,min=2,max=100"`
	Description  string          `json:"description" binding:"omitempty,max=1000"`
	PricePerHour decimal.Decimal `json:"price_per_hour" binding:"required"`
	ImageURL     string          `json:"image_url" binding:"omitempty,url"`
}

type UpdateCourtRequest struct {
	Name         string           `json:"name" binding:"omitempty,min=2,max=100"`
	Description  *string          `json:"description" binding:"omitempty,max=1000"`
	PricePerHour *decimal.Decimal `json:"price_per_hour"`
	IsActive     *bool            `json:"is_active"`
	ImageURL     *string          `json:"image_url" binding:"omitempty,url"`
}

// Create godoc
// @Summary Create a court
// @Tags Courts
// @Accept json
// @Produce json
// @Param court body CreateCourtRequest true "Court"
// @Success 201 {object} responses.SuccessResponse{data=Court}
// @Failure 400 {object} responses.ErrorResponse
// @Router /courts [post]
// @Security BearerAuth
func (cc *CourtController) Create(c *gin.Context) {
	var req CreateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}
	if !req.PricePerHour.IsPositive() {
		responses.SendError(c, http.StatusBadRequest, "Price per hour must be positive", nil)
		return
	}

	court := Court{
		Name:         req.Name,
		Description:  req.Description,
		PricePerHour: req.PricePerHour,
		IsActive:     true,
		ImageURL:     req.ImageURL,
	}
	if err := cc.repo.Create(&court); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create court", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Court created successfully", court)
}

// List godoc
// @Summary List courts
// @Tags Courts
// @Produce json
// @Param include_inactive query bool false "Include deactivated courts"
// @Success 200 {object} responses.SuccessResponse{data=[]Court}
// @Router /courts [get]
func (cc *CourtController) List(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))

	courts, err := cc.repo.GetAll(includeInactive)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve courts", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Courts retrieved successfully", courts)
}

// Update godoc
// @Summary Update a court
// @Tags Courts
// @Accept json
// @Produce json
// @Param id path int true "Court ID"
// @Param court body UpdateCourtRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=Court}
// @Failure 404 {object} responses.ErrorResponse
// @Router /courts/{id} [put]
// @Security BearerAuth
func (cc *CourtController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid court ID", nil)
		return
	}

	var req UpdateCourtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	court, err := cc.repo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			responses.SendError(c, http.StatusNotFound, "Court not found", nil)
			return
		}
		responses.SendError(c, http.StatusInternalServerError, "Failed to load court", err.Error())
		return
	}

	if req.Name != "" {
		court.Name = req.Name
	}
	if req.Description != nil {
		court.Description = *req.Description
	}
	if req.PricePerHour != nil {
		if !req.PricePerHour.IsPositive() {
			responses.SendError(c, http.StatusBadRequest, "Price per hour must be positive", nil)
			return
		}
		court.PricePerHour = *req.PricePerHour
	}
	if req.IsActive != nil {
		court.IsActive = *req.IsActive
	}
	if req.ImageURL != nil {
		court.ImageURL = *req.ImageURL
	}

	if err := cc.repo.Update(court); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to update court", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Court updated successfully", court)
}

// Deactivate godoc
// @Summary Deactivate a court
// @Tags Courts
// @Produce json
// @Param id path int true "Court ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /courts/{id} [delete]
// @Security BearerAuth
func (cc *CourtController) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid court ID", nil)
		return
	}

	if err := cc.repo.Deactivate(uint(id)); err != nil {
		if errors.Is(err, ErrCourtNotFound) {
			responses.SendError(c, http.StatusNotFound, "Court not found", nil)
			return
		}
		responses.SendError(c, http.StatusInternalServerError, "Failed to deactivate court", err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Court deactivated", nil)
}
