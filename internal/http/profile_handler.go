package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomie-match/internal/domain"
	"roomie-match/internal/service"
)

// ProfileHandler mantiene dependencias para endpoints de perfiles.
type ProfileHandler struct {
	logger      *zap.Logger
	profileServ *service.ProfileService
}

func NewProfileHandler(logger *zap.Logger, profileServ *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		logger:      logger,
		profileServ: profileServ,
	}
}

type saveProfileRequest struct {
	DisplayName       string              `json:"display_name" binding:"required"`
	PhotoURL          *string             `json:"photo_url"`
	Gender            string              `json:"gender" binding:"required"`
	Age               int                 `json:"age" binding:"required"`
	School            string              `json:"school"`
	CourseYear        int                 `json:"course_year"`
	MinBudget         int                 `json:"min_budget"`
	MaxBudget         int                 `json:"max_budget"`
	Zone              string              `json:"zone" binding:"required"`
	PreferredRoomType string              `json:"preferred_room_type"`
	Lifestyle         domain.Lifestyle    `json:"lifestyle"`
	DealBreakers      domain.DealBreakers `json:"deal_breakers"`
	Status            string              `json:"status"`
	Bio               string              `json:"bio"`
}

// GetMe maneja GET /profiles/me.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	uid, ok := viewerUID(c)
	if !ok {
		return
	}
	profile, err := h.profileServ.GetProfile(c.Request.Context(), uid)
	if err != nil {
		h.writeError(c, err, "could not load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// SaveMe maneja PUT /profiles/me.
func (h *ProfileHandler) SaveMe(c *gin.Context) {
	uid, ok := viewerUID(c)
	if !ok {
		return
	}
	var req saveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid save profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.profileServ.SaveProfile(c.Request.Context(), uid, service.SaveProfileInput{
		DisplayName:       req.DisplayName,
		PhotoURL:          req.PhotoURL,
		Gender:            req.Gender,
		Age:               req.Age,
		School:            req.School,
		CourseYear:        req.CourseYear,
		MinBudget:         req.MinBudget,
		MaxBudget:         req.MaxBudget,
		Zone:              req.Zone,
		PreferredRoomType: req.PreferredRoomType,
		Lifestyle:         req.Lifestyle,
		DealBreakers:      req.DealBreakers,
		Status:            req.Status,
		Bio:               req.Bio,
	})
	if err != nil {
		h.writeError(c, err, "could not save profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Ping maneja POST /profiles/me/ping.
func (h *ProfileHandler) Ping(c *gin.Context) {
	uid, ok := viewerUID(c)
	if !ok {
		return
	}
	if err := h.profileServ.Touch(c.Request.Context(), uid); err != nil {
		h.writeError(c, err, "could not update activity")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProfile maneja GET /profiles/:uid.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	uid, ok := viewerUID(c)
	if !ok {
		return
	}
	view, err := h.profileServ.ViewProfile(c.Request.Context(), uid, c.Param("uid"))
	if err != nil {
		h.writeError(c, err, "could not load profile")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ProfileHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, service.ErrInvalidProfile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
