package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomie-match/internal/service"
)

// LikeHandler expone likes y matches mutuos.
type LikeHandler struct {
	logger   *zap.Logger
	likeServ *service.LikeService
}

func NewLikeHandler(logger *zap.Logger, likeServ *service.LikeService) *LikeHandler {
	return &LikeHandler{
		logger:   logger,
		likeServ: likeServ,
	}
}

// Like maneja POST /likes/:uid.
func (h *LikeHandler) Like(c *gin.Context) {
	uid, ok := viewerUID(c)
	if !ok {
		return
	}
	out, err := h.likeServ.Like(c.Request.Context(), uid, c.Param("uid"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfLike):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		default:
			h.logger.Error("like failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record like"})
		}
		return
	}

	resp := gin.H{"matched": out.Matched}
	if out.Match != nil {
		resp["match_id"] = out.Match.ID
	}
	c.JSON(http.StatusOK, resp)
}

// Status maneja GET /likes/:uid: si el viewer ya dio like y si lo recibio.
func (h *LikeHandler) Status(c *gin.Context) {
	uid, ok := viewerUID(c)
	if !ok {
		return
	}
	target := c.Param("uid")
	liked, err := h.likeServ.HasLiked(c.Request.Context(), uid, target)
	if err != nil {
		h.logger.Error("like status failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load like status"})
		return
	}
	likedBy, err := h.likeServ.HasLiked(c.Request.Context(), target, uid)
	if err != nil {
		h.logger.Error("like status failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load like status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "liked_by": likedBy})
}

// Matches maneja GET /matches.
func (h *LikeHandler) Matches(c *gin.Context) {
	uid, ok := viewerUID(c)
	if !ok {
		return
	}
	matches, err := h.likeServ.Matches(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("list matches failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list matches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
