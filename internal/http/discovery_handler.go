package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomie-match/internal/domain"
	"roomie-match/internal/service"
)

// DiscoveryHandler expone el feed de candidatos compatibles.
type DiscoveryHandler struct {
	logger        *zap.Logger
	discoveryServ *service.DiscoveryService
}

func NewDiscoveryHandler(logger *zap.Logger, discoveryServ *service.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{
		logger:        logger,
		discoveryServ: discoveryServ,
	}
}

// Discover maneja GET /discovery.
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	uid, ok := viewerUID(c)
	if !ok {
		return
	}
	filters, err := parseDiscoveryFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.discoveryServ.Discover(c.Request.Context(), uid, filters)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "create a profile first"})
			return
		}
		h.logger.Error("discovery failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not run discovery"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseDiscoveryFilters(c *gin.Context) (domain.DiscoveryFilters, error) {
	var f domain.DiscoveryFilters
	var err error

	if f.Zone, err = enumQuery(c, "zone", domain.Zones); err != nil {
		return f, err
	}
	if f.Gender, err = enumQuery(c, "gender", domain.Genders); err != nil {
		return f, err
	}
	if f.SleepTime, err = enumQuery(c, "sleep_time", domain.SleepTimes); err != nil {
		return f, err
	}
	if f.CleanlinessLevel, err = enumQuery(c, "cleanliness_level", domain.CleanlinessLevels); err != nil {
		return f, err
	}
	if f.NoiseTolerance, err = enumQuery(c, "noise_tolerance", domain.NoiseTolerances); err != nil {
		return f, err
	}
	if f.GuestFrequency, err = enumQuery(c, "guest_frequency", domain.GuestFrequencies); err != nil {
		return f, err
	}
	if f.MinBudget, err = intQuery(c, "min_budget"); err != nil {
		return f, err
	}
	if f.MaxBudget, err = intQuery(c, "max_budget"); err != nil {
		return f, err
	}
	if f.MinBudget != nil && f.MaxBudget != nil && *f.MinBudget > *f.MaxBudget {
		return f, errors.New("min_budget exceeds max_budget")
	}
	if f.NoSmokingRequired, err = boolQuery(c, "no_smoking"); err != nil {
		return f, err
	}
	if f.NoAlcoholRequired, err = boolQuery(c, "no_alcohol"); err != nil {
		return f, err
	}
	return f, nil
}

func enumQuery[T ~string](c *gin.Context, name string, allowed []T) (*T, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	for _, v := range allowed {
		if strings.EqualFold(raw, string(v)) {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("invalid %s %q", name, raw)
}

func intQuery(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &n, nil
}

func boolQuery(c *gin.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", name, raw)
	}
	return b, nil
}
