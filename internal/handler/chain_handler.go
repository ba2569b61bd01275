package handler

import (
	"errors"
	"net/http"
	"strconv"

	"cadena-service/internal/chain"
	"cadena-service/internal/model"
	"cadena-service/internal/store"
	"cadena-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ChainHandler serves the /cadenas routes
type ChainHandler struct {
	service *chain.Service
}

// NewChainHandler creates a ChainHandler backed by the given service
func NewChainHandler(service *chain.Service) *ChainHandler {
	return &ChainHandler{service: service}
}

// Register mounts the chain routes on the group
func (h *ChainHandler) Register(g *echo.Group) {
	g.GET("", h.ListChains)
	g.GET("/:slug", h.GetChain)
	g.POST("", h.CreateChain)
	g.DELETE("/:slug", h.DisableChain)
}

// ListChains handles retrieving all chains with an optional activo filter
func (h *ChainHandler) ListChains(c echo.Context) error {
	log := logger.FromEcho(c)

	// Filter by active status if specified
	var filter model.ChainFilter
	if activo := c.QueryParam("activo"); activo != "" {
		active, err := strconv.ParseBool(activo)
		if err == nil {
			filter.Active = &active
			log.Info("Filtering chains by active status", zap.Bool("activo", active))
		} else {
			log.Warn("Invalid activo parameter", zap.String("value", activo), zap.Error(err))
		}
	}

	// Execute the query
	chains, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		log.Error("Failed to list chains", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve chains",
		})
	}

	log.Info("Chains retrieved successfully", zap.Int("count", len(chains)))
	return c.JSON(http.StatusOK, echo.Map{"cadenas": chains})
}

// GetChain handles retrieving a single chain by slug
func (h *ChainHandler) GetChain(c echo.Context) error {
	log := logger.FromEcho(c)
	slug := c.Param("slug")
	log.Info("Retrieving chain", zap.String("slug", slug))

	result, err := h.service.Get(c.Request().Context(), slug)
	if err != nil {
		return h.lookupError(c, log, slug, err)
	}

	return c.JSON(http.StatusOK, result)
}

// CreateChain handles creating a new chain from a JSON payload
func (h *ChainHandler) CreateChain(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Info("Creating new chain")

	// Bind into a raw map so presence checks see the payload as sent
	var raw map[string]interface{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil || raw == nil {
		log.Warn("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Request body must be a JSON object",
		})
	}

	created, err := h.service.Create(c.Request().Context(), raw)
	if err != nil {
		var verr *chain.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(validationStatus(verr.Kind), echo.Map{
				"error": verr.Error(),
			})
		}
		log.Error("Failed to create chain", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create chain",
		})
	}

	return c.JSON(http.StatusCreated, created)
}

// DisableChain handles the soft delete of a chain by slug
func (h *ChainHandler) DisableChain(c echo.Context) error {
	log := logger.FromEcho(c)
	slug := c.Param("slug")
	log.Info("Disabling chain", zap.String("slug", slug))

	result, err := h.service.Disable(c.Request().Context(), slug)
	if err != nil {
		return h.lookupError(c, log, slug, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *ChainHandler) lookupError(c echo.Context, log *zap.Logger, slug string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		log.Info("Chain not found", zap.String("slug", slug))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "there is no chain with slug '" + slug + "'",
		})
	}
	log.Error("Chain lookup failed", zap.String("slug", slug), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": "Failed to retrieve chain",
	})
}

// validationStatus maps a rejected payload to its response code. A missing
// participant key is a 400, every other payload problem is a 422.
func validationStatus(kind chain.Kind) int {
	if kind == chain.MissingParticipantField {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
