package restapi

import (
	"errors"
	"net/http"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIResponse определяет структуру ответа JSON API.
type APIResponse struct {
	Data          interface{} `json:"data,omitempty"`
	StatusMessage string      `json:"status_message"`
}

// AccessResponse is the answer of the sell allow-list check.
type AccessResponse struct {
	Address    string `json:"address"`
	Authorized bool   `json:"authorized"`
}

// APIHandler обрабатывает JSON запросы /api/v1.
type APIHandler struct {
	pages        port.PageProvider
	isAuthorized func(address string) bool
	logger       *zap.Logger
}

// NewAPIHandler создает новый экземпляр APIHandler.
func NewAPIHandler(pages port.PageProvider, isAuthorized func(address string) bool, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		pages:        pages,
		isAuthorized: isAuthorized,
		logger:       logger.Named("APIHandler"),
	}
}

// ListTokensHandler returns the collection.
func (h *APIHandler) ListTokensHandler(c *gin.Context) {
	tokens, err := h.pages.CollectionTokens(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list tokens", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIResponse{StatusMessage: "Failed to load the collection."})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: tokens, StatusMessage: "Tokens retrieved successfully."})
}

// GetTokenHandler returns the data behind one token page.
func (h *APIHandler) GetTokenHandler(c *gin.Context) {
	page, err := h.pages.TokenPage(c.Request.Context(), c.Param("tokenId"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, APIResponse{Data: page, StatusMessage: "Token retrieved successfully."})
	case errors.Is(err, entity.ErrInvalidTokenID):
		c.JSON(http.StatusBadRequest, APIResponse{StatusMessage: "Token id must be an unsigned decimal integer."})
	case errors.Is(err, entity.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, APIResponse{StatusMessage: "Token not found."})
	default:
		h.logger.Error("Failed to load token", zap.String("tokenId", c.Param("tokenId")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIResponse{StatusMessage: "Failed to load the token."})
	}
}

// CheckAccessHandler reports whether a wallet may use the sell flow.
func (h *APIHandler) CheckAccessHandler(c *gin.Context) {
	address := c.Param("walletAddress")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, APIResponse{StatusMessage: "Wallet address is not a valid address."})
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Data:          AccessResponse{Address: address, Authorized: h.isAuthorized(address)},
		StatusMessage: "Access checked.",
	})
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
