package restapi

import (
	"errors"
	"net/http"

	"nft_marketplace/internal/app/port"
	"nft_marketplace/internal/domain/entity"
	"nft_marketplace/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const homePath = "/"

// PageHandler обрабатывает HTML страницы маркетплейса.
type PageHandler struct {
	pages             port.PageProvider
	collectionAddress string
	claimEmbedURL     string
	claimHeight       string
	logger            *zap.Logger
}

// NewPageHandler создает новый экземпляр PageHandler.
func NewPageHandler(pages port.PageProvider, collectionAddress, claimEmbedURL, claimHeight string, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		pages:             pages,
		collectionAddress: collectionAddress,
		claimEmbedURL:     claimEmbedURL,
		claimHeight:       claimHeight,
		logger:            logger.Named("PageHandler"),
	}
}

// TokenPageHandler renders /token/:contractAddress/:tokenId.
func (h *PageHandler) TokenPageHandler(c *gin.Context) {
	if !utils.SameAddress(c.Param("contractAddress"), h.collectionAddress) {
		h.renderError(c, http.StatusNotFound, "This token does not exist.")
		return
	}

	page, err := h.pages.TokenPage(c.Request.Context(), c.Param("tokenId"))
	if err != nil {
		if errors.Is(err, entity.ErrInvalidTokenID) || errors.Is(err, entity.ErrTokenNotFound) {
			h.renderError(c, http.StatusNotFound, "This token does not exist.")
			return
		}
		h.logger.Error("Failed to render token page", zap.String("path", c.Request.URL.Path), zap.Error(err))
		_ = c.Error(err)
		h.renderError(c, http.StatusInternalServerError, "The page could not be generated.")
		return
	}

	c.HTML(http.StatusOK, "token.html", page)
}

// HomeHandler renders the collection grid.
func (h *PageHandler) HomeHandler(c *gin.Context) {
	tokens, err := h.pages.CollectionTokens(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to render home page", zap.Error(err))
		_ = c.Error(err)
		h.renderError(c, http.StatusInternalServerError, "The collection could not be loaded.")
		return
	}
	c.HTML(http.StatusOK, "home.html", gin.H{
		"ContractAddress": h.collectionAddress,
		"Tokens":          tokens,
	})
}

// BuyHandler sends the visitor to the home page once, replacing the current history entry.
func (h *PageHandler) BuyHandler(c *gin.Context) {
	page := entity.NewRedirectPage(homePath)
	target, ok := page.Activate()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.Header("Location", target)
	c.Status(http.StatusTemporaryRedirect)
}

// ClaimHandler renders the page embedding the claim widget.
func (h *PageHandler) ClaimHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "claim.html", gin.H{
		"EmbedURL": h.claimEmbedURL,
		"Height":   h.claimHeight,
	})
}

// NotFoundHandler renders the 404 page for unknown routes.
func (h *PageHandler) NotFoundHandler(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "This page does not exist.")
}

func (h *PageHandler) renderError(c *gin.Context, status int, title string) {
	c.HTML(status, "error.html", gin.H{
		"Status": status,
		"Title":  title,
	})
}
