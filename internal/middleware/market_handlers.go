package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetMarketQuote devuelve la cotización de un ticker, o un objeto vacío si no hay datos
func (h *Handler) GetMarketQuote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	quote, ok := h.ledger.Quote(c.Request.Context(), symbol)
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, quote)
}
