package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/AgusMolinaCode/crypto-ledger/internal/logger"
	"github.com/AgusMolinaCode/crypto-ledger/internal/models"
	"github.com/AgusMolinaCode/crypto-ledger/internal/services"
	"github.com/gin-gonic/gin"
)

// ErrCodeVerificationFailed se usa cuando falla el almacenamiento al verificar
const ErrCodeVerificationFailed = "verification-failed"

const defaultHistoryLimit = 50

func redirectWithError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, "/?error="+url.QueryEscape(code))
}

// AddTransaction procesa el formulario de alta y vuelve al dashboard
func (h *Handler) AddTransaction(c *gin.Context) {
	var form models.TransactionForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithError(c, services.ErrCodeMissingFields)
		return
	}

	_, err := h.ledger.AddTransaction(c.Request.Context(), form)
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		logger.L.Debug("Formulario de transacción rechazado", "code", verr.Code, "field", verr.Field)
		redirectWithError(c, verr.Code)
		return
	}
	if err != nil {
		logger.L.Error("Error al crear la transacción", "error", err)
		c.String(http.StatusInternalServerError, "Error al crear la transacción")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// VerifyTransaction invierte la marca de verificado y vuelve al dashboard
func (h *Handler) VerifyTransaction(c *gin.Context) {
	if err := h.ledger.ToggleVerified(c.Request.Context(), c.Param("id")); err != nil {
		logger.L.Error("Error al verificar la transacción", "id", c.Param("id"), "error", err)
		redirectWithError(c, ErrCodeVerificationFailed)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// DeleteTransaction elimina la transacción; un id inexistente también es éxito
func (h *Handler) DeleteTransaction(c *gin.Context) {
	if err := h.ledger.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		logger.L.Error("Error al eliminar la transacción", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar la transacción"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetTransactions devuelve el historial paginado, de la más nueva a la más antigua
func (h *Handler) GetTransactions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit inválido"})
		return
	}
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip inválido"})
		return
	}

	transactions, err := h.ledger.History(c.Request.Context(), limit, skip)
	if err != nil {
		logger.L.Error("Error al obtener las transacciones", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener las transacciones"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "limit": limit, "skip": skip})
}
