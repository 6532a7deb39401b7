package middleware

import (
	"net/http"
	"time"

	"github.com/AgusMolinaCode/crypto-ledger/internal/logger"
	"github.com/AgusMolinaCode/crypto-ledger/internal/services"
	"github.com/gin-gonic/gin"
)

// DashboardTemplate es el nombre de la plantilla de la página principal
const DashboardTemplate = "dashboard.html"

var errorMessages = map[string]string{
	services.ErrCodeMissingFields: "Completá el ticker, el precio de compra y la cantidad.",
	services.ErrCodeInvalidValues: "El precio y la cantidad deben ser números mayores a cero.",
	ErrCodeVerificationFailed:     "No se pudo actualizar la verificación de la transacción.",
}

// GetDashboard renderiza la página principal
func (h *Handler) GetDashboard(c *gin.Context) {
	dashboard, err := h.ledger.Dashboard(c.Request.Context())
	if err != nil {
		logger.L.Error("Error al armar el dashboard", "error", err)
		c.String(http.StatusInternalServerError, "Error al obtener las transacciones")
		return
	}

	c.HTML(http.StatusOK, DashboardTemplate, gin.H{
		"summary":       dashboard.Summary,
		"breakdown":     dashboard.Breakdown,
		"transactions":  dashboard.Transactions,
		"marketData":    dashboard.Snapshot.Quotes,
		"globalMetrics": dashboard.Snapshot.Global,
		"lastUpdated":   dashboard.Snapshot.UpdatedAt,
		"errorMessage":  errorMessages[c.Query("error")],
	})
}

// GetPortfolio devuelve resumen, detalle y datos de mercado en JSON
func (h *Handler) GetPortfolio(c *gin.Context) {
	resp, err := h.ledger.Portfolio(c.Request.Context())
	if err != nil {
		logger.L.Error("Error al calcular el portafolio", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al calcular el portafolio"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAssetStats devuelve las estadísticas por ticker
func (h *Handler) GetAssetStats(c *gin.Context) {
	stats, err := h.ledger.AssetStats(c.Request.Context())
	if err != nil {
		logger.L.Error("Error al calcular estadísticas", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al calcular las estadísticas"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health informa el almacenamiento en uso y la última actualización del mercado
func (h *Handler) Health(c *gin.Context) {
	resp := gin.H{
		"status":  "ok",
		"storage": h.driver,
	}
	if last := h.ledger.Snapshot().UpdatedAt; !last.IsZero() {
		resp["marketUpdatedAt"] = last.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}
