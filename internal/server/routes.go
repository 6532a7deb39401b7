package routes

import (
	"embed"
	"html/template"
	"time"

	"github.com/AgusMolinaCode/crypto-ledger/internal/middleware"
	"github.com/AgusMolinaCode/crypto-ledger/internal/portfolio"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// TemplateFuncs son las funciones disponibles en las plantillas
var TemplateFuncs = template.FuncMap{
	"usd": portfolio.FormatUSD,
	"pct": portfolio.FormatPercent,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04")
	},
}

// LoadTemplates parsea las plantillas embebidas
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(TemplateFuncs).ParseFS(templatesFS, "templates/*.html")
}

// RegisterRoutes configura las rutas de la aplicación
func RegisterRoutes(router *gin.Engine, h *middleware.Handler) error {
	tmpl, err := LoadTemplates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	router.GET("/", h.GetDashboard)
	router.GET("/health", h.Health)

	router.POST("/add-transaction", h.AddTransaction)
	router.POST("/verify-transaction/:id", h.VerifyTransaction)
	router.DELETE("/delete-transaction/:id", h.DeleteTransaction)

	api := router.Group("/api")
	{
		api.GET("/portfolio", h.GetPortfolio)
		api.GET("/market/:symbol", h.GetMarketQuote)
		api.GET("/assets", h.GetAssetStats)
		api.GET("/transactions", h.GetTransactions)
	}

	return nil
}
