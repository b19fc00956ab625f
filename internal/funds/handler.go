package funds

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"givehope/admin-portal/admin-gateway/internal/funds/export"
)

// Handler handles HTTP requests for the fund-tracking dashboard
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new fund-tracking handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers fund-tracking routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	fund := router.Group("/fund-tracking")
	{
		fund.GET("/statistics", h.statistics)
		fund.GET("/transactions", h.transactions)
		fund.GET("/chart-data", h.chartData)
		fund.GET("/export", h.export)
	}
}

func (h *Handler) statistics(c *gin.Context) {
	overview, stale, ok := h.overview(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"statistics": overview.Statistics,
		"pie_data":   PieData(overview.Statistics),
		"stale":      stale,
	})
}

func (h *Handler) transactions(c *gin.Context) {
	overview, stale, ok := h.overview(c)
	if !ok {
		return
	}
	filtered := FilterTransactions(overview.Transactions, c.Query("search"), c.Query("type"))
	c.JSON(http.StatusOK, gin.H{
		"transactions": filtered,
		"stale":        stale,
	})
}

func (h *Handler) chartData(c *gin.Context) {
	overview, stale, ok := h.overview(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"chart_data": overview.ChartData,
		"stale":      stale,
	})
}

// export serves the period's data as a download. CSV is the upstream byte
// stream passed through untouched; xlsx and pdf are rendered here from the
// fetched overview.
func (h *Handler) export(c *gin.Context) {
	days := h.days(c)
	format := c.DefaultQuery("format", "csv")

	switch format {
	case "csv":
		body, err := h.service.ExportCSV(c.Request.Context(), days)
		if err != nil {
			h.logger.Error("csv export failed", zap.Int("days", days), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to export data"})
			return
		}
		defer body.Close()

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(time.Now(), "csv")))
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, body); err != nil {
			h.logger.Error("csv export stream interrupted", zap.Error(err))
		}

	case "xlsx":
		overview, err := h.service.Overview(c.Request.Context(), days)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to export data"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(time.Now(), "xlsx")))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		exporter := export.NewExcelExporter(export.DefaultExcelOptions())
		if err := exporter.Export(c.Writer, exportReport(overview)); err != nil {
			h.logger.Error("xlsx export failed", zap.Error(err))
		}

	case "pdf":
		overview, err := h.service.Overview(c.Request.Context(), days)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to export data"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(time.Now(), "pdf")))
		c.Header("Content-Type", "application/pdf")
		c.Status(http.StatusOK)
		generator := export.NewPDFGenerator(export.DefaultPDFOptions())
		if err := generator.Generate(c.Writer, exportReport(overview)); err != nil {
			h.logger.Error("pdf export failed", zap.Error(err))
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format"})
	}
}

// overview fetches fresh data, falling back to the cached copy when upstream
// is unavailable. A false return means the response has been written.
func (h *Handler) overview(c *gin.Context) (*Overview, bool, bool) {
	days := h.days(c)
	overview, err := h.service.Overview(c.Request.Context(), days)
	if err == nil {
		return overview, false, true
	}
	if cached, ok := h.service.Cached(days); ok {
		return cached, true, true
	}
	c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to load fund tracking data"})
	return nil, false, false
}

func exportReport(overview *Overview) *export.Report {
	return &export.Report{
		Days:         overview.Days,
		Statistics:   overview.Statistics,
		Transactions: overview.Transactions,
		GeneratedAt:  overview.FetchedAt,
	}
}

func (h *Handler) days(c *gin.Context) int {
	days, err := strconv.Atoi(c.Query("days"))
	if err != nil || days <= 0 {
		return DefaultDays
	}
	return days
}
