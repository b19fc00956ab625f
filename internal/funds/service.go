package funds

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"givehope/admin-portal/admin-gateway/internal/platform"
)

// DefaultDays is the trailing window the dashboard opens with.
const DefaultDays = 30

// API is the slice of the upstream client the fund-tracking view needs.
type API interface {
	FundStatistics(ctx context.Context, days int) (*platform.FundStatistics, error)
	FundTransactions(ctx context.Context, days int) ([]platform.Transaction, error)
	FundChartData(ctx context.Context, days int) ([]platform.ChartDataPoint, error)
	ExportFundCSV(ctx context.Context, days int) (io.ReadCloser, error)
}

// Overview is everything the fund-tracking dashboard renders for one
// trailing window.
type Overview struct {
	Days         int                       `json:"days"`
	Statistics   platform.FundStatistics   `json:"statistics"`
	Transactions []platform.Transaction    `json:"transactions"`
	ChartData    []platform.ChartDataPoint `json:"chart_data"`
	FetchedAt    time.Time                 `json:"fetched_at"`
}

// PieSlice is one wedge of the fund-distribution breakdown.
type PieSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Service assembles the fund-tracking view from the upstream API. Successful
// overviews are cached per window so the dashboard can serve stale data when
// upstream is briefly unavailable; the review workflow never reads this
// cache.
type Service struct {
	api    API
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[int]*Overview
}

// NewService creates a fund-tracking service.
func NewService(api API, logger *zap.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger,
		cache:  make(map[int]*Overview),
	}
}

// Overview fetches statistics, transactions and chart data for the trailing
// window. The three fetches stand alone; any failure fails the whole refresh
// and leaves the cached overview in place.
func (s *Service) Overview(ctx context.Context, days int) (*Overview, error) {
	if days <= 0 {
		days = DefaultDays
	}

	stats, err := s.api.FundStatistics(ctx, days)
	if err != nil {
		s.logger.Error("failed to fetch fund statistics", zap.Int("days", days), zap.Error(err))
		return nil, fmt.Errorf("failed to load fund tracking data: %w", err)
	}
	transactions, err := s.api.FundTransactions(ctx, days)
	if err != nil {
		s.logger.Error("failed to fetch fund transactions", zap.Int("days", days), zap.Error(err))
		return nil, fmt.Errorf("failed to load fund tracking data: %w", err)
	}
	chartData, err := s.api.FundChartData(ctx, days)
	if err != nil {
		s.logger.Error("failed to fetch fund chart data", zap.Int("days", days), zap.Error(err))
		return nil, fmt.Errorf("failed to load fund tracking data: %w", err)
	}

	overview := &Overview{
		Days:         days,
		Statistics:   *stats,
		Transactions: transactions,
		ChartData:    chartData,
		FetchedAt:    time.Now(),
	}

	s.mu.Lock()
	s.cache[days] = overview
	s.mu.Unlock()
	return overview, nil
}

// Cached returns the last successful overview for the window, if any.
func (s *Service) Cached(days int) (*Overview, bool) {
	if days <= 0 {
		days = DefaultDays
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	overview, ok := s.cache[days]
	return overview, ok
}

// ExportCSV streams the upstream CSV export.
func (s *Service) ExportCSV(ctx context.Context, days int) (io.ReadCloser, error) {
	if days <= 0 {
		days = DefaultDays
	}
	return s.api.ExportFundCSV(ctx, days)
}

// FilterTransactions applies the dashboard's client-side search and type
// filter. The search matches charity, campaign and donor names.
func FilterTransactions(transactions []platform.Transaction, search, typeFilter string) []platform.Transaction {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]platform.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if typeFilter != "" && typeFilter != "all" && string(tx.Type) != typeFilter {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.CharityName), search) &&
			!strings.Contains(strings.ToLower(tx.CampaignName), search) &&
			!strings.Contains(strings.ToLower(tx.DonorName), search) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// PieData derives the donations-vs-disbursements breakdown.
func PieData(stats platform.FundStatistics) []PieSlice {
	return []PieSlice{
		{Name: "Donations", Value: stats.TotalDonations, Color: "#10b981"},
		{Name: "Disbursements", Value: stats.TotalDisbursements, Color: "#ef4444"},
	}
}

// ExportFilename names a download after the date at call time, e.g.
// fund_tracking_2026-09-01.csv.
func ExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("fund_tracking_%s.%s", now.Format("2006-01-02"), extension)
}
