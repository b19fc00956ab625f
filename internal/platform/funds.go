package platform

import (
	"context"
	"fmt"
	"io"
)

// FundStatistics fetches aggregated donation/disbursement totals for the
// trailing window of days.
func (c *Client) FundStatistics(ctx context.Context, days int) (*FundStatistics, error) {
	var stats FundStatistics
	if err := c.doJSON(ctx, "fund statistics", "GET", fmt.Sprintf("/admin/fund-tracking/statistics?days=%d", days), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FundTransactions fetches individual transactions for the trailing window.
func (c *Client) FundTransactions(ctx context.Context, days int) ([]Transaction, error) {
	var payload struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := c.doJSON(ctx, "fund transactions", "GET", fmt.Sprintf("/admin/fund-tracking/transactions?days=%d", days), nil, &payload); err != nil {
		return nil, err
	}
	if payload.Transactions == nil {
		return []Transaction{}, nil
	}
	return payload.Transactions, nil
}

// FundChartData fetches the bucketed donations-vs-disbursements trend.
func (c *Client) FundChartData(ctx context.Context, days int) ([]ChartDataPoint, error) {
	var payload struct {
		ChartData []ChartDataPoint `json:"chart_data"`
	}
	if err := c.doJSON(ctx, "fund chart data", "GET", fmt.Sprintf("/admin/fund-tracking/chart-data?days=%d", days), nil, &payload); err != nil {
		return nil, err
	}
	if payload.ChartData == nil {
		return []ChartDataPoint{}, nil
	}
	return payload.ChartData, nil
}

// ExportFundCSV streams the raw CSV export for the trailing window. The
// caller owns the returned ReadCloser.
func (c *Client) ExportFundCSV(ctx context.Context, days int) (io.ReadCloser, error) {
	return c.doRaw(ctx, "export fund csv", fmt.Sprintf("/admin/fund-tracking/export?days=%d", days))
}
