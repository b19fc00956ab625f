package funds

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"givehope/admin-portal/admin-gateway/internal/platform"
)

type MockFundAPI struct {
	mock.Mock
}

func (m *MockFundAPI) FundStatistics(ctx context.Context, days int) (*platform.FundStatistics, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.FundStatistics), args.Error(1)
}

func (m *MockFundAPI) FundTransactions(ctx context.Context, days int) ([]platform.Transaction, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Transaction), args.Error(1)
}

func (m *MockFundAPI) FundChartData(ctx context.Context, days int) ([]platform.ChartDataPoint, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.ChartDataPoint), args.Error(1)
}

func (m *MockFundAPI) ExportFundCSV(ctx context.Context, days int) (io.ReadCloser, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func sampleStats() *platform.FundStatistics {
	return &platform.FundStatistics{
		TotalDonations:     1500,
		TotalDisbursements: 400,
		NetFlow:            1100,
		TransactionCount:   7,
	}
}

func TestOverviewCachesSuccessfulFetch(t *testing.T) {
	api := new(MockFundAPI)
	service := NewService(api, zap.NewNop())

	api.On("FundStatistics", mock.Anything, 30).Return(sampleStats(), nil)
	api.On("FundTransactions", mock.Anything, 30).Return([]platform.Transaction{{ID: 1}}, nil)
	api.On("FundChartData", mock.Anything, 30).Return([]platform.ChartDataPoint{{Name: "Week 1"}}, nil)

	overview, err := service.Overview(context.Background(), 30)
	assert.NoError(t, err)
	assert.Equal(t, 30, overview.Days)
	assert.Equal(t, 1500.0, overview.Statistics.TotalDonations)
	assert.Len(t, overview.Transactions, 1)
	assert.False(t, overview.FetchedAt.IsZero())

	cached, ok := service.Cached(30)
	assert.True(t, ok)
	assert.Equal(t, overview, cached)
}

func TestOverviewFailureKeepsCachedCopy(t *testing.T) {
	api := new(MockFundAPI)
	service := NewService(api, zap.NewNop())

	api.On("FundStatistics", mock.Anything, 30).Return(sampleStats(), nil).Once()
	api.On("FundTransactions", mock.Anything, 30).Return([]platform.Transaction{{ID: 1}}, nil).Once()
	api.On("FundChartData", mock.Anything, 30).Return([]platform.ChartDataPoint{}, nil).Once()

	first, err := service.Overview(context.Background(), 30)
	assert.NoError(t, err)

	api.On("FundStatistics", mock.Anything, 30).Return(nil, errors.New("upstream down"))

	_, err = service.Overview(context.Background(), 30)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load fund tracking data")

	cached, ok := service.Cached(30)
	assert.True(t, ok)
	assert.Equal(t, first, cached)
}

func TestOverviewNormalizesInvalidWindow(t *testing.T) {
	api := new(MockFundAPI)
	service := NewService(api, zap.NewNop())

	api.On("FundStatistics", mock.Anything, DefaultDays).Return(sampleStats(), nil)
	api.On("FundTransactions", mock.Anything, DefaultDays).Return([]platform.Transaction{}, nil)
	api.On("FundChartData", mock.Anything, DefaultDays).Return([]platform.ChartDataPoint{}, nil)

	overview, err := service.Overview(context.Background(), -5)
	assert.NoError(t, err)
	assert.Equal(t, DefaultDays, overview.Days)
}

func TestFilterTransactions(t *testing.T) {
	txs := []platform.Transaction{
		{ID: 1, Type: platform.TypeDonation, CharityName: "Hope Foundation", DonorName: "Alice"},
		{ID: 2, Type: platform.TypeDisbursement, CharityName: "Hope Foundation", CampaignName: "School Build"},
		{ID: 3, Type: platform.TypeDonation, CharityName: "River Trust", DonorName: "Bob"},
	}

	assert.Len(t, FilterTransactions(txs, "", "all"), 3)
	assert.Len(t, FilterTransactions(txs, "", "donation"), 2)

	byCharity := FilterTransactions(txs, "hope", "")
	assert.Len(t, byCharity, 2)

	byCampaign := FilterTransactions(txs, "school", "")
	assert.Len(t, byCampaign, 1)
	assert.Equal(t, int64(2), byCampaign[0].ID)

	byDonor := FilterTransactions(txs, "BOB", "")
	assert.Len(t, byDonor, 1)
	assert.Equal(t, int64(3), byDonor[0].ID)

	combined := FilterTransactions(txs, "hope", "disbursement")
	assert.Len(t, combined, 1)
	assert.Equal(t, int64(2), combined[0].ID)

	assert.Empty(t, FilterTransactions(txs, "nomatch", ""))
}

func TestPieData(t *testing.T) {
	slices := PieData(platform.FundStatistics{TotalDonations: 900, TotalDisbursements: 300})

	assert.Len(t, slices, 2)
	assert.Equal(t, "Donations", slices[0].Name)
	assert.Equal(t, 900.0, slices[0].Value)
	assert.Equal(t, "#10b981", slices[0].Color)
	assert.Equal(t, "Disbursements", slices[1].Name)
	assert.Equal(t, 300.0, slices[1].Value)
	assert.Equal(t, "#ef4444", slices[1].Color)
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "fund_tracking_2026-09-01.csv", ExportFilename(now, "csv"))
	assert.Equal(t, "fund_tracking_2026-09-01.pdf", ExportFilename(now, "pdf"))
}
