package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"givehope/admin-portal/admin-gateway/internal/notifications"
	"givehope/admin-portal/admin-gateway/internal/platform"
)

// MockAPI is a mock implementation of the PlatformAPI interface
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListCharities(ctx context.Context, page int, status platform.VerificationStatus) ([]platform.Charity, error) {
	args := m.Called(ctx, page, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Charity), args.Error(1)
}

func (m *MockAPI) GetCharity(ctx context.Context, id int64) (*platform.Charity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Charity), args.Error(1)
}

func (m *MockAPI) GetOfficers(ctx context.Context, id int64) ([]platform.Officer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Officer), args.Error(1)
}

func (m *MockAPI) ApproveCharity(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPI) RejectCharity(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockAPI) ApproveDocument(ctx context.Context, id int64) (*platform.ApproveDocumentResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.ApproveDocumentResult), args.Error(1)
}

func (m *MockAPI) RejectDocument(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

// recordingNotifier captures toasts for assertions.
type recordingNotifier struct {
	entries []notifications.Notification
}

func (r *recordingNotifier) push(level notifications.Level, msg string, d time.Duration) notifications.Notification {
	n := notifications.Notification{Level: level, Message: msg, Duration: d}
	r.entries = append(r.entries, n)
	return n
}

func (r *recordingNotifier) Success(msg string) notifications.Notification {
	return r.push(notifications.LevelSuccess, msg, notifications.DefaultDuration)
}

func (r *recordingNotifier) SuccessFor(msg string, d time.Duration) notifications.Notification {
	return r.push(notifications.LevelSuccess, msg, d)
}

func (r *recordingNotifier) Error(msg string) notifications.Notification {
	return r.push(notifications.LevelError, msg, notifications.DefaultDuration)
}

func (r *recordingNotifier) Info(msg string) notifications.Notification {
	return r.push(notifications.LevelInfo, msg, notifications.DefaultDuration)
}

func (r *recordingNotifier) levels() []notifications.Level {
	out := make([]notifications.Level, len(r.entries))
	for i, n := range r.entries {
		out[i] = n.Level
	}
	return out
}

func newTestController(api PlatformAPI) (*Controller, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return NewController(api, notifier, zap.NewNop()), notifier
}

func pendingCharity(id int64, docs ...platform.Document) *platform.Charity {
	return &platform.Charity{
		ID:                 id,
		Name:               "Hope Foundation",
		ContactEmail:       "contact@hope.org",
		RegNo:              "SEC-2024-001",
		VerificationStatus: platform.StatusPending,
		Documents:          docs,
	}
}

func doc(id int64, status platform.VerificationStatus) platform.Document {
	return platform.Document{ID: id, DocumentType: "Registration Certificate", VerificationStatus: status}
}

func openReview(t *testing.T, c *Controller, api *MockAPI, charity *platform.Charity) {
	t.Helper()
	api.On("GetCharity", mock.Anything, charity.ID).Return(charity, nil).Once()
	api.On("GetOfficers", mock.Anything, charity.ID).Return([]platform.Officer{}, nil).Once()
	require.NoError(t, c.OpenCharityReview(context.Background(), charity.ID))
}

func TestRejectCharityBlankReasonNeverHitsTheWire(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)
	openReview(t, c, api, pendingCharity(1))

	for _, reason := range []string{"", "   ", "\t\n"} {
		err := c.RejectCharity(context.Background(), 1, reason)
		require.ErrorIs(t, err, ErrValidation)
	}

	api.AssertNotCalled(t, "RejectCharity", mock.Anything, mock.Anything, mock.Anything)
	for _, n := range notifier.entries {
		assert.Equal(t, notifications.LevelError, n.Level)
		assert.Equal(t, "Please provide a rejection reason", n.Message)
	}
}

func TestRejectDocumentBlankReasonNeverHitsTheWire(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)
	openReview(t, c, api, pendingCharity(1, doc(10, platform.StatusPending)))

	err := c.RejectDocument(context.Background(), 10, "  ")
	require.ErrorIs(t, err, ErrValidation)

	api.AssertNotCalled(t, "RejectDocument", mock.Anything, mock.Anything, mock.Anything)
	require.Len(t, notifier.entries, 1)
	assert.Equal(t, notifications.LevelError, notifier.entries[0].Level)
}

func TestApproveDocumentCascadeEmitsTwoNotificationsAndRefetchesOnce(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)

	before := pendingCharity(1,
		doc(10, platform.StatusApproved),
		doc(11, platform.StatusApproved),
		doc(12, platform.StatusPending))
	openReview(t, c, api, before)

	after := pendingCharity(1,
		doc(10, platform.StatusApproved),
		doc(11, platform.StatusApproved),
		doc(12, platform.StatusApproved))
	after.VerificationStatus = platform.StatusApproved

	api.On("ApproveDocument", mock.Anything, int64(12)).
		Return(&platform.ApproveDocumentResult{CharityAutoApproved: true}, nil).Once()
	api.On("GetCharity", mock.Anything, int64(1)).Return(after, nil).Once()

	require.NoError(t, c.ApproveDocument(context.Background(), 12))

	require.Len(t, notifier.entries, 2)
	assert.Equal(t, "Document approved successfully", notifier.entries[0].Message)
	assert.Contains(t, notifier.entries[1].Message, "automatically activated and approved")
	assert.Greater(t, notifier.entries[1].Duration, notifier.entries[0].Duration)

	state := c.Snapshot()
	assert.Equal(t, platform.StatusApproved, state.SelectedCharity.VerificationStatus)
	progress := c.SelectedProgress()
	assert.True(t, progress.AllApproved)
	assert.Equal(t, 3, progress.Approved)

	api.AssertNumberOfCalls(t, "GetCharity", 2) // open + post-decision refresh
	api.AssertExpectations(t)
}

func TestApproveDocumentWithoutCascadeEmitsSingleSuccess(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)

	before := pendingCharity(1, doc(10, platform.StatusPending), doc(11, platform.StatusPending))
	openReview(t, c, api, before)

	after := pendingCharity(1, doc(10, platform.StatusApproved), doc(11, platform.StatusPending))
	api.On("ApproveDocument", mock.Anything, int64(10)).
		Return(&platform.ApproveDocumentResult{}, nil).Once()
	api.On("GetCharity", mock.Anything, int64(1)).Return(after, nil).Once()

	require.NoError(t, c.ApproveDocument(context.Background(), 10))

	assert.Equal(t, []notifications.Level{notifications.LevelSuccess}, notifier.levels())
	assert.False(t, c.SelectedProgress().AllApproved)
}

func TestApproveDocumentRefusesTerminalDocument(t *testing.T) {
	api := new(MockAPI)
	c, _ := newTestController(api)
	openReview(t, c, api, pendingCharity(1, doc(10, platform.StatusApproved)))

	err := c.ApproveDocument(context.Background(), 10)
	require.ErrorIs(t, err, ErrValidation)
	api.AssertNotCalled(t, "ApproveDocument", mock.Anything, mock.Anything)
}

func TestRejectDocumentSendsExactReasonAndResetsField(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)

	before := pendingCharity(1, doc(10, platform.StatusPending))
	openReview(t, c, api, before)
	require.NoError(t, c.OpenDocumentRejectDialog(10))

	after := pendingCharity(1, platform.Document{
		ID:                 10,
		DocumentType:       "Registration Certificate",
		VerificationStatus: platform.StatusRejected,
		RejectionReason:    "Illegible scan",
	})
	api.On("RejectDocument", mock.Anything, int64(10), "Illegible scan").Return(nil).Once()
	api.On("GetCharity", mock.Anything, int64(1)).Return(after, nil).Once()

	require.NoError(t, c.RejectDocument(context.Background(), 10, "Illegible scan"))

	state := c.Snapshot()
	assert.False(t, state.DocRejectOpen)
	assert.Empty(t, state.DocRejectReason)
	assert.Equal(t, platform.StatusRejected, state.SelectedDocument.VerificationStatus)
	assert.Equal(t, "Illegible scan", state.SelectedDocument.RejectionReason)
	assert.Equal(t, "Document rejected", notifier.entries[0].Message)
	api.AssertExpectations(t)
}

func TestApproveCharityClosesDialogAndRefreshesList(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)
	openReview(t, c, api, pendingCharity(1))

	api.On("ApproveCharity", mock.Anything, int64(1)).Return(nil).Once()
	api.On("ListCharities", mock.Anything, 1, platform.VerificationStatus("")).
		Return([]platform.Charity{}, nil).Once()

	require.NoError(t, c.ApproveCharity(context.Background(), 1))

	assert.False(t, c.Snapshot().DetailOpen)
	assert.Equal(t, "Charity approved successfully", notifier.entries[0].Message)
	api.AssertExpectations(t)
}

func TestApproveCharityRefusesNonPending(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)

	approved := pendingCharity(1)
	approved.VerificationStatus = platform.StatusApproved
	openReview(t, c, api, approved)

	err := c.ApproveCharity(context.Background(), 1)
	require.ErrorIs(t, err, ErrValidation)
	api.AssertNotCalled(t, "ApproveCharity", mock.Anything, mock.Anything)
	assert.Equal(t, notifications.LevelError, notifier.entries[0].Level)
}

func TestFailedMutationLeavesStateUntouched(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)
	openReview(t, c, api, pendingCharity(1, doc(10, platform.StatusPending)))
	before := c.Snapshot()

	api.On("ApproveDocument", mock.Anything, int64(10)).
		Return(nil, &platform.APIError{StatusCode: 500, Op: "approve document"}).Once()

	err := c.ApproveDocument(context.Background(), 10)
	require.Error(t, err)

	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, notifications.LevelError, notifier.entries[0].Level)
	assert.Equal(t, "Failed to approve document", notifier.entries[0].Message)
}

func TestFailureSurfacesServerMessageVerbatim(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)
	openReview(t, c, api, pendingCharity(1))

	api.On("ApproveCharity", mock.Anything, int64(1)).
		Return(&platform.APIError{StatusCode: 409, Message: "charity already reviewed by another admin"}).Once()

	err := c.ApproveCharity(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, "charity already reviewed by another admin", notifier.entries[0].Message)
}

func TestInflightGuardRefusesDoubleSubmit(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)
	openReview(t, c, api, pendingCharity(1, doc(10, platform.StatusPending)))

	release := make(chan struct{})
	done := make(chan struct{})
	api.On("ApproveDocument", mock.Anything, int64(10)).
		Run(func(args mock.Arguments) { <-release }).
		Return(&platform.ApproveDocumentResult{}, nil).Once()
	api.On("GetCharity", mock.Anything, int64(1)).
		Return(pendingCharity(1, doc(10, platform.StatusApproved)), nil).Once()

	go func() {
		defer close(done)
		_ = c.ApproveDocument(context.Background(), 10)
	}()

	// Wait for the first request to be in flight.
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.inflight["document:10"]
	}, time.Second, time.Millisecond)

	err := c.ApproveDocument(context.Background(), 10)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, notifications.LevelError, notifier.entries[0].Level)

	close(release)
	<-done
	api.AssertNumberOfCalls(t, "ApproveDocument", 1)
}

func TestOpenCharityReviewFailsSoft(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)
	before := c.Snapshot()

	api.On("GetCharity", mock.Anything, int64(1)).
		Return(nil, &platform.APIError{StatusCode: 404, Op: "get charity"}).Once()

	err := c.OpenCharityReview(context.Background(), 1)
	require.Error(t, err)

	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, "Failed to load charity details", notifier.entries[0].Message)
}

func TestCloseReviewDiscardsDetailCache(t *testing.T) {
	api := new(MockAPI)
	c, _ := newTestController(api)
	openReview(t, c, api, pendingCharity(1, doc(10, platform.StatusPending)))
	require.NoError(t, c.ViewDocument(10))

	c.CloseReview()

	state := c.Snapshot()
	assert.False(t, state.DetailOpen)
	assert.False(t, state.DocViewOpen)
	assert.Nil(t, state.SelectedCharity)
	assert.Nil(t, state.SelectedDocument)
}

func TestFilteredCharitiesSearchesNameEmailAndRegNo(t *testing.T) {
	api := new(MockAPI)
	c, _ := newTestController(api)

	api.On("ListCharities", mock.Anything, 1, platform.VerificationStatus("")).
		Return([]platform.Charity{
			{ID: 1, Name: "Hope Foundation", ContactEmail: "contact@hope.org", RegNo: "SEC-001"},
			{ID: 2, Name: "Bayanihan Relief", ContactEmail: "hello@bayanihan.ph", RegNo: "SEC-002"},
		}, nil).Once()
	require.NoError(t, c.RefreshCharities(context.Background()))

	c.SetSearchTerm("bayanihan")
	filtered := c.FilteredCharities()
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].ID)

	c.SetSearchTerm("sec-001")
	filtered = c.FilteredCharities()
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(1), filtered[0].ID)

	c.SetSearchTerm("")
	assert.Len(t, c.FilteredCharities(), 2)
}

func TestRequestInfoRequiresLoadedCharity(t *testing.T) {
	api := new(MockAPI)
	c, notifier := newTestController(api)

	err := c.RequestInfo(99)
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, notifier.entries)

	openReview(t, c, api, pendingCharity(1))
	require.NoError(t, c.RequestInfo(1))

	require.Len(t, notifier.entries, 1)
	assert.Equal(t, notifications.LevelInfo, notifier.entries[0].Level)
	assert.Equal(t, "Information request sent to charity", notifier.entries[0].Message)
	assert.False(t, c.Snapshot().DetailOpen)
}

func TestCancelRejectClearsReason(t *testing.T) {
	api := new(MockAPI)
	c, _ := newTestController(api)
	openReview(t, c, api, pendingCharity(1))

	require.NoError(t, c.OpenRejectDialog(1))
	_ = c.RejectCharity(context.Background(), 1, "") // leaves reason empty, dialog open
	c.CancelReject()

	state := c.Snapshot()
	assert.False(t, state.RejectOpen)
	assert.Empty(t, state.RejectReason)
}
