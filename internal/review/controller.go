package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"givehope/admin-portal/admin-gateway/internal/notifications"
	"givehope/admin-portal/admin-gateway/internal/platform"
	"givehope/admin-portal/admin-gateway/pkg/workflows"
)

// PlatformAPI is the slice of the upstream client the controller needs.
type PlatformAPI interface {
	ListCharities(ctx context.Context, page int, status platform.VerificationStatus) ([]platform.Charity, error)
	GetCharity(ctx context.Context, id int64) (*platform.Charity, error)
	GetOfficers(ctx context.Context, id int64) ([]platform.Officer, error)
	ApproveCharity(ctx context.Context, id int64) error
	RejectCharity(ctx context.Context, id int64, reason string) error
	ApproveDocument(ctx context.Context, id int64) (*platform.ApproveDocumentResult, error)
	RejectDocument(ctx context.Context, id int64, reason string) error
}

// Notifier receives the toasts the review screen shows.
type Notifier interface {
	Success(message string) notifications.Notification
	SuccessFor(message string, d time.Duration) notifications.Notification
	Error(message string) notifications.Notification
	Info(message string) notifications.Notification
}

// ErrValidation marks failures caught before any network call.
var ErrValidation = errors.New("validation failed")

// cascadeToastDuration keeps the auto-approval toast on screen longer than a
// plain acknowledgment so the two are distinguishable.
const cascadeToastDuration = 5 * time.Second

// Controller drives the charity verification review workflow for one admin
// session. All state it holds is a transient cache of upstream truth:
// every mutation is followed by a re-fetch, never an optimistic patch.
type Controller struct {
	mu       sync.Mutex
	state    ViewState
	api      PlatformAPI
	notifier Notifier
	logger   *zap.Logger
	sm       *workflows.StateMachine
	inflight map[string]bool
}

// NewController creates a review controller with empty state.
func NewController(api PlatformAPI, notifier Notifier, logger *zap.Logger) *Controller {
	return &Controller{
		state:    newViewState(),
		api:      api,
		notifier: notifier,
		logger:   logger,
		sm:       workflows.NewVerificationStateMachine(),
		inflight: make(map[string]bool),
	}
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SetSearchTerm updates the client-side search text.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SearchTerm = term
}

// SetStatusFilter updates the list status filter ("all" or a status).
func (c *Controller) SetStatusFilter(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if status == "" {
		status = "all"
	}
	c.state.StatusFilter = status
}

// SetPage updates the requested list page.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	c.state.Page = page
}

// RefreshCharities re-fetches the charity list with the current page and
// status filter. On failure the previous list is kept.
func (c *Controller) RefreshCharities(ctx context.Context) error {
	c.mu.Lock()
	page := c.state.Page
	status := platform.VerificationStatus("")
	if c.state.StatusFilter != "all" {
		status = platform.VerificationStatus(c.state.StatusFilter)
	}
	c.mu.Unlock()

	charities, err := c.api.ListCharities(ctx, page, status)
	if err != nil {
		c.logger.Error("failed to fetch charities", zap.Error(err))
		c.notifier.Error("Failed to load charities")
		return err
	}

	c.mu.Lock()
	c.state.Charities = charities
	c.mu.Unlock()
	return nil
}

// FilteredCharities applies the in-memory search over the loaded list.
func (c *Controller) FilteredCharities() []platform.Charity {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]platform.Charity, 0, len(c.state.Charities))
	for _, charity := range c.state.Charities {
		if matchesSearch(charity, c.state.SearchTerm) {
			out = append(out, charity)
		}
	}
	return out
}

// OpenCharityReview fetches full charity detail and the officer list, then
// opens the review dialog. If either fetch fails the prior state is left
// untouched and an error toast is shown.
func (c *Controller) OpenCharityReview(ctx context.Context, charityID int64) error {
	charity, err := c.api.GetCharity(ctx, charityID)
	if err != nil {
		c.logger.Error("failed to fetch charity detail",
			zap.Int64("charity_id", charityID), zap.Error(err))
		c.notifier.Error("Failed to load charity details")
		return err
	}

	officers, err := c.api.GetOfficers(ctx, charityID)
	if err != nil {
		c.logger.Error("failed to fetch charity officers",
			zap.Int64("charity_id", charityID), zap.Error(err))
		c.notifier.Error("Failed to load charity officers")
		return err
	}

	c.mu.Lock()
	c.state.SelectedCharity = charity
	c.state.Officers = officers
	c.state.SelectedDocument = nil
	c.state.DetailOpen = true
	c.mu.Unlock()
	return nil
}

// CloseReview closes the review dialog and discards the detail cache.
func (c *Controller) CloseReview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.DetailOpen = false
	c.state.RejectOpen = false
	c.state.DocRejectOpen = false
	c.state.DocViewOpen = false
	c.state.SelectedCharity = nil
	c.state.Officers = nil
	c.state.SelectedDocument = nil
	c.state.RejectReason = ""
	c.state.DocRejectReason = ""
}

// ApproveCharity approves a pending charity. On success the review dialog
// closes and the list is refreshed.
func (c *Controller) ApproveCharity(ctx context.Context, charityID int64) error {
	if err := c.requireCharityPending(charityID, "approved"); err != nil {
		return err
	}

	key := fmt.Sprintf("charity:%d", charityID)
	if !c.begin(key) {
		return c.inflightRefused()
	}
	defer c.end(key)

	if err := c.api.ApproveCharity(ctx, charityID); err != nil {
		c.logger.Error("failed to approve charity",
			zap.Int64("charity_id", charityID), zap.Error(err))
		c.notifier.Error(messageOr(err, "Failed to approve charity"))
		return err
	}

	c.notifier.Success("Charity approved successfully")
	c.mu.Lock()
	c.state.DetailOpen = false
	c.mu.Unlock()
	return c.RefreshCharities(ctx)
}

// OpenRejectDialog selects a charity and opens the rejection dialog.
func (c *Controller) OpenRejectDialog(charityID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.SelectedCharity == nil || c.state.SelectedCharity.ID != charityID {
		charity, ok := c.findCharityLocked(charityID)
		if !ok {
			return fmt.Errorf("%w: charity %d is not loaded", ErrValidation, charityID)
		}
		c.state.SelectedCharity = charity
	}
	c.state.RejectOpen = true
	return nil
}

// CancelReject closes the rejection dialog and clears the reason field.
func (c *Controller) CancelReject() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.RejectOpen = false
	c.state.RejectReason = ""
}

// RejectCharity rejects the selected charity. A blank reason never reaches
// the wire; on success both dialogs close, the reason clears and the list
// is refreshed.
func (c *Controller) RejectCharity(ctx context.Context, charityID int64, reason string) error {
	c.mu.Lock()
	c.state.RejectReason = reason
	c.mu.Unlock()

	if strings.TrimSpace(reason) == "" {
		c.notifier.Error("Please provide a rejection reason")
		return fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	if err := c.requireCharityPending(charityID, "rejected"); err != nil {
		return err
	}

	key := fmt.Sprintf("charity:%d", charityID)
	if !c.begin(key) {
		return c.inflightRefused()
	}
	defer c.end(key)

	if err := c.api.RejectCharity(ctx, charityID, reason); err != nil {
		c.logger.Error("failed to reject charity",
			zap.Int64("charity_id", charityID), zap.Error(err))
		c.notifier.Error(messageOr(err, "Failed to reject charity"))
		return err
	}

	c.notifier.Success("Charity rejected")
	c.mu.Lock()
	c.state.RejectOpen = false
	c.state.DetailOpen = false
	c.state.RejectReason = ""
	c.mu.Unlock()
	return c.RefreshCharities(ctx)
}

// RequestInfo acknowledges an information request to a loaded charity and
// closes the review dialog.
func (c *Controller) RequestInfo(charityID int64) error {
	c.mu.Lock()
	known := c.state.SelectedCharity != nil && c.state.SelectedCharity.ID == charityID
	if !known {
		_, known = c.findCharityLocked(charityID)
	}
	c.mu.Unlock()
	if !known {
		return fmt.Errorf("%w: charity %d is not loaded", ErrValidation, charityID)
	}

	c.logger.Info("information requested from charity", zap.Int64("charity_id", charityID))
	c.notifier.Info("Information request sent to charity")
	c.mu.Lock()
	c.state.DetailOpen = false
	c.mu.Unlock()
	return nil
}

// ApproveDocument approves a pending document of the selected charity and
// re-fetches the charity detail for the authoritative post-decision state.
// A backend-signaled auto-approval cascade produces a second, distinct
// notification.
func (c *Controller) ApproveDocument(ctx context.Context, documentID int64) error {
	charityID, err := c.requireDocumentPending(documentID)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("document:%d", documentID)
	if !c.begin(key) {
		return c.inflightRefused()
	}
	defer c.end(key)

	result, err := c.api.ApproveDocument(ctx, documentID)
	if err != nil {
		c.logger.Error("failed to approve document",
			zap.Int64("document_id", documentID), zap.Error(err))
		c.notifier.Error(messageOr(err, "Failed to approve document"))
		return err
	}

	c.notifier.Success("Document approved successfully")
	if result.CharityAutoApproved {
		c.notifier.SuccessFor(
			"All documents approved! Charity has been automatically activated and approved.",
			cascadeToastDuration)
	}

	c.mu.Lock()
	if c.state.SelectedDocument != nil && c.state.SelectedDocument.ID == documentID {
		c.state.DocViewOpen = false
	}
	c.mu.Unlock()

	return c.refreshSelectedCharity(ctx, charityID)
}

// OpenDocumentRejectDialog selects a document and opens its reject dialog,
// closing the preview if it was open.
func (c *Controller) OpenDocumentRejectDialog(documentID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.findDocumentLocked(documentID)
	if !ok {
		return fmt.Errorf("%w: document %d is not loaded", ErrValidation, documentID)
	}
	c.state.SelectedDocument = doc
	c.state.DocRejectOpen = true
	c.state.DocViewOpen = false
	return nil
}

// CancelDocumentReject closes the document reject dialog and clears its
// reason field.
func (c *Controller) CancelDocumentReject() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.DocRejectOpen = false
	c.state.DocRejectReason = ""
}

// RejectDocument rejects a pending document with the given reason, then
// re-fetches the charity detail.
func (c *Controller) RejectDocument(ctx context.Context, documentID int64, reason string) error {
	c.mu.Lock()
	c.state.DocRejectReason = reason
	c.mu.Unlock()

	if strings.TrimSpace(reason) == "" {
		c.notifier.Error("Please provide a rejection reason")
		return fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	charityID, err := c.requireDocumentPending(documentID)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("document:%d", documentID)
	if !c.begin(key) {
		return c.inflightRefused()
	}
	defer c.end(key)

	if err := c.api.RejectDocument(ctx, documentID, reason); err != nil {
		c.logger.Error("failed to reject document",
			zap.Int64("document_id", documentID), zap.Error(err))
		c.notifier.Error(messageOr(err, "Failed to reject document"))
		return err
	}

	c.notifier.Success("Document rejected")
	c.mu.Lock()
	c.state.DocRejectOpen = false
	c.state.DocRejectReason = ""
	c.mu.Unlock()

	return c.refreshSelectedCharity(ctx, charityID)
}

// ViewDocument opens the preview for a loaded document. No network effect.
func (c *Controller) ViewDocument(documentID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.findDocumentLocked(documentID)
	if !ok {
		return fmt.Errorf("%w: document %d is not loaded", ErrValidation, documentID)
	}
	c.state.SelectedDocument = doc
	c.state.DocViewOpen = true
	return nil
}

// CloseDocumentView closes the document preview.
func (c *Controller) CloseDocumentView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.DocViewOpen = false
}

// SelectedProgress returns the document progress of the selected charity.
func (c *Controller) SelectedProgress() DocumentProgress {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.SelectedCharity == nil {
		return DocumentProgress{}
	}
	return Progress(c.state.SelectedCharity.Documents)
}

// refreshSelectedCharity re-fetches detail after a document decision. The
// selected document pointer is re-resolved against the fresh documents so
// the preview shows post-decision state.
func (c *Controller) refreshSelectedCharity(ctx context.Context, charityID int64) error {
	charity, err := c.api.GetCharity(ctx, charityID)
	if err != nil {
		c.logger.Error("failed to refresh charity detail",
			zap.Int64("charity_id", charityID), zap.Error(err))
		c.notifier.Error("Failed to refresh charity details")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.SelectedCharity == nil || c.state.SelectedCharity.ID != charityID {
		// Review was closed while the request was outstanding.
		return nil
	}
	c.state.SelectedCharity = charity
	if c.state.SelectedDocument != nil {
		selectedID := c.state.SelectedDocument.ID
		c.state.SelectedDocument = nil
		for i := range charity.Documents {
			if charity.Documents[i].ID == selectedID {
				doc := charity.Documents[i]
				c.state.SelectedDocument = &doc
				break
			}
		}
	}
	return nil
}

func (c *Controller) requireCharityPending(charityID int64, target string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	charity := c.state.SelectedCharity
	if charity == nil || charity.ID != charityID {
		if found, ok := c.findCharityLocked(charityID); ok {
			charity = found
		}
	}
	if charity == nil {
		return fmt.Errorf("%w: charity %d is not loaded", ErrValidation, charityID)
	}
	if !c.sm.CanTransition(string(charity.VerificationStatus), target) {
		c.notifier.Error("Only pending charities can be " + target)
		return fmt.Errorf("%w: charity %d is %s", ErrValidation, charityID, charity.VerificationStatus)
	}
	return nil
}

func (c *Controller) requireDocumentPending(documentID int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.SelectedCharity == nil {
		return 0, fmt.Errorf("%w: no charity is open for review", ErrValidation)
	}
	doc, ok := c.findDocumentLocked(documentID)
	if !ok {
		return 0, fmt.Errorf("%w: document %d is not loaded", ErrValidation, documentID)
	}
	if c.sm.IsTerminal(string(doc.VerificationStatus)) {
		c.notifier.Error("This document has already been reviewed")
		return 0, fmt.Errorf("%w: document %d is %s", ErrValidation, documentID, doc.VerificationStatus)
	}
	return c.state.SelectedCharity.ID, nil
}

func (c *Controller) findCharityLocked(charityID int64) (*platform.Charity, bool) {
	for i := range c.state.Charities {
		if c.state.Charities[i].ID == charityID {
			charity := c.state.Charities[i]
			return &charity, true
		}
	}
	return nil, false
}

func (c *Controller) findDocumentLocked(documentID int64) (*platform.Document, bool) {
	if c.state.SelectedCharity == nil {
		return nil, false
	}
	for i := range c.state.SelectedCharity.Documents {
		if c.state.SelectedCharity.Documents[i].ID == documentID {
			doc := c.state.SelectedCharity.Documents[i]
			return &doc, true
		}
	}
	return nil, false
}

// begin marks an entity's request in flight; a false return means one is
// already outstanding and the caller must refuse the action.
func (c *Controller) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] {
		return false
	}
	c.inflight[key] = true
	return true
}

func (c *Controller) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}

func (c *Controller) inflightRefused() error {
	c.notifier.Error("A decision for this item is still being processed")
	return fmt.Errorf("%w: request already in flight", ErrValidation)
}

// messageOr prefers a server-supplied message over the generic fallback.
func messageOr(err error, fallback string) string {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
