package review

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"givehope/admin-portal/admin-gateway/internal/notifications"
)

const sessionHeader = "X-Review-Session"

// Sessions idle past the TTL are evicted; the registry is also capped so an
// unauthenticated crawler cannot grow it without bound.
const (
	sessionTTL  = 30 * time.Minute
	maxSessions = 512
)

// Handler exposes the review workflow over HTTP. Each admin session gets its
// own controller and notification center; the publish callback forwards
// toasts to the websocket layer.
type Handler struct {
	api     PlatformAPI
	publish func(sessionID string, n notifications.Notification)
	logger  *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	controller *Controller
	center     *notifications.Center
	lastActive time.Time
}

// NewHandler creates a review handler.
func NewHandler(api PlatformAPI, publish func(string, notifications.Notification), logger *zap.Logger) *Handler {
	return &Handler{
		api:      api,
		publish:  publish,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// RegisterRoutes registers review routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	review := router.Group("/review")
	{
		review.POST("/sessions", h.createSession)
		review.GET("/state", h.getState)
		review.GET("/charities", h.listCharities)
		review.POST("/charities/:id/open", h.openCharity)
		review.POST("/charities/:id/approve", h.approveCharity)
		review.POST("/charities/:id/reject", h.rejectCharity)
		review.POST("/charities/:id/reject-dialog", h.openRejectDialog)
		review.POST("/charities/:id/request-info", h.requestInfo)
		review.POST("/reject-dialog/cancel", h.cancelReject)
		review.POST("/close", h.closeReview)
		review.POST("/documents/:id/approve", h.approveDocument)
		review.POST("/documents/:id/reject", h.rejectDocument)
		review.POST("/documents/:id/reject-dialog", h.openDocRejectDialog)
		review.POST("/documents/:id/view", h.viewDocument)
		review.POST("/doc-reject-dialog/cancel", h.cancelDocReject)
		review.POST("/doc-view/close", h.closeDocView)
		review.GET("/notifications", h.listNotifications)
		review.POST("/notifications/:id/dismiss", h.dismissNotification)
	}
}

// HasSession reports whether a session id is known and not expired. The
// websocket endpoint uses it to refuse unknown sessions before upgrading.
func (h *Handler) HasSession(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return ok && time.Since(s.lastActive) <= sessionTTL
}

func (h *Handler) createSession(c *gin.Context) {
	id := uuid.New().String()

	center := notifications.NewCenter(50)
	if h.publish != nil {
		center.SetPublisher(func(n notifications.Notification) {
			h.publish(id, n)
		})
	}

	h.mu.Lock()
	h.evictLocked(time.Now())
	h.sessions[id] = &session{
		controller: NewController(h.api, center, h.logger),
		center:     center,
		lastActive: time.Now(),
	}
	h.mu.Unlock()

	h.logger.Info("review session created", zap.String("session_id", id))
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

func (h *Handler) session(c *gin.Context) (*session, bool) {
	id := c.GetHeader(sessionHeader)
	h.mu.Lock()
	s, ok := h.sessions[id]
	if ok && time.Since(s.lastActive) > sessionTTL {
		delete(h.sessions, id)
		ok = false
	}
	if ok {
		s.lastActive = time.Now()
	}
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or unknown review session"})
		return nil, false
	}
	return s, true
}

// evictLocked drops expired sessions and, if the registry is still at the
// cap, the least recently active one. Callers hold h.mu.
func (h *Handler) evictLocked(now time.Time) {
	for id, s := range h.sessions {
		if now.Sub(s.lastActive) > sessionTTL {
			delete(h.sessions, id)
		}
	}
	for len(h.sessions) >= maxSessions {
		oldestID := ""
		var oldest time.Time
		for id, s := range h.sessions {
			if oldestID == "" || s.lastActive.Before(oldest) {
				oldestID = id
				oldest = s.lastActive
			}
		}
		delete(h.sessions, oldestID)
	}
}

func (h *Handler) getState(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

// listCharities applies query filters, refreshes the list from upstream and
// returns the filtered view. A fetch failure degrades to a toast; the
// previous list is served.
func (h *Handler) listCharities(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if search, exists := c.GetQuery("search"); exists {
		s.controller.SetSearchTerm(search)
	}
	if status, exists := c.GetQuery("status"); exists {
		s.controller.SetStatusFilter(status)
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		s.controller.SetPage(page)
	}

	_ = s.controller.RefreshCharities(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"charities": s.controller.FilteredCharities(),
		"state":     s.controller.Snapshot(),
	})
}

func (h *Handler) openCharity(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	_ = s.controller.OpenCharityReview(c.Request.Context(), id)
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) approveCharity(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	_ = s.controller.ApproveCharity(c.Request.Context(), id)
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) rejectCharity(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_ = s.controller.RejectCharity(c.Request.Context(), id, req.Reason)
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) openRejectDialog(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := s.controller.OpenRejectDialog(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) requestInfo(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := s.controller.RequestInfo(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) cancelReject(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.controller.CancelReject()
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) closeReview(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.controller.CloseReview()
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) approveDocument(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	_ = s.controller.ApproveDocument(c.Request.Context(), id)
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) rejectDocument(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_ = s.controller.RejectDocument(c.Request.Context(), id, req.Reason)
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) openDocRejectDialog(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := s.controller.OpenDocumentRejectDialog(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) viewDocument(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := s.controller.ViewDocument(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) cancelDocReject(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.controller.CancelDocumentReject()
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) closeDocView(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.controller.CloseDocumentView()
	c.JSON(http.StatusOK, h.stateResponse(s))
}

func (h *Handler) listNotifications(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": s.center.List()})
}

func (h *Handler) dismissNotification(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if !s.center.Dismiss(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// stateResponse bundles the snapshot with the derived document progress so
// the UI renders the progress bar without recomputing.
func (h *Handler) stateResponse(s *session) gin.H {
	return gin.H{
		"state":    s.controller.Snapshot(),
		"progress": s.controller.SelectedProgress(),
	}
}
