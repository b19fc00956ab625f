package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListCharities fetches a page of charity summaries, optionally filtered by
// verification status. An empty status means all statuses.
func (c *Client) ListCharities(ctx context.Context, page int, status VerificationStatus) ([]Charity, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	if status != "" {
		q.Set("status", string(status))
	}

	var payload struct {
		Data []Charity `json:"data"`
	}
	if err := c.doJSON(ctx, "list charities", "GET", "/admin/charities?"+q.Encode(), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// GetCharity fetches full charity detail, including nested documents.
func (c *Client) GetCharity(ctx context.Context, id int64) (*Charity, error) {
	var charity Charity
	if err := c.doJSON(ctx, "get charity", "GET", fmt.Sprintf("/admin/charities/%d", id), nil, &charity); err != nil {
		return nil, err
	}
	return &charity, nil
}

// GetOfficers fetches the founder/board-member list for a charity. The legacy
// server answers with either {"officers": [...]} or {"data": [...]}; neither
// shape is authoritative, so both are accepted here and nowhere else.
func (c *Client) GetOfficers(ctx context.Context, charityID int64) ([]Officer, error) {
	var payload struct {
		Officers json.RawMessage `json:"officers"`
		Data     json.RawMessage `json:"data"`
	}
	if err := c.doJSON(ctx, "get officers", "GET", fmt.Sprintf("/charities/%d/officers", charityID), nil, &payload); err != nil {
		return nil, err
	}

	raw := payload.Officers
	if len(raw) == 0 || string(raw) == "null" {
		raw = payload.Data
	}
	if len(raw) == 0 || string(raw) == "null" {
		return []Officer{}, nil
	}

	var officers []Officer
	if err := json.Unmarshal(raw, &officers); err != nil {
		return nil, fmt.Errorf("get officers: failed to decode officer list: %w", err)
	}
	return officers, nil
}

// ApproveCharity marks a pending charity approved.
func (c *Client) ApproveCharity(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "approve charity", "POST", fmt.Sprintf("/admin/charities/%d/approve", id), nil, nil)
}

// RejectCharity marks a pending charity rejected. The reason is required by
// the backend; callers validate it before reaching the wire.
func (c *Client) RejectCharity(ctx context.Context, id int64, reason string) error {
	body := map[string]string{"reason": reason}
	return c.doJSON(ctx, "reject charity", "POST", fmt.Sprintf("/admin/charities/%d/reject", id), body, nil)
}

// ApproveDocument marks a pending document approved. When the approval
// completes the charity's document set the backend may auto-approve the
// charity and signals it in the result.
func (c *Client) ApproveDocument(ctx context.Context, id int64) (*ApproveDocumentResult, error) {
	var result ApproveDocumentResult
	if err := c.doJSON(ctx, "approve document", "POST", fmt.Sprintf("/admin/documents/%d/approve", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RejectDocument marks a pending document rejected with the given reason.
func (c *Client) RejectDocument(ctx context.Context, id int64, reason string) error {
	body := map[string]string{"reason": reason}
	return c.doJSON(ctx, "reject document", "POST", fmt.Sprintf("/admin/documents/%d/reject", id), body, nil)
}
