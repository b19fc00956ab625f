package review

import (
	"strings"

	"givehope/admin-portal/admin-gateway/internal/platform"
)

// ViewState is the serializable state behind the charities review screen:
// the loaded list, the charity under review, and which dialogs are open.
// It is owned by a Controller and mutated only through its operations; the
// admin UI receives copies via Snapshot.
type ViewState struct {
	Charities    []platform.Charity `json:"charities"`
	SearchTerm   string             `json:"search_term"`
	StatusFilter string             `json:"status_filter"`
	Page         int                `json:"page"`

	SelectedCharity  *platform.Charity  `json:"selected_charity,omitempty"`
	Officers         []platform.Officer `json:"officers,omitempty"`
	SelectedDocument *platform.Document `json:"selected_document,omitempty"`

	DetailOpen    bool `json:"detail_open"`
	RejectOpen    bool `json:"reject_open"`
	DocRejectOpen bool `json:"doc_reject_open"`
	DocViewOpen   bool `json:"doc_view_open"`

	RejectReason    string `json:"reject_reason"`
	DocRejectReason string `json:"doc_reject_reason"`
}

func newViewState() ViewState {
	return ViewState{
		StatusFilter: "all",
		Page:         1,
	}
}

// clone returns a value copy safe to hand to callers: nested slices and
// pointers are duplicated so later controller mutations cannot leak out.
func (s ViewState) clone() ViewState {
	out := s
	out.Charities = append([]platform.Charity(nil), s.Charities...)
	out.Officers = append([]platform.Officer(nil), s.Officers...)
	if s.SelectedCharity != nil {
		charity := *s.SelectedCharity
		charity.Documents = append([]platform.Document(nil), s.SelectedCharity.Documents...)
		charity.Campaigns = append([]platform.Campaign(nil), s.SelectedCharity.Campaigns...)
		out.SelectedCharity = &charity
	}
	if s.SelectedDocument != nil {
		doc := *s.SelectedDocument
		out.SelectedDocument = &doc
	}
	return out
}

// matchesSearch reports whether a charity matches the free-text search over
// name, contact email and registration number.
func matchesSearch(c platform.Charity, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(strings.ToLower(c.ContactEmail), term) ||
		strings.Contains(strings.ToLower(c.RegNo), term)
}
