package review

import "givehope/admin-portal/admin-gateway/internal/platform"

// DocumentProgress summarizes how far a charity's document set has moved
// through verification. The fraction is advisory display data only; the
// authoritative all-approved decision is made by the backend.
type DocumentProgress struct {
	Total       int     `json:"total"`
	Approved    int     `json:"approved"`
	Pending     int     `json:"pending"`
	Rejected    int     `json:"rejected"`
	AllApproved bool    `json:"all_approved"`
	Fraction    float64 `json:"fraction"`
}

// Progress partitions documents by verification status. An empty document
// set yields a zero progress, never a division by zero.
func Progress(docs []platform.Document) DocumentProgress {
	p := DocumentProgress{Total: len(docs)}
	for _, d := range docs {
		switch d.VerificationStatus {
		case platform.StatusApproved:
			p.Approved++
		case platform.StatusRejected:
			p.Rejected++
		default:
			p.Pending++
		}
	}
	if p.Total > 0 {
		p.AllApproved = p.Approved == p.Total
		p.Fraction = float64(p.Approved) / float64(p.Total)
	}
	return p
}
