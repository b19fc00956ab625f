package platform

import "time"

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusApproved VerificationStatus = "approved"
	StatusRejected VerificationStatus = "rejected"
)

// Charity is an organization account under verification review. The summary
// shape from the list endpoint and the detail shape from the by-id endpoint
// share this struct; detail responses additionally carry documents and
// campaigns.
type Charity struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"name"`
	ContactEmail       string             `json:"contact_email"`
	Phone              string             `json:"phone,omitempty"`
	Address            string             `json:"address,omitempty"`
	Website            string             `json:"website,omitempty"`
	RegNo              string             `json:"reg_no"`
	Type               string             `json:"type,omitempty"`
	Mission            string             `json:"mission,omitempty"`
	Vision             string             `json:"vision,omitempty"`
	Description        string             `json:"description,omitempty"`
	Goals              string             `json:"goals,omitempty"`
	OperatingHours     string             `json:"operating_hours,omitempty"`
	Logo               string             `json:"logo,omitempty"`
	BackgroundImage    string             `json:"background_image,omitempty"`
	FacebookURL        string             `json:"facebook_url,omitempty"`
	InstagramURL       string             `json:"instagram_url,omitempty"`
	TwitterURL         string             `json:"twitter_url,omitempty"`
	LinkedinURL        string             `json:"linkedin_url,omitempty"`
	YoutubeURL         string             `json:"youtube_url,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	VerificationNotes  string             `json:"verification_notes,omitempty"`
	CampaignsCount     int                `json:"campaigns_count,omitempty"`
	DonationsCount     int                `json:"donations_count,omitempty"`
	FollowersCount     int                `json:"followers_count,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`
	Documents          []Document         `json:"documents,omitempty"`
	Campaigns          []Campaign         `json:"campaigns,omitempty"`
}

// Document is a supporting file submitted by a charity, verified
// independently of its siblings.
type Document struct {
	ID                 int64              `json:"id"`
	CharityID          int64              `json:"charity_id"`
	DocumentType       string             `json:"document_type"`
	FileURL            string             `json:"file_url,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	RejectionReason    string             `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`
}

// Officer is a founder or board member shown for context during review.
type Officer struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Position         string `json:"position,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	ProfileImageURL  string `json:"profile_image_url,omitempty"`
	ProfileImagePath string `json:"profile_image_path,omitempty"`
}

type Campaign struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status"`
	Goal        float64 `json:"goal"`
	Raised      float64 `json:"raised"`
	Donors      int     `json:"donors"`
}

type TransactionType string

const (
	TypeDonation     TransactionType = "donation"
	TypeDisbursement TransactionType = "disbursement"
)

type Transaction struct {
	ID              int64           `json:"id"`
	Type            TransactionType `json:"type"`
	Amount          float64         `json:"amount"`
	CharityName     string          `json:"charity_name"`
	CampaignName    string          `json:"campaign_name,omitempty"`
	DonorName       string          `json:"donor_name,omitempty"`
	Date            time.Time       `json:"date"`
	Status          string          `json:"status"`
	Purpose         string          `json:"purpose,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
}

type FundStatistics struct {
	TotalDonations     float64 `json:"total_donations"`
	TotalDisbursements float64 `json:"total_disbursements"`
	NetFlow            float64 `json:"net_flow"`
	TransactionCount   int     `json:"transaction_count"`
}

// ChartDataPoint is one bucket of the donations-vs-disbursements trend.
type ChartDataPoint struct {
	Name          string  `json:"name"`
	Donations     float64 `json:"donations"`
	Disbursements float64 `json:"disbursements"`
	Count         int     `json:"count,omitempty"`
}

// ApproveDocumentResult acknowledges a document approval. CharityAutoApproved
// rides along when the decision completed the charity's document set and the
// backend promoted the charity itself.
type ApproveDocumentResult struct {
	Message             string `json:"message,omitempty"`
	CharityAutoApproved bool   `json:"charity_auto_approved"`
}
