package dto

import "github.com/mahajanautomation/crm-backend/internal/domain"

// SummaryResponse carries the headline figures.
type SummaryResponse struct {
	TotalLeads      int `json:"total_leads"`
	TotalProposals  int `json:"total_proposals"`
	ActiveProposals int `json:"active_proposals"`
	WonDeals        int `json:"won_deals"`
	ConversionRate  int `json:"conversion_rate"`
}

// DashboardResponse is the landing view.
type DashboardResponse struct {
	Greeting    string           `json:"greeting"`
	Summary     SummaryResponse  `json:"summary"`
	RecentLeads []LeadResponse   `json:"recent_leads"`
	Navigation  []domain.NavItem `json:"navigation"`
}

// ReportPreviewResponse lists the records an export would contain.
type ReportPreviewResponse struct {
	Type      domain.ReportKind  `json:"type"`
	Count     int                `json:"count"`
	Leads     []LeadResponse     `json:"leads,omitempty"`
	Proposals []ProposalResponse `json:"proposals,omitempty"`
}

// RouteResolution answers a navigation request.
type RouteResolution struct {
	Requested domain.Route `json:"requested"`
	Target    domain.Route `json:"target"`
	Allowed   bool         `json:"allowed"`
}
