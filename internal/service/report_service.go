package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/export"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

const recentLeadLimit = 5

// ReportService builds report selections, CSV exports and dashboard figures.
type ReportService struct {
	leads     repository.LeadRepository
	proposals repository.ProposalRepository
	users     repository.UserRepository
	clock     timeutil.Clock
}

// ReportDependencies bundles repositories for the report service.
type ReportDependencies struct {
	LeadRepo     repository.LeadRepository
	ProposalRepo repository.ProposalRepository
	UserRepo     repository.UserRepository
	Clock        timeutil.Clock
}

// ReportFilter selects the records of one kind. From and To are inclusive bounds on CreatedAt.
type ReportFilter struct {
	Kind      domain.ReportKind
	CreatedBy string
	Status    string
	From      *time.Time
	To        *time.Time
}

// ReportSelection holds the records a filter matched. Only the slice for Kind is populated.
type ReportSelection struct {
	Kind      domain.ReportKind
	Leads     []domain.Lead
	Proposals []domain.Proposal
}

// Len returns the number of matched records.
func (s *ReportSelection) Len() int {
	if s.Kind == domain.ReportLeads {
		return len(s.Leads)
	}
	return len(s.Proposals)
}

// ReportFile is a rendered export.
type ReportFile struct {
	Filename    string
	ContentType string
	Content     []byte
	Rows        int
}

// Summary aggregates the headline figures shown on the dashboard and reports screen.
type Summary struct {
	TotalLeads      int
	TotalProposals  int
	ActiveProposals int
	WonDeals        int
	ConversionRate  int
}

// Dashboard is the landing view for a signed-in user.
type Dashboard struct {
	Summary     Summary
	RecentLeads []domain.Lead
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		leads:     deps.LeadRepo,
		proposals: deps.ProposalRepo,
		users:     deps.UserRepo,
		clock:     clockOrSystem(deps.Clock),
	}
}

// Select returns the records matching filter in collection order.
func (s *ReportService) Select(ctx context.Context, filter ReportFilter) (*ReportSelection, error) {
	if err := validateReportFilter(filter); err != nil {
		return nil, err
	}

	selection := &ReportSelection{Kind: filter.Kind}
	switch filter.Kind {
	case domain.ReportLeads:
		leads, err := s.leads.List(ctx, repository.LeadFilter{
			Status:      domain.LeadStatus(filter.Status),
			CreatedBy:   filter.CreatedBy,
			CreatedFrom: filter.From,
			CreatedTo:   filter.To,
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		selection.Leads = leads
	case domain.ReportProposals:
		proposals, err := s.proposals.List(ctx, repository.ProposalFilter{
			Status:      domain.ProposalStatus(filter.Status),
			CreatedBy:   filter.CreatedBy,
			CreatedFrom: filter.From,
			CreatedTo:   filter.To,
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		selection.Proposals = proposals
	}
	return selection, nil
}

// Export renders the selection as CSV. An empty selection is reported as NO_DATA and
// produces no file.
func (s *ReportService) Export(ctx context.Context, filter ReportFilter) (*ReportFile, error) {
	selection, err := s.Select(ctx, filter)
	if err != nil {
		return nil, err
	}
	if selection.Len() == 0 {
		return nil, apperrors.NewNoData("no data available to export with current filters")
	}

	names, err := s.userNames(ctx)
	if err != nil {
		return nil, err
	}

	var table *export.Table
	if filter.Kind == domain.ReportLeads {
		table = export.NewTable("Company", "Contact Person", "Email", "Phone", "Application", "Status", "Source", "Assigned To", "Created Date")
		for _, lead := range selection.Leads {
			assigned := "Unassigned"
			if lead.AssignedTo != nil {
				if name, ok := names[*lead.AssignedTo]; ok {
					assigned = name
				}
			}
			table.Append(
				export.Text(lead.CompanyName),
				export.Text(lead.ContactPerson),
				export.Text(lead.Email),
				export.Text(lead.Phone),
				export.Text(lead.Application),
				export.Text(string(lead.Status)),
				export.Text(string(lead.Source)),
				export.Text(assigned),
				export.Date(lead.CreatedAt),
			)
		}
	} else {
		table = export.NewTable("Title", "Robot", "Brand", "Cost", "Status", "Created Date", "Created By")
		for _, proposal := range selection.Proposals {
			creator, ok := names[proposal.CreatedBy]
			if !ok {
				creator = "Unknown"
			}
			table.Append(
				export.Text(proposal.Title),
				export.Text(proposal.Robot),
				export.Text(proposal.Brand),
				export.Number(proposal.Cost),
				export.Text(string(proposal.Status)),
				export.Date(proposal.CreatedAt),
				export.Text(creator),
			)
		}
	}

	return &ReportFile{
		Filename:    fmt.Sprintf("%s_report_%s.csv", filter.Kind, timeutil.ISODate(s.clock.Now())),
		ContentType: "text/csv; charset=utf-8",
		Content:     table.Bytes(),
		Rows:        table.Len(),
	}, nil
}

// Summary counts leads and proposals across the whole store.
func (s *ReportService) Summary(ctx context.Context) (*Summary, error) {
	leads, err := s.leads.List(ctx, repository.LeadFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	proposals, err := s.proposals.List(ctx, repository.ProposalFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	summary := summarize(leads, proposals)
	return &summary, nil
}

// Dashboard returns the summary plus the most recently created leads, newest first.
func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	leads, err := s.leads.List(ctx, repository.LeadFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	proposals, err := s.proposals.List(ctx, repository.ProposalFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	recent := make([]domain.Lead, 0, recentLeadLimit)
	for i := len(leads) - 1; i >= 0 && len(recent) < recentLeadLimit; i-- {
		recent = append(recent, leads[i])
	}
	return &Dashboard{Summary: summarize(leads, proposals), RecentLeads: recent}, nil
}

func summarize(leads []domain.Lead, proposals []domain.Proposal) Summary {
	summary := Summary{TotalLeads: len(leads), TotalProposals: len(proposals)}
	for i := range leads {
		if leads[i].Status == domain.LeadStatusWon {
			summary.WonDeals++
		}
	}
	for i := range proposals {
		if proposals[i].Status.Active() {
			summary.ActiveProposals++
		}
	}
	if summary.TotalLeads > 0 {
		summary.ConversionRate = int(math.Round(float64(summary.WonDeals) / float64(summary.TotalLeads) * 100))
	}
	return summary
}

func (s *ReportService) userNames(ctx context.Context) (map[string]string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
	}
	return names, nil
}

func validateReportFilter(filter ReportFilter) error {
	details := map[string]any{}
	if !filter.Kind.Valid() {
		details["type"] = "must be leads or proposals"
	}
	if filter.Status != "" {
		switch filter.Kind {
		case domain.ReportLeads:
			if !domain.LeadStatus(filter.Status).Valid() {
				details["status"] = "is not a lead status"
			}
		case domain.ReportProposals:
			if !domain.ProposalStatus(filter.Status).Valid() {
				details["status"] = "is not a proposal status"
			}
		}
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		details["to"] = "must not be before from"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid report filter", details)
	}
	return nil
}
