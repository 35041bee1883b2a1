package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

func istDay(t *testing.T, value string) (from, to *time.Time) {
	t.Helper()
	day, err := timeutil.ParseDateInIST(value)
	if err != nil {
		t.Fatal(err)
	}
	start, end := timeutil.StartOfDay(day), timeutil.EndOfDay(day)
	return &start, &end
}

func TestExportLeadsCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := validLead("ABC Manufacturing")
	input.Application = "Material & Warehouse Material Handling"
	input.AssignedTo = ptr("2")
	f.createLead(t, admin, input)

	quoted := validLead(`Say "Hi", Ltd`)
	f.createLead(t, engineer, quoted)

	file, err := f.reports.Export(ctx, ReportFilter{Kind: domain.ReportLeads})
	if err != nil {
		t.Fatal(err)
	}
	want := "Company,Contact Person,Email,Phone,Application,Status,Source,Assigned To,Created Date\n" +
		`"ABC Manufacturing","John Doe","john@abc.com","+91 9876543210","Material & Warehouse Material Handling","new","website","Sales Engineer 1",20/1/2024` + "\n" +
		`"Say ""Hi"", Ltd","John Doe","john@abc.com","+91 9876543210","Vision System","new","website","Unassigned",20/1/2024`
	if string(file.Content) != want {
		t.Fatalf("csv mismatch\n got: %q\nwant: %q", file.Content, want)
	}
	if file.Filename != "leads_report_2024-01-20.csv" || file.Rows != 2 {
		t.Fatalf("file metadata: %s %d", file.Filename, file.Rows)
	}
}

func TestExportProposalsCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.createLead(t, engineer, validLead("ABC"))
	template := f.createTemplate(t, "Standard")
	_, err := f.proposals.Create(ctx, engineer, ProposalInput{
		LeadID: lead.ID, TemplateID: template.ID, Title: "Material Handling System Proposal",
		Robot: "R-2000iA/100P", Brand: "Fanuc", Cost: decimal.NewFromInt(251000), Status: domain.ProposalStatusSent,
	})
	if err != nil {
		t.Fatal(err)
	}

	file, err := f.reports.Export(ctx, ReportFilter{Kind: domain.ReportProposals, Status: "sent"})
	if err != nil {
		t.Fatal(err)
	}
	want := "Title,Robot,Brand,Cost,Status,Created Date,Created By\n" +
		`"Material Handling System Proposal","R-2000iA/100P","Fanuc",251000,"sent",20/1/2024,"Sales Engineer 1"`
	if string(file.Content) != want {
		t.Fatalf("csv mismatch\n got: %q\nwant: %q", file.Content, want)
	}
}

func TestExportWithNoMatchesReportsNoData(t *testing.T) {
	f := newFixture(t)
	f.createLead(t, engineer, validLead("ABC"))

	_, err := f.reports.Export(context.Background(), ReportFilter{Kind: domain.ReportLeads, Status: "won"})
	if !apperrors.HasCode(err, "NO_DATA") {
		t.Fatalf("expected NO_DATA, got %v", err)
	}
}

func TestReportDateBoundsAreInclusiveISTDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 06:00 UTC is 11:30 IST on the 20th; 20:00 UTC is 01:30 IST on the 21st.
	f.createLead(t, engineer, validLead("Morning"))
	f.clock.Advance(14 * time.Hour)
	f.createLead(t, engineer, validLead("Night"))

	from, to := istDay(t, "2024-01-20")
	selection, err := f.reports.Select(ctx, ReportFilter{Kind: domain.ReportLeads, From: from, To: to})
	if err != nil {
		t.Fatal(err)
	}
	if selection.Len() != 1 || selection.Leads[0].CompanyName != "Morning" {
		t.Fatalf("20th: %+v", selection.Leads)
	}

	from, to = istDay(t, "2024-01-21")
	selection, _ = f.reports.Select(ctx, ReportFilter{Kind: domain.ReportLeads, From: from, To: to})
	if selection.Len() != 1 || selection.Leads[0].CompanyName != "Night" {
		t.Fatalf("21st: %+v", selection.Leads)
	}
}

func TestReportFilterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from, _ := istDay(t, "2024-01-21")
	_, to := istDay(t, "2024-01-20")

	cases := []ReportFilter{
		{Kind: "invoices"},
		{Kind: domain.ReportLeads, Status: "accepted"},
		{Kind: domain.ReportProposals, Status: "won"},
		{Kind: domain.ReportLeads, From: from, To: to},
	}
	for _, filter := range cases {
		if _, err := f.reports.Select(ctx, filter); !apperrors.HasCode(err, "VALIDATION_FAILED") {
			t.Errorf("%+v: expected VALIDATION_FAILED, got %v", filter, err)
		}
	}
}

func TestSummaryAndDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	template := f.createTemplate(t, "Standard")

	statuses := []domain.LeadStatus{domain.LeadStatusNew, domain.LeadStatusWon, domain.LeadStatusContacted}
	var leads []*domain.Lead
	for i, status := range statuses {
		input := validLead([]string{"A", "B", "C"}[i])
		input.Status = status
		leads = append(leads, f.createLead(t, engineer, input))
	}
	for _, status := range []domain.ProposalStatus{domain.ProposalStatusDraft, domain.ProposalStatusAccepted, domain.ProposalStatusNegotiating} {
		if _, err := f.proposals.Create(ctx, engineer, ProposalInput{LeadID: leads[0].ID, TemplateID: template.ID, Title: "P", Robot: "R", Status: status}); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := f.reports.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := Summary{TotalLeads: 3, TotalProposals: 3, ActiveProposals: 2, WonDeals: 1, ConversionRate: 33}
	if *summary != want {
		t.Fatalf("summary: got %+v, want %+v", *summary, want)
	}

	dashboard, err := f.reports.Dashboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(dashboard.RecentLeads) != 3 || dashboard.RecentLeads[0].CompanyName != "C" {
		t.Fatalf("recent leads should be newest first: %+v", dashboard.RecentLeads)
	}
}
