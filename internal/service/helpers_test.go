package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/events"
	"github.com/mahajanautomation/crm-backend/internal/repository"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock(start time.Time) *stepClock {
	return &stepClock{now: start}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	d.events = append(d.events, event)
	d.mu.Unlock()
	return nil
}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, len(d.events))
	for i, e := range d.events {
		out[i] = e.Type
	}
	return out
}

var (
	admin     = &domain.User{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin}
	engineer  = &domain.User{ID: "2", Name: "Sales Engineer 1", Email: "se1@example.com", Role: domain.RoleSalesEngineer}
	engineer2 = &domain.User{ID: "3", Name: "Sales Engineer 2", Email: "se2@example.com", Role: domain.RoleSalesEngineer}
	viewer    = &domain.User{ID: "5", Name: "Viewer", Email: "viewer@example.com", Role: domain.RoleViewer}
)

type fixture struct {
	repos      repository.Set
	clock      *stepClock
	dispatcher *recordingDispatcher

	leads     *LeadService
	proposals *ProposalService
	parts     *SparePartService
	templates *TemplateService
	reports   *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repos:      repository.NewMemorySet(),
		clock:      newStepClock(time.Date(2024, 1, 20, 6, 0, 0, 0, time.UTC)),
		dispatcher: &recordingDispatcher{},
	}
	for _, u := range []*domain.User{admin, engineer, engineer2, viewer} {
		user := *u
		if err := f.repos.Users.Create(context.Background(), &user); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	f.leads = NewLeadService(LeadDependencies{
		LeadRepo:      f.repos.Leads,
		ProposalRepo:  f.repos.Proposals,
		UserRepo:      f.repos.Users,
		SparePartRepo: f.repos.SpareParts,
		Clock:         f.clock,
		Dispatcher:    f.dispatcher,
	})
	f.proposals = NewProposalService(ProposalDependencies{
		ProposalRepo:  f.repos.Proposals,
		LeadRepo:      f.repos.Leads,
		TemplateRepo:  f.repos.Templates,
		SparePartRepo: f.repos.SpareParts,
		Clock:         f.clock,
		Dispatcher:    f.dispatcher,
	})
	f.parts = NewSparePartService(SparePartDependencies{
		SparePartRepo: f.repos.SpareParts,
		LeadRepo:      f.repos.Leads,
		ProposalRepo:  f.repos.Proposals,
		Clock:         f.clock,
	})
	f.templates = NewTemplateService(TemplateDependencies{
		TemplateRepo: f.repos.Templates,
		ProposalRepo: f.repos.Proposals,
		Clock:        f.clock,
	})
	f.reports = NewReportService(ReportDependencies{
		LeadRepo:     f.repos.Leads,
		ProposalRepo: f.repos.Proposals,
		UserRepo:     f.repos.Users,
		Clock:        f.clock,
	})
	return f
}

func validLead(company string) LeadInput {
	return LeadInput{
		CompanyName:   company,
		ContactPerson: "John Doe",
		Email:         "john@abc.com",
		Phone:         "+91 9876543210",
		Application:   "Vision System",
	}
}

func (f *fixture) createLead(t *testing.T, actor *domain.User, input LeadInput) *domain.Lead {
	t.Helper()
	lead, err := f.leads.Create(context.Background(), actor, input)
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	return lead
}

func (f *fixture) createTemplate(t *testing.T, name string) *domain.ProposalTemplate {
	t.Helper()
	template, err := f.templates.Create(context.Background(), TemplateInput{
		Name:          name,
		HeaderContent: "header",
		FooterContent: "footer",
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	return template
}

func ptr[T any](v T) *T {
	return &v
}
