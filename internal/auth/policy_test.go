package auth

import (
	"testing"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

func TestCanAccessRouteTable(t *testing.T) {
	cases := []struct {
		route   domain.Route
		allowed []domain.Role
	}{
		{domain.RouteDashboard, []domain.Role{domain.RoleAdmin, domain.RoleSalesEngineer, domain.RoleManager, domain.RoleViewer}},
		{domain.RouteLeads, []domain.Role{domain.RoleAdmin, domain.RoleSalesEngineer, domain.RoleManager, domain.RoleViewer}},
		{domain.RouteProposals, []domain.Role{domain.RoleAdmin, domain.RoleSalesEngineer, domain.RoleManager, domain.RoleViewer}},
		{domain.RouteUsers, []domain.Role{domain.RoleAdmin}},
		{domain.RouteReports, []domain.Role{domain.RoleAdmin}},
		{domain.RouteSpareParts, []domain.Role{domain.RoleAdmin, domain.RoleSalesEngineer}},
		{domain.RouteProposalTemplates, []domain.Role{domain.RoleAdmin, domain.RoleSalesEngineer, domain.RoleManager}},
	}

	for _, tc := range cases {
		allowed := map[domain.Role]bool{}
		for _, r := range tc.allowed {
			allowed[r] = true
		}
		for _, role := range domain.Roles {
			if got := CanAccessRoute(role, tc.route); got != allowed[role] {
				t.Errorf("CanAccessRoute(%s, %s) = %v, want %v", role, tc.route, got, allowed[role])
			}
		}
	}

	if CanAccessRoute("intern", domain.RouteDashboard) {
		t.Error("unknown role should be denied")
	}
	if CanAccessRoute(domain.RoleAdmin, "/settings") {
		t.Error("unknown route should be denied")
	}
}

func TestResolveRoute(t *testing.T) {
	viewer := &domain.User{ID: "9", Role: domain.RoleViewer}
	admin := &domain.User{ID: "1", Role: domain.RoleAdmin}

	if got := ResolveRoute(nil, domain.RouteLeads); got != domain.RouteLogin {
		t.Fatalf("anonymous: got %s", got)
	}
	if got := ResolveRoute(viewer, domain.RouteReports); got != domain.RouteDashboard {
		t.Fatalf("viewer to reports: got %s", got)
	}
	if got := ResolveRoute(viewer, domain.RouteLeads); got != domain.RouteLeads {
		t.Fatalf("viewer to leads: got %s", got)
	}
	if got := ResolveRoute(admin, domain.RouteReports); got != domain.RouteReports {
		t.Fatalf("admin to reports: got %s", got)
	}
}

func TestNavigationPerRole(t *testing.T) {
	names := func(items []domain.NavItem) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.Name
		}
		return out
	}
	want := map[domain.Role][]string{
		domain.RoleAdmin:         {"Dashboard", "Leads", "Proposals", "Users", "Reports", "Spare Parts", "Proposal Templates"},
		domain.RoleSalesEngineer: {"Dashboard", "Leads", "Proposals", "Spare Parts", "Proposal Templates"},
		domain.RoleManager:       {"Dashboard", "Leads", "Proposals", "Proposal Templates"},
		domain.RoleViewer:        {"Dashboard", "Leads", "Proposals"},
	}
	for role, expected := range want {
		got := names(Navigation(role))
		if len(got) != len(expected) {
			t.Fatalf("%s: got %v, want %v", role, got, expected)
		}
		for i := range got {
			if got[i] != expected[i] {
				t.Fatalf("%s: got %v, want %v", role, got, expected)
			}
		}
	}
}

func TestLeadOwnershipPredicates(t *testing.T) {
	assignee := "2"
	lead := &domain.Lead{ID: "L1", CreatedBy: "3", AssignedTo: &assignee}

	cases := []struct {
		name         string
		user         *domain.User
		edit, delete bool
	}{
		{"admin", &domain.User{ID: "1", Role: domain.RoleAdmin}, true, true},
		{"assignee", &domain.User{ID: "2", Role: domain.RoleSalesEngineer}, true, false},
		{"creator", &domain.User{ID: "3", Role: domain.RoleSalesEngineer}, true, true},
		{"manager stranger", &domain.User{ID: "4", Role: domain.RoleManager}, false, false},
		{"viewer stranger", &domain.User{ID: "5", Role: domain.RoleViewer}, false, false},
		{"anonymous", nil, false, false},
	}
	for _, tc := range cases {
		if got := CanEditLead(tc.user, lead); got != tc.edit {
			t.Errorf("%s: CanEditLead = %v, want %v", tc.name, got, tc.edit)
		}
		if got := CanDeleteLead(tc.user, lead); got != tc.delete {
			t.Errorf("%s: CanDeleteLead = %v, want %v", tc.name, got, tc.delete)
		}
	}

	if !CanAssignLead(&domain.User{Role: domain.RoleAdmin}) {
		t.Error("admin should assign")
	}
	if CanAssignLead(&domain.User{Role: domain.RoleSalesEngineer}) || CanAssignLead(nil) {
		t.Error("only admins assign")
	}
}

func TestProposalOwnershipPredicates(t *testing.T) {
	proposal := &domain.Proposal{ID: "P1", CreatedBy: "2"}

	if !CanEditProposal(&domain.User{ID: "1", Role: domain.RoleAdmin}, proposal) {
		t.Error("admin should edit")
	}
	if !CanDeleteProposal(&domain.User{ID: "2", Role: domain.RoleViewer}, proposal) {
		t.Error("creator should delete regardless of role")
	}
	if CanEditProposal(&domain.User{ID: "3", Role: domain.RoleManager}, proposal) {
		t.Error("manager who did not create should not edit")
	}
	if CanEditProposal(nil, proposal) || CanEditProposal(&domain.User{ID: "2"}, nil) {
		t.Error("nil user or proposal must be denied")
	}
}
