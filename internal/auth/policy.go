package auth

import "github.com/mahajanautomation/crm-backend/internal/domain"

var routeRoles = map[domain.Route][]domain.Role{
	domain.RouteDashboard:         {domain.RoleAdmin, domain.RoleSalesEngineer, domain.RoleManager, domain.RoleViewer},
	domain.RouteLeads:             {domain.RoleAdmin, domain.RoleSalesEngineer, domain.RoleManager, domain.RoleViewer},
	domain.RouteProposals:         {domain.RoleAdmin, domain.RoleSalesEngineer, domain.RoleManager, domain.RoleViewer},
	domain.RouteUsers:             {domain.RoleAdmin},
	domain.RouteReports:           {domain.RoleAdmin},
	domain.RouteSpareParts:        {domain.RoleAdmin, domain.RoleSalesEngineer},
	domain.RouteProposalTemplates: {domain.RoleAdmin, domain.RoleSalesEngineer, domain.RoleManager},
}

var navigation = []domain.NavItem{
	{Name: "Dashboard", Route: domain.RouteDashboard},
	{Name: "Leads", Route: domain.RouteLeads},
	{Name: "Proposals", Route: domain.RouteProposals},
	{Name: "Users", Route: domain.RouteUsers},
	{Name: "Reports", Route: domain.RouteReports},
	{Name: "Spare Parts", Route: domain.RouteSpareParts},
	{Name: "Proposal Templates", Route: domain.RouteProposalTemplates},
}

// CanAccessRoute reports whether role may open route. Unknown roles and routes are denied.
func CanAccessRoute(role domain.Role, route domain.Route) bool {
	for _, allowed := range routeRoles[route] {
		if allowed == role {
			return true
		}
	}
	return false
}

// ResolveRoute returns where a navigation to route should land: the route itself when
// permitted, the login screen for anonymous callers and the dashboard otherwise.
func ResolveRoute(user *domain.User, route domain.Route) domain.Route {
	if user == nil {
		return domain.RouteLogin
	}
	if CanAccessRoute(user.Role, route) {
		return route
	}
	return domain.RouteDashboard
}

// Navigation lists the entries visible to role, in menu order.
func Navigation(role domain.Role) []domain.NavItem {
	items := make([]domain.NavItem, 0, len(navigation))
	for _, item := range navigation {
		if CanAccessRoute(role, item.Route) {
			items = append(items, item)
		}
	}
	return items
}

// CanEditLead: admins, the assignee and the creator.
func CanEditLead(user *domain.User, lead *domain.Lead) bool {
	if user == nil || lead == nil {
		return false
	}
	return user.IsAdmin() || lead.IsAssignedTo(user.ID) || lead.CreatedBy == user.ID
}

// CanDeleteLead: admins and the creator.
func CanDeleteLead(user *domain.User, lead *domain.Lead) bool {
	if user == nil || lead == nil {
		return false
	}
	return user.IsAdmin() || lead.CreatedBy == user.ID
}

// CanAssignLead reports whether user may change a lead's assignee.
func CanAssignLead(user *domain.User) bool {
	return user.IsAdmin()
}

// CanEditProposal: admins and the creator. Proposals have no assignee.
func CanEditProposal(user *domain.User, proposal *domain.Proposal) bool {
	if user == nil || proposal == nil {
		return false
	}
	return user.IsAdmin() || proposal.CreatedBy == user.ID
}

// CanDeleteProposal mirrors CanEditProposal.
func CanDeleteProposal(user *domain.User, proposal *domain.Proposal) bool {
	return CanEditProposal(user, proposal)
}
