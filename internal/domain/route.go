package domain

// Route identifies a navigable screen of the CRM.
type Route string

const (
	RouteLogin             Route = "/login"
	RouteDashboard         Route = "/dashboard"
	RouteLeads             Route = "/leads"
	RouteProposals         Route = "/proposals"
	RouteUsers             Route = "/users"
	RouteReports           Route = "/reports"
	RouteSpareParts        Route = "/spare-parts"
	RouteProposalTemplates Route = "/proposal-templates"
)

// NavItem is a navigation entry shown to a user.
type NavItem struct {
	Name  string `json:"name"`
	Route Route  `json:"path"`
}

// ReportKind selects the collection a report exports.
type ReportKind string

const (
	ReportLeads     ReportKind = "leads"
	ReportProposals ReportKind = "proposals"
)

// Valid reports whether k is a known report kind.
func (k ReportKind) Valid() bool {
	return k == ReportLeads || k == ReportProposals
}
