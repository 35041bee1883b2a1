package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mahajanautomation/crm-backend/internal/api/http/handlers"
	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/config"
	"github.com/mahajanautomation/crm-backend/internal/events"
	"github.com/mahajanautomation/crm-backend/internal/observability"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	"github.com/mahajanautomation/crm-backend/internal/seed"
	"github.com/mahajanautomation/crm-backend/internal/service"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	clock := timeutil.SystemClock{}
	repos := repository.NewMemorySet()
	if err := seed.Load(context.Background(), repos, 4, clock.Now(), logger); err != nil {
		t.Fatalf("seed: %v", err)
	}

	sessions := auth.NewMemorySessionStore(nil)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics("test")
	metrics.SubscribeEvents(dispatcher)

	authService := service.NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 60, BcryptCost: 4}, service.AuthDependencies{
		UserRepo:     repos.Users,
		SessionStore: sessions,
		Clock:        clock,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		LeadRepo: repos.Leads, ProposalRepo: repos.Proposals, UserRepo: repos.Users, Clock: clock,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, MiddlewareConfig{AllowOrigins: "*"})
	RegisterRoutes(app, RouteConfig{
		Health:     handlers.NewHealthHandler("test", "dev", nil),
		Users:      handlers.NewUsersHandler(authService),
		Navigation: handlers.NewNavigationHandler(reportService),
		Leads: handlers.NewLeadsHandler(service.NewLeadService(service.LeadDependencies{
			LeadRepo: repos.Leads, ProposalRepo: repos.Proposals, UserRepo: repos.Users,
			SparePartRepo: repos.SpareParts, Clock: clock, Dispatcher: dispatcher,
		})),
		Proposals: handlers.NewProposalsHandler(service.NewProposalService(service.ProposalDependencies{
			ProposalRepo: repos.Proposals, LeadRepo: repos.Leads, TemplateRepo: repos.Templates,
			SparePartRepo: repos.SpareParts, Clock: clock, Dispatcher: dispatcher,
		})),
		SpareParts: handlers.NewSparePartsHandler(service.NewSparePartService(service.SparePartDependencies{
			SparePartRepo: repos.SpareParts, LeadRepo: repos.Leads, ProposalRepo: repos.Proposals, Clock: clock,
		})),
		Templates: handlers.NewTemplatesHandler(service.NewTemplateService(service.TemplateDependencies{
			TemplateRepo: repos.Templates, ProposalRepo: repos.Proposals, Clock: clock,
		})),
		Reports:        handlers.NewReportsHandler(reportService),
		Metrics:        metrics,
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), sessions, repos.Users),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := do(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, resp.StatusCode, body)
	}
	var out struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Data.Token == "" {
		t.Fatalf("decode login: %v %s", err, body)
	}
	return out.Data.Token
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var out errorBody
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode error body: %v %s", err, body)
	}
	return out
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)
	resp, body := do(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"admin@mahajanautomation.com","password":"wrong"}`)
	if resp.StatusCode != http.StatusUnauthorized || decodeError(t, body).Error.Code != "UNAUTHORIZED" {
		t.Fatalf("got %d %s", resp.StatusCode, body)
	}
}

func TestProtectedRoutesRequireSessionAndRole(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, http.MethodGet, "/api/leads", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d %s", resp.StatusCode, body)
	}
	if got := decodeError(t, body).Error.Details["redirect"]; got != "/login" {
		t.Fatalf("anonymous redirect: %v", got)
	}

	token := login(t, app, seed.EngineerEmail, seed.EngineerPassword)
	resp, body = do(t, app, http.MethodGet, "/api/reports/summary", token, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("engineer on reports: %d %s", resp.StatusCode, body)
	}
	if got := decodeError(t, body).Error.Details["redirect"]; got != "/dashboard" {
		t.Fatalf("engineer redirect: %v", got)
	}

	resp, _ = do(t, app, http.MethodGet, "/api/spare-parts", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("engineer on spare parts: %d", resp.StatusCode)
	}

	resp, _ = do(t, app, http.MethodPost, "/api/auth/logout", token, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: %d", resp.StatusCode)
	}
	resp, _ = do(t, app, http.MethodGet, "/api/auth/me", token, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("token should be dead after logout: %d", resp.StatusCode)
	}
}

func TestResolveRouteEndpoint(t *testing.T) {
	app := newTestApp(t)

	_, body := do(t, app, http.MethodGet, "/api/navigation/resolve?path=/reports", "", "")
	if !strings.Contains(string(body), `"target":"/login"`) {
		t.Fatalf("anonymous resolve: %s", body)
	}

	token := login(t, app, seed.EngineerEmail, seed.EngineerPassword)
	_, body = do(t, app, http.MethodGet, "/api/navigation/resolve?path=/reports", token, "")
	if !strings.Contains(string(body), `"target":"/dashboard"`) || !strings.Contains(string(body), `"allowed":false`) {
		t.Fatalf("engineer resolve: %s", body)
	}
}

func TestLeadLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, seed.EngineerEmail, seed.EngineerPassword)

	resp, body := do(t, app, http.MethodPost, "/api/leads", token, `{"company_name":"Acme","contact_person":"Ann","email":"ann@acme.com","phone":"+91 1","application":"Vision System"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %s", resp.StatusCode, body)
	}
	var created struct {
		Data struct {
			ID          string `json:"id"`
			Permissions struct {
				CanEdit   bool `json:"can_edit"`
				CanDelete bool `json:"can_delete"`
			} `json:"permissions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if !created.Data.Permissions.CanEdit || !created.Data.Permissions.CanDelete {
		t.Fatalf("creator permissions: %s", body)
	}

	resp, body = do(t, app, http.MethodPost, "/api/leads", token, `{"company_name":"","contact_person":"Ann","email":"bad","phone":"1","application":"x"}`)
	if resp.StatusCode != http.StatusBadRequest || decodeError(t, body).Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("invalid create: %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, app, http.MethodPut, "/api/leads/does-not-exist", token, `{"status":"won"}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("update of missing lead: %d", resp.StatusCode)
	}

	resp, body = do(t, app, http.MethodPut, "/api/leads/"+created.Data.ID, token, `{"status":"won"}`)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"status":"won"`) {
		t.Fatalf("update: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, app, http.MethodGet, "/api/leads?status=won", token, "")
	if resp.StatusCode != http.StatusOK || strings.Count(string(body), `"company_name"`) != 2 {
		t.Fatalf("won filter should match the seeded lead and the new one: %s", body)
	}

	// Seeded lead 1 has a proposal.
	resp, body = do(t, app, http.MethodDelete, "/api/leads/1", token, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("delete referenced lead: %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, app, http.MethodDelete, "/api/leads/"+created.Data.ID, token, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: %d", resp.StatusCode)
	}
}

func TestReportExportOverHTTP(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, seed.AdminEmail, seed.AdminPassword)

	resp, body := do(t, app, http.MethodGet, "/api/reports/export?type=proposals", token, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: %d %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv") {
		t.Fatalf("content type: %s", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), `proposals_report_`) || resp.Header.Get("X-Report-Rows") != "2" {
		t.Fatalf("headers: %v", resp.Header)
	}
	lines := strings.Split(string(body), "\n")
	if len(lines) != 3 || lines[0] != "Title,Robot,Brand,Cost,Status,Created Date,Created By" {
		t.Fatalf("csv: %q", body)
	}
	if lines[1] != `"Material Handling System Proposal","R-2000iA/100P","Fanuc",251000,"sent",16/1/2024,"Sales Engineer 1"` {
		t.Fatalf("first row: %q", lines[1])
	}

	resp, body = do(t, app, http.MethodGet, "/api/reports/export?type=leads&status=hold", token, "")
	if resp.StatusCode != http.StatusNotFound || decodeError(t, body).Error.Code != "NO_DATA" {
		t.Fatalf("empty export: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, app, http.MethodGet, "/api/reports/export?type=leads&from=2024-01-12&to=2024-01-10", token, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("inverted range: %d %s", resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	do(t, app, http.MethodGet, "/health/live", "", "")

	resp, body := do(t, app, http.MethodGet, "/metrics", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "test_http_requests_total") {
		t.Fatalf("metrics: %d %s", resp.StatusCode, body)
	}
}
