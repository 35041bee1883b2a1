package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller and the session it authenticated with.
type Principal struct {
	Session Session
	User    *domain.User
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions SessionStore
	users    repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionStore, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.authenticate(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional loads the principal when a valid token is present and continues either way.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) != "" {
		if principal, err := m.authenticate(c); err == nil {
			c.Locals(principalKey, principal)
		}
	}
	return c.Next()
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*Principal, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, unauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, unauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, unauthenticated("invalid token")
	}

	session, err := m.sessions.Get(c.UserContext(), claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, unauthenticated("session expired")
		}
		return nil, apperrors.MapError(err)
	}
	if session.UserID != claims.UserID {
		return nil, unauthenticated("invalid token")
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthenticated("user not found")
		}
		return nil, apperrors.MapError(err)
	}

	return &Principal{Session: *session, User: user}, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *fiber.Ctx) *domain.User {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return principal.User
}

// RequireRoute admits callers whose role may open route. Denied callers are told where to go
// instead: the login screen when anonymous, the dashboard otherwise.
func RequireRoute(route domain.Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthenticated("authentication required")
		}
		if !CanAccessRoute(user.Role, route) {
			return apperrors.NewDomainError(apperrors.CodeForbidden, "insufficient role", http.StatusForbidden, map[string]any{
				"route":    string(route),
				"redirect": string(ResolveRoute(user, route)),
			})
		}
		return c.Next()
	}
}

func unauthenticated(message string) error {
	return apperrors.NewDomainError(apperrors.CodeUnauthorized, message, http.StatusUnauthorized, map[string]any{
		"redirect": string(domain.RouteLogin),
	})
}
