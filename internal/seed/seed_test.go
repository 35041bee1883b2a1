package seed

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/repository"
)

func TestLoadSeedsOnceAndKeepsOneDefaultTemplate(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemorySet()
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if err := Load(ctx, repos, 4, now, zap.NewNop()); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}

	users, _ := repos.Users.List(ctx)
	leads, _ := repos.Leads.List(ctx, repository.LeadFilter{})
	proposals, _ := repos.Proposals.List(ctx, repository.ProposalFilter{})
	parts, _ := repos.SpareParts.List(ctx, repository.SparePartFilter{})
	templates, _ := repos.Templates.List(ctx)
	if len(users) != 4 || len(leads) != 3 || len(proposals) != 2 || len(parts) != 2 || len(templates) != 1 {
		t.Fatalf("unexpected counts: users=%d leads=%d proposals=%d parts=%d templates=%d",
			len(users), len(leads), len(proposals), len(parts), len(templates))
	}
	if !templates[0].IsDefault {
		t.Fatal("seeded template should be default")
	}

	admin, err := repos.Users.GetByEmail(ctx, AdminEmail)
	if err != nil || !auth.PasswordMatches(admin.PasswordHash, AdminPassword) {
		t.Fatalf("admin credentials not usable: %v", err)
	}
	manager, _ := repos.Users.GetByID(ctx, "4")
	if auth.PasswordMatches(manager.PasswordHash, "") {
		t.Fatal("accounts without a password must not log in")
	}
}
