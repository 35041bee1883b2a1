package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mahajanautomation/crm-backend/internal/domain"
)

func TestMemoryLeadRepositoryReturnsClones(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLeadRepository()

	lead := &domain.Lead{ID: "1", CompanyName: "ABC", SpareParts: []string{"p1"}}
	if err := repo.Create(ctx, lead); err != nil {
		t.Fatal(err)
	}
	lead.SpareParts[0] = "mutated"

	got, err := repo.GetByID(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if got.SpareParts[0] != "p1" {
		t.Fatalf("store shares caller slice: %v", got.SpareParts)
	}

	got.Memos = append(got.Memos, domain.Memo{ID: "m"})
	again, _ := repo.GetByID(ctx, "1")
	if len(again.Memos) != 0 {
		t.Fatal("reader mutation leaked into store")
	}
}

func TestMemoryListSnapshotIsStable(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLeadRepository()
	for i := 1; i <= 3; i++ {
		_ = repo.Create(ctx, &domain.Lead{ID: fmt.Sprint(i), CompanyName: fmt.Sprintf("Co %d", i)})
	}

	snapshot, _ := repo.List(ctx, LeadFilter{})
	_ = repo.Delete(ctx, "2")
	_ = repo.Update(ctx, &domain.Lead{ID: "1", CompanyName: "Renamed"})

	if len(snapshot) != 3 || snapshot[0].CompanyName != "Co 1" {
		t.Fatalf("snapshot changed after writes: %+v", snapshot)
	}
	current, _ := repo.List(ctx, LeadFilter{})
	if len(current) != 2 || current[0].CompanyName != "Renamed" || current[1].ID != "3" {
		t.Fatalf("unexpected current listing: %+v", current)
	}
}

func TestMemoryRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProposalRepository()

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, &domain.Proposal{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete of missing id should be a no-op, got %v", err)
	}
	_ = repo.Create(ctx, &domain.Proposal{ID: "1"})
	if err := repo.Create(ctx, &domain.Proposal{ID: "1"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	users := NewMemoryUserRepository()
	_ = users.Create(ctx, &domain.User{ID: "1", Email: "a@b.com"})
	if err := users.Create(ctx, &domain.User{ID: "2", Email: "A@B.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected case-insensitive email clash, got %v", err)
	}
	if u, err := users.GetByEmail(ctx, "A@b.COM"); err != nil || u.ID != "1" {
		t.Fatalf("lookup by email: %v %v", u, err)
	}
}

func TestLeadFilterMatches(t *testing.T) {
	assigned := "2"
	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	lead := &domain.Lead{
		CompanyName:   "ABC Manufacturing",
		ContactPerson: "John Doe",
		Email:         "john@abc.com",
		Status:        domain.LeadStatusNew,
		Source:        domain.LeadSourceWebsite,
		AssignedTo:    &assigned,
		CreatedBy:     "2",
		CreatedAt:     created,
	}
	before := created.Add(-time.Hour)
	after := created.Add(time.Hour)

	cases := []struct {
		name   string
		filter LeadFilter
		want   bool
	}{
		{"empty", LeadFilter{}, true},
		{"status", LeadFilter{Status: domain.LeadStatusNew}, true},
		{"other status", LeadFilter{Status: domain.LeadStatusWon}, false},
		{"search company", LeadFilter{Search: "abc"}, true},
		{"search contact", LeadFilter{Search: "DOE"}, true},
		{"search miss", LeadFilter{Search: "zzz"}, false},
		{"assignee", LeadFilter{AssignedTo: "2"}, true},
		{"other assignee", LeadFilter{AssignedTo: "3"}, false},
		{"in range", LeadFilter{CreatedFrom: &before, CreatedTo: &after}, true},
		{"inclusive bounds", LeadFilter{CreatedFrom: &created, CreatedTo: &created}, true},
		{"after range", LeadFilter{CreatedTo: &before}, false},
		{"combined miss", LeadFilter{Status: domain.LeadStatusNew, Source: domain.LeadSourcePhone}, false},
	}
	for _, tc := range cases {
		if got := tc.filter.Matches(lead); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSparePartFilterMatches(t *testing.T) {
	part := &domain.SparePart{Name: "Motor Drive Unit", PartNumber: "MDU-001", Brand: "Fanuc", Category: "Motor", InStock: true}
	outOfStock := false

	if !(SparePartFilter{Category: "motor", Brand: "FANUC", Search: "mdu"}).Matches(part) {
		t.Fatal("expected case-insensitive match")
	}
	if (SparePartFilter{InStock: &outOfStock}).Matches(part) {
		t.Fatal("in-stock filter ignored")
	}
}

func defaults(t *testing.T, repo TemplateRepository) []string {
	t.Helper()
	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, item := range items {
		if item.IsDefault {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func TestMemoryTemplateRepositoryKeepsSingleDefault(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTemplateRepository()

	first := &domain.ProposalTemplate{ID: "1", Name: "First"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	if !first.IsDefault {
		t.Fatal("first template should become default")
	}

	_ = repo.Create(ctx, &domain.ProposalTemplate{ID: "2", Name: "Second"})
	_ = repo.Create(ctx, &domain.ProposalTemplate{ID: "3", Name: "Third", IsDefault: true})
	if got := defaults(t, repo); len(got) != 1 || got[0] != "3" {
		t.Fatalf("after create default: %v", got)
	}

	// Clearing the flag on the current default is ignored.
	_ = repo.Update(ctx, &domain.ProposalTemplate{ID: "3", Name: "Third", IsDefault: false})
	if got := defaults(t, repo); len(got) != 1 || got[0] != "3" {
		t.Fatalf("after unflag attempt: %v", got)
	}

	if err := repo.SetDefault(ctx, "2"); err != nil {
		t.Fatal(err)
	}
	if got := defaults(t, repo); len(got) != 1 || got[0] != "2" {
		t.Fatalf("after SetDefault: %v", got)
	}
	if err := repo.SetDefault(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_ = repo.Delete(ctx, "2")
	if got := defaults(t, repo); len(got) != 1 || got[0] != "1" {
		t.Fatalf("after deleting default the earliest remaining should be promoted: %v", got)
	}

	_ = repo.Delete(ctx, "1")
	_ = repo.Delete(ctx, "3")
	if got := defaults(t, repo); len(got) != 0 {
		t.Fatalf("empty repository has defaults: %v", got)
	}
}

func TestMemoryLeadModifyAndDeleteIf(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryLeadRepository()
	_ = repo.Create(ctx, &domain.Lead{ID: "1", CompanyName: "ABC", Memos: []domain.Memo{}})

	rejected := errors.New("rejected")
	err := repo.Modify(ctx, "1", func(lead *domain.Lead) error {
		lead.CompanyName = "changed"
		return rejected
	})
	if !errors.Is(err, rejected) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if stored, _ := repo.GetByID(ctx, "1"); stored.CompanyName != "ABC" {
		t.Fatalf("failed modify leaked a write: %q", stored.CompanyName)
	}

	err = repo.Modify(ctx, "1", func(lead *domain.Lead) error {
		lead.Memos = append(lead.Memos, domain.Memo{ID: "m1"})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if stored, _ := repo.GetByID(ctx, "1"); len(stored.Memos) != 1 {
		t.Fatalf("modify not stored: %+v", stored.Memos)
	}
	if err := repo.Modify(ctx, "missing", func(*domain.Lead) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.DeleteIf(ctx, "1", func(*domain.Lead) error { return rejected }); !errors.Is(err, rejected) {
		t.Fatalf("expected guard error, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "1"); err != nil {
		t.Fatalf("guarded delete removed the lead: %v", err)
	}
	if err := repo.DeleteIf(ctx, "1", nil); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteIf(ctx, "1", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Hold(ctx, "1", func(domain.Lead) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("hold of deleted lead: %v", err)
	}
}
