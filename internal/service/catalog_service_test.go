package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mahajanautomation/crm-backend/internal/repository"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

func TestSetDefaultLeavesExactlyOneDefault(t *testing.T) {
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("%d templates", n), func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			var ids []string
			for i := 0; i < n; i++ {
				ids = append(ids, f.createTemplate(t, fmt.Sprintf("Template %d", i)).ID)
			}

			for _, target := range ids {
				if _, err := f.templates.SetDefault(ctx, target); err != nil {
					t.Fatalf("SetDefault(%s): %v", target, err)
				}
				all, _ := f.templates.List(ctx)
				if len(all) != n {
					t.Fatalf("template count changed: %d", len(all))
				}
				for _, template := range all {
					if template.IsDefault != (template.ID == target) {
						t.Fatalf("template %s default=%v after selecting %s", template.ID, template.IsDefault, target)
					}
				}
			}
		})
	}
}

func TestTemplateLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.createTemplate(t, "First")
	if !first.IsDefault {
		t.Fatal("first template should be default")
	}
	second := f.createTemplate(t, "Second")
	if second.IsDefault {
		t.Fatal("second template should not steal the default")
	}

	if _, err := f.templates.SetDefault(ctx, "missing"); !apperrors.HasCode(err, "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if _, err := f.templates.Create(ctx, TemplateInput{Name: "No body"}); !apperrors.HasCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	if updated, err := f.templates.Update(ctx, "missing", TemplatePatch{Name: ptr("x")}); err != nil || updated != nil {
		t.Fatalf("update of missing template: %v %v", updated, err)
	}

	lead := f.createLead(t, engineer, validLead("ABC"))
	if _, err := f.proposals.Create(ctx, engineer, ProposalInput{LeadID: lead.ID, TemplateID: second.ID, Title: "T", Robot: "R"}); err != nil {
		t.Fatal(err)
	}
	if err := f.templates.Delete(ctx, second.ID); !apperrors.HasCode(err, "CONFLICT") {
		t.Fatalf("expected CONFLICT, got %v", err)
	}

	if err := f.templates.Delete(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	promoted, _ := f.templates.Get(ctx, second.ID)
	if !promoted.IsDefault {
		t.Fatal("remaining template should be promoted to default")
	}
}

func TestSparePartLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	part, err := f.parts.Create(ctx, SparePartInput{
		Name:       "Motor Drive Unit",
		PartNumber: "MDU-001",
		Brand:      "Fanuc",
		Category:   "Motor",
		Price:      decimal.NewFromInt(25000),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !part.InStock {
		t.Fatal("parts default to in stock")
	}

	if _, err := f.parts.Create(ctx, SparePartInput{Name: "Bad", PartNumber: "B", Brand: "X", Category: "Y", Price: decimal.NewFromInt(-1)}); !apperrors.HasCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected negative price to fail, got %v", err)
	}

	outOfStock := false
	updated, err := f.parts.Update(ctx, part.ID, SparePartPatch{InStock: &outOfStock})
	if err != nil {
		t.Fatal(err)
	}
	if updated.InStock {
		t.Fatal("in_stock not updated")
	}
	listed, _ := f.parts.List(ctx, repository.SparePartFilter{InStock: &outOfStock})
	if len(listed) != 1 {
		t.Fatalf("in_stock filter: %d", len(listed))
	}

	input := validLead("ABC")
	input.SpareParts = []string{part.ID}
	lead := f.createLead(t, engineer, input)
	if err := f.parts.Delete(ctx, part.ID); !apperrors.HasCode(err, "CONFLICT") {
		t.Fatalf("expected CONFLICT while referenced, got %v", err)
	}

	if _, err := f.leads.Update(ctx, engineer, lead.ID, LeadPatch{SpareParts: &[]string{}}); err != nil {
		t.Fatal(err)
	}
	if err := f.parts.Delete(ctx, part.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestProposalPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.createLead(t, engineer, validLead("ABC"))
	template := f.createTemplate(t, "Standard")

	proposal, err := f.proposals.Create(ctx, engineer, ProposalInput{
		LeadID: lead.ID, TemplateID: template.ID, Title: "Cell", Robot: "R-2000iA", Cost: decimal.RequireFromString("251000.50"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if proposal.Status != "draft" {
		t.Fatalf("default status: %s", proposal.Status)
	}

	if _, err := f.proposals.Update(ctx, engineer2, proposal.ID, ProposalPatch{Title: ptr("Mine")}); !apperrors.HasCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if _, err := f.proposals.Update(ctx, admin, proposal.ID, ProposalPatch{LeadID: ptr("missing")}); !apperrors.HasCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected unknown lead to fail, got %v", err)
	}
	if err := f.proposals.Delete(ctx, viewer, proposal.ID); !apperrors.HasCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if err := f.proposals.Delete(ctx, admin, proposal.ID); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteTemplateRacingProposalCreateLeavesNoOrphan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.createLead(t, engineer, validLead("ABC"))
	f.createTemplate(t, "Default")

	for i := 0; i < 50; i++ {
		template := f.createTemplate(t, fmt.Sprintf("Variant %d", i))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.proposals.Create(ctx, engineer, ProposalInput{
				LeadID: lead.ID, TemplateID: template.ID, Title: "Cell", Robot: "R-2000iA",
			})
			if err != nil && !apperrors.HasCode(err, "VALIDATION_FAILED") {
				t.Errorf("create proposal: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := f.templates.Delete(ctx, template.ID); err != nil && !apperrors.HasCode(err, "CONFLICT") {
				t.Errorf("delete template: %v", err)
			}
		}()
		wg.Wait()

		referencing, _ := f.proposals.List(ctx, repository.ProposalFilter{TemplateID: template.ID})
		_, getErr := f.templates.Get(ctx, template.ID)
		if len(referencing) > 0 && getErr != nil {
			t.Fatalf("proposal %s references deleted template %s", referencing[0].ID, template.ID)
		}
	}
}
