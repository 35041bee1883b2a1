// Package seed loads the demo workspace: two login accounts, a few colleagues, sample leads,
// proposals, spare parts and the default proposal template.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/repository"
)

// Demo credentials.
const (
	AdminEmail       = "admin@mahajanautomation.com"
	AdminPassword    = "admin123"
	EngineerEmail    = "engineer@mahajanautomation.com"
	EngineerPassword = "engineer123"
)

const companyAddress = "Mahajan Automation (Pune)\n" +
	"Address: Gate No. 441, S.No. 474/1 Lawasa road, Near primary school, Mukaiwadi, Tal.Mulshi Poud Rd, Pirangut, Maharashtra 412115\n" +
	"info@mahajanautomation.com\n" +
	"+91 84848 79901 (India)"

// Load inserts the demo records unless users already exist. now stamps records whose original
// creation time is not fixed.
func Load(ctx context.Context, repos repository.Set, bcryptCost int, now time.Time, logger *zap.Logger) error {
	existing, err := repos.Users.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("seed skipped; users already present", zap.Int("users", len(existing)))
		return nil
	}

	users, err := demoUsers(bcryptCost, now)
	if err != nil {
		return err
	}
	for i := range users {
		if err := repos.Users.Create(ctx, &users[i]); err != nil {
			return fmt.Errorf("seed user %s: %w", users[i].Email, err)
		}
	}

	for _, part := range demoSpareParts(now) {
		part := part
		if err := repos.SpareParts.Create(ctx, &part); err != nil {
			return fmt.Errorf("seed spare part %s: %w", part.PartNumber, err)
		}
	}

	template := domain.ProposalTemplate{
		ID:            "1",
		Name:          "Standard Robotic System Template",
		HeaderContent: companyAddress,
		FooterContent: companyAddress,
		LogoURL:       "https://mahajanautomation.com/wp-content/uploads/2023/03/logo-1-284x18.png",
		IsDefault:     true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := repos.Templates.Create(ctx, &template); err != nil {
		return fmt.Errorf("seed template: %w", err)
	}

	for _, lead := range demoLeads() {
		lead := lead
		if err := repos.Leads.Create(ctx, &lead); err != nil {
			return fmt.Errorf("seed lead %s: %w", lead.CompanyName, err)
		}
	}

	for _, proposal := range demoProposals() {
		proposal := proposal
		if err := repos.Proposals.Create(ctx, &proposal); err != nil {
			return fmt.Errorf("seed proposal %s: %w", proposal.Title, err)
		}
	}

	logger.Info("demo data seeded", zap.Int("users", len(users)))
	return nil
}

func demoUsers(bcryptCost int, now time.Time) ([]domain.User, error) {
	type account struct {
		id, email, name, password string
		role                      domain.Role
	}
	accounts := []account{
		{"1", AdminEmail, "Admin User", AdminPassword, domain.RoleAdmin},
		{"2", EngineerEmail, "Sales Engineer 1", EngineerPassword, domain.RoleSalesEngineer},
		{"3", "engineer2@mahajanautomation.com", "Sales Engineer 2", "", domain.RoleSalesEngineer},
		{"4", "manager@mahajanautomation.com", "Manager 1", "", domain.RoleManager},
	}

	users := make([]domain.User, 0, len(accounts))
	for _, a := range accounts {
		user := domain.User{ID: a.id, Email: a.email, Name: a.name, Role: a.role, CreatedAt: now}
		// Colleagues without a password exist for assignment and reporting only.
		if a.password != "" {
			hash, err := auth.HashPassword(a.password, bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hash
		}
		users = append(users, user)
	}
	return users, nil
}

func demoSpareParts(now time.Time) []domain.SparePart {
	return []domain.SparePart{
		{
			ID:          "1",
			Name:        "Motor Drive Unit",
			PartNumber:  "MDU-001",
			Description: "High performance motor drive for robotic systems",
			Brand:       "Fanuc",
			Category:    "Motor",
			Price:       decimal.NewFromInt(25000),
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          "2",
			Name:        "Control Panel",
			PartNumber:  "CP-002",
			Description: "Industrial control panel with touch interface",
			Brand:       "Siemens",
			Category:    "Control",
			Price:       decimal.NewFromInt(15000),
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

func demoLeads() []domain.Lead {
	assignee := func(id string) *string { return &id }
	lead := func(id, company, contact, email, phone, application string, status domain.LeadStatus, source domain.LeadSource, assigned, createdBy string, createdAt time.Time) domain.Lead {
		return domain.Lead{
			ID:            id,
			CompanyName:   company,
			ContactPerson: contact,
			Email:         email,
			Phone:         phone,
			Application:   application,
			Status:        status,
			Source:        source,
			AssignedTo:    assignee(assigned),
			SpareParts:    []string{},
			Memos:         []domain.Memo{},
			Attachments:   []domain.FileAttachment{},
			FollowUps:     []domain.FollowUp{},
			CreatedBy:     createdBy,
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		}
	}
	return []domain.Lead{
		lead("1", "ABC Manufacturing", "John Doe", "john@abc.com", "+91 9876543210",
			"Material & Warehouse Material Handling", domain.LeadStatusNew, domain.LeadSourceWebsite,
			"2", "2", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)),
		lead("2", "XYZ Industries", "Jane Smith", "jane@xyz.com", "+91 9876543211",
			"Robotic AGV / AMR", domain.LeadStatusProposalSent, domain.LeadSourcePhone,
			"2", "2", time.Date(2024, 1, 10, 14, 20, 0, 0, time.UTC)),
		lead("3", "Tech Solutions", "Mike Johnson", "mike@techsol.com", "+91 9876543212",
			"Vision System", domain.LeadStatusWon, domain.LeadSourceReferral,
			"3", "3", time.Date(2024, 1, 8, 11, 15, 0, 0, time.UTC)),
	}
}

func demoProposals() []domain.Proposal {
	return []domain.Proposal{
		{
			ID:          "1",
			LeadID:      "1",
			TemplateID:  "1",
			Title:       "Material Handling System Proposal",
			Robot:       "R-2000iA/100P",
			Controller:  "RJ3iB",
			Reach:       "3500",
			Payload:     "100",
			Brand:       "Fanuc",
			Cost:        decimal.NewFromInt(251000),
			Status:      domain.ProposalStatusSent,
			SpareParts:  []string{},
			Attachments: []domain.FileAttachment{},
			History:     []domain.ProposalHistory{},
			CreatedBy:   "2",
			CreatedAt:   time.Date(2024, 1, 16, 9, 15, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 16, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:          "2",
			LeadID:      "2",
			TemplateID:  "1",
			Title:       "AGV System Proposal",
			Robot:       "AGV-200X",
			Controller:  "AGV-Control",
			Reach:       "5000",
			Payload:     "500",
			Brand:       "KUKA",
			Cost:        decimal.NewFromInt(450000),
			Status:      domain.ProposalStatusNegotiating,
			SpareParts:  []string{},
			Attachments: []domain.FileAttachment{},
			History:     []domain.ProposalHistory{},
			CreatedBy:   "2",
			CreatedAt:   time.Date(2024, 1, 18, 14, 30, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 18, 14, 30, 0, 0, time.UTC),
		},
	}
}
