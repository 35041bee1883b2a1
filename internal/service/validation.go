package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mahajanautomation/crm-backend/internal/domain"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// enumValue is satisfied by the closed string enums in domain.
type enumValue interface {
	Valid() bool
}

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("crm_email", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
			value, ok := fl.Field().Interface().(enumValue)
			return ok && value.Valid()
		})
		validate = v
	})
	return validate
}

// validateRecord runs struct tags on record and converts failures to a VALIDATION_FAILED
// error with one message per field.
func validateRecord(record any) error {
	err := recordValidator().Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewInternalError(err)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return apperrors.NewValidationError("validation failed", details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "crm_email":
		return "must be a valid email address"
	case "enum":
		return "is not a recognised value"
	case "gte":
		return "must not be negative"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// The rule structs below mirror the entity forms. They are filled from a candidate record
// after trimming so whitespace-only input counts as missing.

type leadRules struct {
	CompanyName   string            `json:"company_name" validate:"required"`
	ContactPerson string            `json:"contact_person" validate:"required"`
	Email         string            `json:"email" validate:"required,crm_email"`
	Phone         string            `json:"phone" validate:"required"`
	Application   string            `json:"application" validate:"required"`
	Status        domain.LeadStatus `json:"status" validate:"enum"`
	Source        domain.LeadSource `json:"source" validate:"enum"`
}

func validateLead(lead *domain.Lead) error {
	return validateRecord(leadRules{
		CompanyName:   lead.CompanyName,
		ContactPerson: lead.ContactPerson,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Application:   lead.Application,
		Status:        lead.Status,
		Source:        lead.Source,
	})
}

type proposalRules struct {
	LeadID     string                `json:"lead_id" validate:"required"`
	TemplateID string                `json:"template_id" validate:"required"`
	Title      string                `json:"title" validate:"required"`
	Robot      string                `json:"robot" validate:"required"`
	Cost       decimal.Decimal       `json:"cost" validate:"gte=0"`
	Status     domain.ProposalStatus `json:"status" validate:"enum"`
}

func validateProposal(proposal *domain.Proposal) error {
	return validateRecord(proposalRules{
		LeadID:     proposal.LeadID,
		TemplateID: proposal.TemplateID,
		Title:      proposal.Title,
		Robot:      proposal.Robot,
		Cost:       proposal.Cost,
		Status:     proposal.Status,
	})
}

type sparePartRules struct {
	Name       string          `json:"name" validate:"required"`
	PartNumber string          `json:"part_number" validate:"required"`
	Brand      string          `json:"brand" validate:"required"`
	Category   string          `json:"category" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"gte=0"`
}

func validateSparePart(part *domain.SparePart) error {
	return validateRecord(sparePartRules{
		Name:       part.Name,
		PartNumber: part.PartNumber,
		Brand:      part.Brand,
		Category:   part.Category,
		Price:      part.Price,
	})
}

type templateRules struct {
	Name          string `json:"name" validate:"required"`
	HeaderContent string `json:"header_content" validate:"required"`
	FooterContent string `json:"footer_content" validate:"required"`
}

func validateTemplate(template *domain.ProposalTemplate) error {
	return validateRecord(templateRules{
		Name:          template.Name,
		HeaderContent: template.HeaderContent,
		FooterContent: template.FooterContent,
	})
}

type memoRules struct {
	Content  string              `json:"content" validate:"required"`
	Category domain.MemoCategory `json:"category" validate:"enum"`
}

type followUpRules struct {
	Content string              `json:"content" validate:"required"`
	Type    domain.FollowUpType `json:"type" validate:"enum"`
}

type userRules struct {
	Email    string      `json:"email" validate:"required,crm_email"`
	Name     string      `json:"name" validate:"required"`
	Role     domain.Role `json:"role" validate:"enum"`
	Password string      `json:"password" validate:"required,min=6"`
}

// setTrimmed assigns the trimmed value of src to dst when src is present.
func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
