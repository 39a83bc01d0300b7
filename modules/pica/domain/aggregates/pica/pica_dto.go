package pica

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hseworks/picatrack/pkg/constants"
	"github.com/hseworks/picatrack/pkg/serrors"
)

type CreateDTO struct {
	BusinessKey        string    `json:"business_key" validate:"required"`
	ProjectSiteID      uint      `json:"project_site_id" validate:"required"`
	Date               time.Time `json:"date"`
	Issue              string    `json:"issue" validate:"required"`
	ProblemDescription string    `json:"problem_description"`
	CorrectiveAction   string    `json:"corrective_action"`
	PersonInChargeID   uint      `json:"person_in_charge_id" validate:"required"`
	DueDate            time.Time `json:"due_date" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.BusinessKey = strings.TrimSpace(d.BusinessKey)
	d.Issue = strings.TrimSpace(d.Issue)
}

// Ok validates the payload, returning per-field errors on failure.
func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	err := constants.Validate.Struct(d)
	if err == nil {
		return nil, true
	}
	return serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)), false
}

// ToEntity builds a new record from the payload. The organization is assigned
// by the repository from the actor's context, never from the payload.
func (d *CreateDTO) ToEntity() *Pica {
	opts := []Option{
		WithProjectSiteID(d.ProjectSiteID),
		WithIssue(d.Issue),
		WithProblemDescription(d.ProblemDescription),
		WithCorrectiveAction(d.CorrectiveAction),
		WithPersonInChargeID(d.PersonInChargeID),
		WithDueDate(d.DueDate),
	}
	if !d.Date.IsZero() {
		opts = append(opts, WithDate(d.Date))
	}
	return New(d.BusinessKey, opts...)
}

// UpdateDTO carries a partial field set; nil fields are left untouched.
// Comment and UpdateDate feed the audit trail, not the record itself.
type UpdateDTO struct {
	ProjectSiteID      *uint      `json:"project_site_id"`
	Date               *time.Time `json:"date"`
	Issue              *string    `json:"issue"`
	ProblemDescription *string    `json:"problem_description"`
	CorrectiveAction   *string    `json:"corrective_action"`
	PersonInChargeID   *uint      `json:"person_in_charge_id"`
	DueDate            *time.Time `json:"due_date"`
	Status             *Status    `json:"status"`

	Comment    string     `json:"comment"`
	UpdateDate *time.Time `json:"update_date"`
}

// Ok validates the partial payload.
func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	errs := make(serrors.ValidationErrors)
	if d.Issue != nil && strings.TrimSpace(*d.Issue) == "" {
		errs["Issue"] = serrors.NewFieldRequiredError("Issue")
	}
	if d.Status != nil && !d.Status.Valid() {
		errs["Status"] = serrors.NewInvalidFieldError("Status", "status must be one of progress, complete, overdue")
	}
	if len(errs) > 0 {
		return errs, false
	}
	return nil, true
}

// Apply produces a copy of current with the non-nil fields overwritten and
// updatedAt refreshed to the override timestamp or now.
func (d *UpdateDTO) Apply(current *Pica) *Pica {
	updatedAt := time.Now()
	if d.UpdateDate != nil {
		updatedAt = *d.UpdateDate
	}

	next := *current
	if d.ProjectSiteID != nil {
		next.projectSiteID = *d.ProjectSiteID
	}
	if d.Date != nil {
		next.date = *d.Date
	}
	if d.Issue != nil {
		next.issue = strings.TrimSpace(*d.Issue)
	}
	if d.ProblemDescription != nil {
		next.problemDescription = *d.ProblemDescription
	}
	if d.CorrectiveAction != nil {
		next.correctiveAction = *d.CorrectiveAction
	}
	if d.PersonInChargeID != nil {
		next.personInChargeID = *d.PersonInChargeID
	}
	if d.DueDate != nil {
		next.dueDate = *d.DueDate
	}
	if d.Status != nil {
		next.status = *d.Status
	}
	next.updatedAt = updatedAt
	return &next
}
