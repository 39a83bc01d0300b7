package pica

import (
	"time"

	"github.com/google/uuid"
)

// Pica is a corrective-action issue record raised against a project site.
// Project sites and persons in charge are read-only collaborators referenced
// by id; the record never mutates them.
type Pica struct {
	id                 uint
	businessKey        string
	organizationID     uuid.UUID
	projectSiteID      uint
	date               time.Time
	issue              string
	problemDescription string
	correctiveAction   string
	personInChargeID   uint
	dueDate            time.Time
	status             Status
	createdAt          time.Time
	updatedAt          time.Time
}

type Option func(*Pica)

func WithID(id uint) Option {
	return func(p *Pica) {
		p.id = id
	}
}

func WithOrganizationID(organizationID uuid.UUID) Option {
	return func(p *Pica) {
		p.organizationID = organizationID
	}
}

func WithProjectSiteID(projectSiteID uint) Option {
	return func(p *Pica) {
		p.projectSiteID = projectSiteID
	}
}

func WithDate(date time.Time) Option {
	return func(p *Pica) {
		p.date = date
	}
}

func WithIssue(issue string) Option {
	return func(p *Pica) {
		p.issue = issue
	}
}

func WithProblemDescription(problemDescription string) Option {
	return func(p *Pica) {
		p.problemDescription = problemDescription
	}
}

func WithCorrectiveAction(correctiveAction string) Option {
	return func(p *Pica) {
		p.correctiveAction = correctiveAction
	}
}

func WithPersonInChargeID(personInChargeID uint) Option {
	return func(p *Pica) {
		p.personInChargeID = personInChargeID
	}
}

func WithDueDate(dueDate time.Time) Option {
	return func(p *Pica) {
		p.dueDate = dueDate
	}
}

func WithStatus(status Status) Option {
	return func(p *Pica) {
		p.status = status
	}
}

func WithCreatedAt(createdAt time.Time) Option {
	return func(p *Pica) {
		p.createdAt = createdAt
	}
}

func WithUpdatedAt(updatedAt time.Time) Option {
	return func(p *Pica) {
		p.updatedAt = updatedAt
	}
}

// New creates a record with the default progress status.
func New(businessKey string, opts ...Option) *Pica {
	p := &Pica{
		businessKey: businessKey,
		date:        time.Now(),
		status:      StatusProgress,
		createdAt:   time.Now(),
		updatedAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pica) ID() uint {
	return p.id
}

func (p *Pica) BusinessKey() string {
	return p.businessKey
}

func (p *Pica) OrganizationID() uuid.UUID {
	return p.organizationID
}

func (p *Pica) ProjectSiteID() uint {
	return p.projectSiteID
}

func (p *Pica) Date() time.Time {
	return p.date
}

func (p *Pica) Issue() string {
	return p.issue
}

func (p *Pica) ProblemDescription() string {
	return p.problemDescription
}

func (p *Pica) CorrectiveAction() string {
	return p.correctiveAction
}

func (p *Pica) PersonInChargeID() uint {
	return p.personInChargeID
}

func (p *Pica) DueDate() time.Time {
	return p.dueDate
}

func (p *Pica) Status() Status {
	return p.status
}

func (p *Pica) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Pica) UpdatedAt() time.Time {
	return p.updatedAt
}
