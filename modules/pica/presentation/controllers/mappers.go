package controllers

import (
	"time"

	"github.com/hseworks/picatrack/modules/pica/domain/aggregates/pica"
	"github.com/hseworks/picatrack/modules/pica/domain/entities/history"
)

type picaResponse struct {
	ID                 uint      `json:"id"`
	BusinessKey        string    `json:"business_key"`
	OrganizationID     string    `json:"organization_id"`
	ProjectSiteID      uint      `json:"project_site_id"`
	Date               time.Time `json:"date"`
	Issue              string    `json:"issue"`
	ProblemDescription string    `json:"problem_description"`
	CorrectiveAction   string    `json:"corrective_action"`
	PersonInChargeID   uint      `json:"person_in_charge_id"`
	DueDate            time.Time `json:"due_date"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toPicaResponse(p *pica.Pica) picaResponse {
	return picaResponse{
		ID:                 p.ID(),
		BusinessKey:        p.BusinessKey(),
		OrganizationID:     p.OrganizationID().String(),
		ProjectSiteID:      p.ProjectSiteID(),
		Date:               p.Date(),
		Issue:              p.Issue(),
		ProblemDescription: p.ProblemDescription(),
		CorrectiveAction:   p.CorrectiveAction(),
		PersonInChargeID:   p.PersonInChargeID(),
		DueDate:            p.DueDate(),
		Status:             string(p.Status()),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
	}
}

type historyResponse struct {
	ID        uint      `json:"id"`
	PicaID    uint      `json:"pica_id"`
	ActorID   *uint     `json:"actor_id"`
	ActorName string    `json:"actor_name,omitempty"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

func toHistoryResponse(e *history.Entry) historyResponse {
	return historyResponse{
		ID:        e.ID(),
		PicaID:    e.PicaID(),
		ActorID:   e.ActorID(),
		ActorName: e.ActorName(),
		OldStatus: string(e.OldStatus()),
		NewStatus: string(e.NewStatus()),
		Comment:   e.Comment(),
		Timestamp: e.Timestamp(),
	}
}
