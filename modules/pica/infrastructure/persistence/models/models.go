package models

import (
	"database/sql"
	"time"
)

type Pica struct {
	ID                 uint
	BusinessKey        string
	OrganizationID     string
	ProjectSiteID      int64
	Date               time.Time
	Issue              string
	ProblemDescription sql.NullString
	CorrectiveAction   sql.NullString
	PersonInChargeID   int64
	DueDate            time.Time
	Status             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type PicaHistory struct {
	ID        uint
	PicaID    uint
	ActorID   sql.NullInt64
	OldStatus string
	NewStatus string
	Comment   string
	Timestamp time.Time

	// Joined from actors on read.
	ActorName sql.NullString
}
