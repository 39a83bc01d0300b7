package models

import "time"

type Organization struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Actor struct {
	ID             uint
	OrganizationID string
	Name           string
	Email          string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
