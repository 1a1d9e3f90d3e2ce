package domain

import (
	"time"

	"github.com/google/uuid"
)

type GigStatus string

const (
	GigOpen     GigStatus = "OPEN"
	GigAssigned GigStatus = "ASSIGNED"
)

func (s GigStatus) IsValid() bool {
	switch s {
	case GigOpen, GigAssigned:
		return true
	default:
		return false
	}
}

type Gig struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	Title             string     `json:"title" db:"title"`
	Description       string     `json:"description" db:"description"`
	Budget            float64    `json:"budget" db:"budget"`
	Status            GigStatus  `json:"status" db:"status"`
	OwnerID           uuid.UUID  `json:"owner_id" db:"owner_id"`
	HiredFreelancerID *uuid.UUID `json:"hired_freelancer_id" db:"hired_freelancer_id"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`

	BidCount int64        `json:"bid_count" db:"bid_count"`
	Owner    *UserSummary `json:"owner,omitempty" db:"-"`
}

type CreateGigInput struct {
	Title       string  `json:"title" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"required,min=10,max=2000"`
	Budget      float64 `json:"budget" validate:"required,gte=0.01,lte=9999999999.99"`
}

type UpdateGigInput struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=10,max=2000"`
	Budget      *float64 `json:"budget,omitempty" validate:"omitempty,gte=0.01,lte=9999999999.99"`
}

type GigFilter struct {
	Search  string
	Status  GigStatus
	OwnerID *uuid.UUID
}
