package domain

import (
	"time"

	"github.com/google/uuid"
)

type BidStatus string

const (
	BidPending  BidStatus = "PENDING"
	BidHired    BidStatus = "HIRED"
	BidRejected BidStatus = "REJECTED"
)

type Bid struct {
	ID           uuid.UUID `json:"id" db:"id"`
	GigID        uuid.UUID `json:"gig_id" db:"gig_id"`
	FreelancerID uuid.UUID `json:"freelancer_id" db:"freelancer_id"`
	Message      string    `json:"message" db:"message"`
	Price        float64   `json:"price" db:"price"`
	Status       BidStatus `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Freelancer *UserSummary `json:"freelancer,omitempty" db:"-"`
	Gig        *Gig         `json:"gig,omitempty" db:"-"`
}

// BidWithGig is a bid joined with the fields of its gig the hiring checks need.
type BidWithGig struct {
	Bid
	GigTitle   string    `db:"gig_title"`
	GigOwnerID uuid.UUID `db:"gig_owner_id"`
	GigStatus  GigStatus `db:"gig_status"`
}

type CreateBidInput struct {
	GigID   uuid.UUID `json:"gig_id" validate:"required"`
	Message string    `json:"message" validate:"required,min=10,max=1000"`
	Price   float64   `json:"price" validate:"required,gte=0.01,lte=9999999999.99"`
}

type UpdateBidInput struct {
	Message *string  `json:"message,omitempty" validate:"omitempty,min=10,max=1000"`
	Price   *float64 `json:"price,omitempty" validate:"omitempty,gte=0.01,lte=9999999999.99"`
}
