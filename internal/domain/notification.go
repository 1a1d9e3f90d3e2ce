package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Message   string           `json:"message" db:"message"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	GigID     *uuid.UUID       `json:"gig_id,omitempty" db:"gig_id"`
	BidID     *uuid.UUID       `json:"bid_id,omitempty" db:"bid_id"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifBidReceived NotificationType = "BID_RECEIVED"
	NotifBidHired    NotificationType = "BID_HIRED"
	NotifBidRejected NotificationType = "BID_REJECTED"
	NotifGigAssigned NotificationType = "GIG_ASSIGNED"
)
