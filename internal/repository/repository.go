package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrDuplicate  = errors.New("duplicate record")
	ErrGigNotOpen = errors.New("gig is not open")
	ErrNotPending = errors.New("bid is not pending")
	ErrHasBids    = errors.New("gig has bids")
)

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Gig          GigRepository
	Bid          BidRepository
	Hire         HireRepository
	Notification NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Gig:          NewGigRepository(db),
		Bid:          NewBidRepository(db),
		Hire:         NewHireRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsTxConflict reports whether err is a PostgreSQL error caused by a
// concurrent transaction: serialization failure, deadlock or lock timeout.
func IsTxConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "55P03":
		return true
	default:
		return false
	}
}
