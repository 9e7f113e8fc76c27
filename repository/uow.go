package repository

import "context"

// Stores bundles the repositories bound to one transaction.
type Stores struct {
	Seminars    SeminarRepository
	Memberships MembershipRepository
}

// Lock names the rows that must be held exclusively while a unit of work
// runs. A non-empty UserID serializes instructor-uniqueness checks for that
// user; a non-empty SeminarID serializes capacity and membership checks for
// that seminar. Locks are always taken user first, then seminar.
type Lock struct {
	UserID    string
	SeminarID string
}

// UnitOfWork runs rule checks and their writes atomically. fn observes and
// mutates state only through the transaction-bound Stores; the transaction
// commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Within(ctx context.Context, lock Lock, fn func(ctx context.Context, tx Stores) error) error
}
