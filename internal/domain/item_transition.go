package domain

import "time"

// ItemTransition is an append-only record of a status change.
type ItemTransition struct {
	ID        string
	ItemID    string
	From      *ItemStatus
	To        ItemStatus
	ActorID   string
	Reason    string
	CreatedAt time.Time
}
