package domain

import "time"

// ItemStatus enumerates lifecycle states for reported items.
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "Pending"
	ItemStatusApproved ItemStatus = "Approved"
	ItemStatusClaimed  ItemStatus = "Claimed"
	ItemStatusRejected ItemStatus = "Rejected"
)

// Valid reports whether s is one of the four lifecycle states.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusApproved, ItemStatusClaimed, ItemStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no lifecycle edge leaves s.
func (s ItemStatus) Terminal() bool {
	return s == ItemStatusClaimed || s == ItemStatusRejected
}

// ItemCategory distinguishes lost from found reports.
type ItemCategory string

const (
	ItemCategoryLost  ItemCategory = "lost"
	ItemCategoryFound ItemCategory = "found"
)

// Valid reports whether c is a known category.
func (c ItemCategory) Valid() bool {
	return c == ItemCategoryLost || c == ItemCategoryFound
}

// Item is the aggregate for a lost or found report.
type Item struct {
	ID           string
	Title        string
	Description  string
	Location     string
	Category     ItemCategory
	DateReported time.Time
	Status       ItemStatus
	ReportedBy   string
	ApprovedBy   *string
	ClaimantID   *string
	ClaimDate    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone returns a copy that shares no pointers with i.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	out := *i
	if i.ApprovedBy != nil {
		v := *i.ApprovedBy
		out.ApprovedBy = &v
	}
	if i.ClaimantID != nil {
		v := *i.ClaimantID
		out.ClaimantID = &v
	}
	if i.ClaimDate != nil {
		v := *i.ClaimDate
		out.ClaimDate = &v
	}
	return &out
}

// StatusChange is the set of fields written together with a status edge.
type StatusChange struct {
	To         ItemStatus
	ApprovedBy *string
	ClaimantID *string
	ClaimDate  *time.Time
}

// Apply writes the change onto item.
func (c StatusChange) Apply(item *Item) {
	item.Status = c.To
	if c.ApprovedBy != nil {
		item.ApprovedBy = c.ApprovedBy
	}
	if c.ClaimantID != nil {
		item.ClaimantID = c.ClaimantID
		item.ClaimDate = c.ClaimDate
	}
}

// ItemPatch is a partial update used by the generic update endpoint.
// Nil fields are left untouched.
type ItemPatch struct {
	Title        *string
	Description  *string
	Location     *string
	DateReported *time.Time
	Status       *ItemStatus
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil && p.DateReported == nil && p.Status == nil
}

// Apply writes the patch onto item.
func (p ItemPatch) Apply(item *Item) {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Location != nil {
		item.Location = *p.Location
	}
	if p.DateReported != nil {
		item.DateReported = *p.DateReported
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
}
