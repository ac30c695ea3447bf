package db

import (
	"time"
)

// Decision status values. A decision is only recorded after a choice is
// made, so there is no pending state.
const (
	DecisionMatched  = "matched"
	DecisionRejected = "rejected"
)

// Notification type for realized mutual matches.
const NotificationTypeMatch = "match"

// Profile is a researcher's account and discoverable identity.
// Display attributes are all optional; interests and skills are stored as
// JSON-serialized string sets.
type Profile struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"uniqueIndex;size:128;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Active       bool   `gorm:"default:true" json:"active"`
	LastLoginAt  time.Time `json:"-"`

	FirstName   *string  `gorm:"size:64" json:"firstName,omitempty"`
	LastName    *string  `gorm:"size:64" json:"lastName,omitempty"`
	Bio         *string  `gorm:"type:text" json:"bio,omitempty"`
	Institution *string  `gorm:"size:128" json:"institution,omitempty"`
	AvatarURL   *string  `gorm:"size:255" json:"avatarUrl,omitempty"`
	Location    *string  `gorm:"size:128" json:"location,omitempty"`
	CollabPitch *string  `gorm:"type:text" json:"collabPitch,omitempty"`
	Interests   []string `gorm:"serializer:json" json:"interests,omitempty"`
	Skills      []string `gorm:"serializer:json" json:"skills,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// DisplayName returns "First Last" when available, falling back to email.
func (p *Profile) DisplayName() string {
	switch {
	case p.FirstName != nil && p.LastName != nil:
		return *p.FirstName + " " + *p.LastName
	case p.FirstName != nil:
		return *p.FirstName
	default:
		return p.Email
	}
}

// MatchDecision is one directional swipe outcome: matcher decided about
// matchee with the given status.
//
// The log is append-only: rows are never updated or deleted, and no
// uniqueness is enforced on (matcher_id, matchee_id) — duplicate rows are
// harmless because all reads are set-membership queries.
//
// Index idx_matcher_matchee_status serves both the exclusion-set query
// (matcher_id prefix) and the O(1) reciprocal-match lookup.
type MatchDecision struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MatcherID uint64    `gorm:"not null;index:idx_matcher_matchee_status,priority:1" json:"matcherId"`
	MatcheeID uint64    `gorm:"not null;index:idx_matcher_matchee_status,priority:2" json:"matcheeId"`
	Status    string    `gorm:"size:16;not null;index:idx_matcher_matchee_status,priority:3" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Notification is a side-effect record addressed to a single recipient.
// Only the recipient may flip IsRead.
type Notification struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID uint64    `gorm:"not null;index:idx_recipient_created,priority:1" json:"recipientId"`
	SenderID    *uint64   `json:"senderId,omitempty"`
	Type        string    `gorm:"size:32;not null" json:"type"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	LinkTo      *string   `gorm:"size:255" json:"linkTo,omitempty"`
	IsRead      bool      `gorm:"default:false" json:"isRead"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_recipient_created,priority:2,sort:desc" json:"createdAt"`
}
