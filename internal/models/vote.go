package models

import "time"

// Vote is a single upvote of a post by a user.
// The composite primary key guarantees at most one row per (user, post).
type Vote struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"post_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// VoteDirection selects whether a vote is cast or withdrawn.
type VoteDirection int

const (
	// DirectionNone removes an existing vote.
	DirectionNone VoteDirection = 0
	// DirectionUp casts an upvote.
	DirectionUp VoteDirection = 1
)

// Valid reports whether d is a known direction.
func (d VoteDirection) Valid() bool {
	return d == DirectionNone || d == DirectionUp
}
