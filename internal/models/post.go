package models

import "time"

// Post represents a post owned by exactly one user.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Published bool      `gorm:"not null" json:"published"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// VotesCount is not persisted; computed at query time
	VotesCount int64 `gorm:"->;-:migration" json:"-"`
}

// PostWithVotes is the read model returned by list and detail queries.
type PostWithVotes struct {
	Post  *Post `json:"post"`
	Votes int64 `json:"votes"`
}

// WithVotes wraps the post together with its computed vote count.
func (p *Post) WithVotes() PostWithVotes {
	return PostWithVotes{Post: p, Votes: p.VotesCount}
}
