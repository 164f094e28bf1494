package models

import "time"

// DiscussionMessage is one post on a club's discussion board.
type DiscussionMessage struct {
	ID        string    `json:"id" db:"id"`
	ClubID    string    `json:"clubId" db:"club_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	User *UserSummary `json:"user,omitempty"`
}
