package models

import "time"

// MatchInteraction is one matchmaker query and what answered it.
type MatchInteraction struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"userId" db:"user_id"`
	Interest   string    `json:"interest" db:"interest"`
	AIResponse string    `json:"aiResponse" db:"ai_response"`
	AIPowered  bool      `json:"aiPowered" db:"ai_powered"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
