package models

import "time"

// Announcement is a published club announcement.
type Announcement struct {
	ID        string    `json:"id" db:"id"`
	ClubID    string    `json:"clubId" db:"club_id"`
	Message   string    `json:"message" db:"message"`
	CreatedBy string    `json:"createdBy" db:"created_by"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	ClubName string `json:"clubName,omitempty"`
}

// AnnouncementRequest is an announcement waiting for admin approval.
type AnnouncementRequest struct {
	ID         string        `json:"id" db:"id"`
	ClubID     string        `json:"clubId" db:"club_id"`
	Message    string        `json:"message" db:"message"`
	CreatedBy  string        `json:"createdBy" db:"created_by"`
	Status     RequestStatus `json:"status" db:"status"`
	ReviewedBy *string       `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt *time.Time    `json:"reviewedAt,omitempty" db:"reviewed_at"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`

	ClubName string `json:"clubName,omitempty"`
}
