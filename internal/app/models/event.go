package models

import "time"

// Event is a live event organized by a club.
type Event struct {
	ID             string     `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	Date           time.Time  `json:"date" db:"date"`
	Venue          string     `json:"venue" db:"venue"`
	OrganizerClub  string     `json:"organizerClub" db:"organizer_club"`
	WhatsappLink   *string    `json:"whatsappLink,omitempty" db:"whatsapp_link"`
	BannerURL      *string    `json:"bannerUrl,omitempty" db:"banner_url"`
	CreatedBy      *string    `json:"createdBy,omitempty" db:"created_by"`
	ReminderSentAt *time.Time `json:"-" db:"reminder_sent_at"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`

	ClubName         string `json:"clubName,omitempty"`
	ParticipantCount int64  `json:"participantCount"`
}

// EventRequest is an event waiting in the moderation queue.
type EventRequest struct {
	ID            string        `json:"id" db:"id"`
	Title         string        `json:"title" db:"title"`
	Description   string        `json:"description" db:"description"`
	Date          time.Time     `json:"date" db:"date"`
	Venue         string        `json:"venue" db:"venue"`
	OrganizerClub string        `json:"organizerClub" db:"organizer_club"`
	WhatsappLink  *string       `json:"whatsappLink,omitempty" db:"whatsapp_link"`
	BannerURL     *string       `json:"bannerUrl,omitempty" db:"banner_url"`
	CreatedBy     string        `json:"createdBy" db:"created_by"`
	Status        RequestStatus `json:"status" db:"status"`
	ReviewedBy    *string       `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt    *time.Time    `json:"reviewedAt,omitempty" db:"reviewed_at"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`

	ClubName string       `json:"clubName,omitempty"`
	Creator  *UserSummary `json:"creator,omitempty"`
}

// EventRegistration records one identity registered for one event.
type EventRegistration struct {
	ID           string    `json:"id" db:"id"`
	EventID      string    `json:"eventId" db:"event_id"`
	UserID       string    `json:"userId" db:"user_id"`
	Attended     bool      `json:"attended" db:"attended"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`

	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
