package models

import "time"

// Club is a live, approved club.
type Club struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Category       string    `json:"category" db:"category"`
	Description    string    `json:"description" db:"description"`
	FacultyAdvisor *string   `json:"facultyAdvisor,omitempty" db:"faculty_advisor"`
	WhatsappLink   *string   `json:"whatsappLink,omitempty" db:"whatsapp_link"`
	CreatedBy      string    `json:"createdBy" db:"created_by"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// ClubRequest is a submission waiting in the club moderation queue.
// On approval its id becomes the id of the live Club.
type ClubRequest struct {
	ID             string        `json:"id" db:"id"`
	Name           string        `json:"name" db:"name"`
	Category       string        `json:"category" db:"category"`
	Description    string        `json:"description" db:"description"`
	FacultyAdvisor *string       `json:"facultyAdvisor,omitempty" db:"faculty_advisor"`
	WhatsappLink   *string       `json:"whatsappLink,omitempty" db:"whatsapp_link"`
	CreatedBy      string        `json:"createdBy" db:"created_by"`
	Status         RequestStatus `json:"status" db:"status"`
	ReviewedBy     *string       `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt     *time.Time    `json:"reviewedAt,omitempty" db:"reviewed_at"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`

	Creator *UserSummary `json:"creator,omitempty"`
}

// Membership links an identity to a club. One row per (club, user).
type Membership struct {
	ClubID     string         `json:"clubId" db:"club_id"`
	UserID     string         `json:"userId" db:"user_id"`
	RoleInClub MembershipRole `json:"roleInClub" db:"role_in_club"`
	JoinedAt   time.Time      `json:"joinedAt" db:"joined_at"`
}

// ClubMember is a membership row joined with the member's profile.
type ClubMember struct {
	UserID     string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	AvatarURL  *string        `json:"avatarUrl,omitempty"`
	RoleInClub MembershipRole `json:"role"`
	JoinedAt   time.Time      `json:"joinedAt"`
}

// JoinedClub is a club seen from one member's side.
type JoinedClub struct {
	Club
	RoleInClub MembershipRole `json:"role"`
}

// UserSummary is the public slice of a user embedded in other payloads.
type UserSummary struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}
