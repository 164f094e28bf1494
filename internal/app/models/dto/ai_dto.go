package dto

// MatchRequest asks the matchmaker for clubs.
type MatchRequest struct {
	Interest string `json:"interest" binding:"required,notblank,max=1000" example:"I enjoy robotics and coding"`
}

// PosterEventDetails describes the event a poster is made for.
type PosterEventDetails struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
}

// PosterRequest needs either a prompt or event details.
type PosterRequest struct {
	Prompt       string              `json:"prompt" binding:"max=2000"`
	EventDetails *PosterEventDetails `json:"eventDetails"`
}
