package dto

// PostDiscussionRequest appends a message to a club board.
type PostDiscussionRequest struct {
	Message string `json:"message" binding:"required,notblank,max=2000" example:"Anyone up for blitz tonight?"`
}
