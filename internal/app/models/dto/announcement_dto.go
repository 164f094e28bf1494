package dto

// CreateAnnouncementRequest submits an announcement for approval.
type CreateAnnouncementRequest struct {
	ClubID  string `json:"clubId" binding:"required,uuid"`
	Message string `json:"message" binding:"required,notblank,max=5000"`
}
