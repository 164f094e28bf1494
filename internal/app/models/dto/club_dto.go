package dto

// ClubRequestInput submits a club for approval.
type ClubRequestInput struct {
	Name           string  `json:"name" binding:"required,notblank,max=150" example:"Chess Society"`
	Category       string  `json:"category" binding:"required,notblank,max=80" example:"Games"`
	Description    string  `json:"description" binding:"required,notblank" example:"Weekly rapid tournaments"`
	FacultyAdvisor *string `json:"facultyAdvisor" binding:"omitempty,max=150"`
	WhatsappLink   *string `json:"whatsappLink" binding:"omitempty,whatsapp"`
}

// UpdateClubRequest holds the fields a club head may edit.
type UpdateClubRequest struct {
	Description  string  `json:"description" binding:"required,notblank"`
	WhatsappLink *string `json:"whatsappLink" binding:"omitempty,whatsapp"`
}

// ClubListQuery filters GET /clubs.
type ClubListQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
}
