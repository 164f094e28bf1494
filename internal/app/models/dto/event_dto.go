package dto

import "time"

// CreateEventRequest submits an event for approval on behalf of a club.
type CreateEventRequest struct {
	Title         string    `json:"title" binding:"required,notblank,max=200" example:"Spring Open"`
	Description   string    `json:"description" binding:"required,notblank"`
	Date          time.Time `json:"date" binding:"required" example:"2026-04-12T18:00:00Z"`
	Venue         string    `json:"venue" binding:"required,notblank,max=200" example:"Main Hall"`
	OrganizerClub string    `json:"organizerClub" binding:"required,uuid" example:"9d3c1f7e-5b0a-4d5e-a1c2-6f7e8d9c0b1a"`
	WhatsappLink  *string   `json:"whatsappLink" binding:"omitempty,whatsapp"`
	BannerURL     *string   `json:"bannerUrl" binding:"omitempty"`
}

// UpdateEventRequest changes a live event. Omitted fields are kept.
type UpdateEventRequest struct {
	Title        *string    `json:"title" binding:"omitempty,notblank,max=200"`
	Description  *string    `json:"description" binding:"omitempty,notblank"`
	Date         *time.Time `json:"date"`
	Venue        *string    `json:"venue" binding:"omitempty,notblank,max=200"`
	WhatsappLink *string    `json:"whatsappLink" binding:"omitempty,whatsapp"`
	BannerURL    *string    `json:"bannerUrl"`
}

// AttendanceRequest sets the attended flag of a registration.
type AttendanceRequest struct {
	Attended *bool `json:"attended" binding:"required"`
}

// RegistrationsResponse lists event ids the caller is registered for.
type RegistrationsResponse struct {
	EventIDs []string `json:"eventIds"`
}
