package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/theclubs/clubs-backend/internal/app/models"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/app/repositories"
	"github.com/theclubs/clubs-backend/internal/db"
	"github.com/theclubs/clubs-backend/internal/pkg/ai"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
	"github.com/theclubs/clubs-backend/internal/pkg/filestorage"
)

const posterDir = "posters"

// PosterMaker produces a poster for free-form event details.
type PosterMaker interface {
	Create(ctx context.Context, details string) (*ai.Poster, error)
}

// ClubMatch is a recommended club with the reason it was picked.
type ClubMatch struct {
	*models.Club
	MatchReason string `json:"match_reason"`
}

// MatchResponse is the matchmaker answer.
type MatchResponse struct {
	Matches   []ClubMatch `json:"matches"`
	AIPowered bool        `json:"ai_powered"`
}

// PosterResponse is a finished poster.
type PosterResponse struct {
	Success bool             `json:"success"`
	Image   string           `json:"image"`
	Content ai.PosterContent `json:"content"`
	Style   ai.StyleConfig   `json:"style"`
	Source  string           `json:"source"`
}

// AIService fronts the matchmaker and the poster generator.
type AIService struct {
	clubRepo        *repositories.ClubRepository
	interactionRepo *repositories.InteractionRepository
	matcher         *ai.Matcher
	posters         PosterMaker
	storage         filestorage.FileStorage
	logger          zerolog.Logger
}

// NewAIService creates a new AIService.
func NewAIService(q db.DBTX, matcher *ai.Matcher, posters PosterMaker, storage filestorage.FileStorage, logger zerolog.Logger) *AIService {
	return &AIService{
		clubRepo:        repositories.NewClubRepository(q),
		interactionRepo: repositories.NewInteractionRepository(q),
		matcher:         matcher,
		posters:         posters,
		storage:         storage,
		logger:          logger,
	}
}

// Match recommends up to three clubs for interest. It never fails because
// of the model; only database errors surface.
func (s *AIService) Match(ctx context.Context, userID, interest string) (*MatchResponse, error) {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return nil, apperrors.NewBadRequestError("Interest is required")
	}

	clubs, err := s.clubRepo.List(ctx, repositories.ClubFilter{})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Club, len(clubs))
	candidates := make([]ai.Candidate, 0, len(clubs))
	for _, c := range clubs {
		byID[c.ID] = c
		candidates = append(candidates, ai.Candidate{ID: c.ID, Name: c.Name, Description: c.Description, Category: c.Category})
	}

	res := s.matcher.Match(ctx, interest, candidates)
	if res.LLMErr != nil {
		s.logger.Warn().Err(res.LLMErr).Msg("Matchmaker model failed, using keyword scoring")
	}

	out := &MatchResponse{Matches: make([]ClubMatch, 0, len(res.Matches)), AIPowered: res.LLMConfigured}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, ClubMatch{Club: byID[m.ClubID], MatchReason: m.Reason})
	}

	if err := s.interactionRepo.Create(ctx, &models.MatchInteraction{
		UserID:     userID,
		Interest:   interest,
		AIResponse: res.Raw,
		AIPowered:  res.LLMConfigured,
	}); err != nil {
		s.logger.Error().Err(err).Str("userId", userID).Msg("Failed to log matchmaker interaction")
	}

	return out, nil
}

// PosterDetails renders the request into the text the copywriter sees.
func PosterDetails(req *dto.PosterRequest) (string, error) {
	if d := req.EventDetails; d != nil {
		return fmt.Sprintf("Title: %s, Desc: %s, Date: %s, Venue: %s", d.Title, d.Description, d.Date, d.Venue), nil
	}
	if p := strings.TrimSpace(req.Prompt); p != "" {
		return p, nil
	}
	return "", apperrors.NewBadRequestError("Event details or prompt required")
}

// Poster generates copy and artwork and stores the image.
func (s *AIService) Poster(ctx context.Context, req *dto.PosterRequest) (*PosterResponse, error) {
	details, err := PosterDetails(req)
	if err != nil {
		return nil, err
	}

	p, err := s.posters.Create(ctx, details)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return nil, apperrors.NewExternalServiceError("Poster generation is not configured", err)
		}
		s.logger.Error().Err(err).Msg("Poster generation failed")
		return nil, apperrors.NewExternalServiceError("Failed to generate poster", err)
	}

	url, err := s.storage.Save(bytes.NewReader(p.Image), posterDir, imageExt(p.ContentType))
	if err != nil {
		return nil, fmt.Errorf("storing poster: %w", err)
	}

	return &PosterResponse{
		Success: true,
		Image:   url,
		Content: p.Brief.Content,
		Style:   p.Brief.Style,
		Source:  ai.PosterSource,
	}, nil
}

func imageExt(contentType string) string {
	switch mt, _, _ := mime.ParseMediaType(contentType); mt {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
