package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theclubs/clubs-backend/internal/app/models/dto"
	"github.com/theclubs/clubs-backend/internal/pkg/ai"
	"github.com/theclubs/clubs-backend/internal/pkg/apperrors"
)

type stubLLM struct {
	text string
	err  error
}

func (s stubLLM) Configured() bool { return true }

func (s stubLLM) Generate(context.Context, string) (string, error) { return s.text, s.err }

type stubPosters struct {
	poster  *ai.Poster
	err     error
	details string
}

func (s *stubPosters) Create(_ context.Context, details string) (*ai.Poster, error) {
	s.details = details
	return s.poster, s.err
}

type memoryStorage struct {
	saved map[string][]byte
}

func (m *memoryStorage) Save(r io.Reader, subPath, ext string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + subPath + "/poster" + ext
	m.saved[url] = b
	return url, nil
}

func (m *memoryStorage) Delete(string) error { return nil }

func expectClubCatalog(pool pgxmock.PgxPoolIface) {
	pool.ExpectQuery(`FROM clubs c ORDER BY c.name ASC`).
		WillReturnRows(pgxmock.NewRows(clubCols).
			AddRow("chess", "Chess Society", "Games", "Weekly tournaments", nil, nil, "u1", time.Now()).
			AddRow("robo", "Robotics Club", "Technology", "Build robots", nil, nil, "u2", time.Now()))
}

func expectInteraction(pool pgxmock.PgxPoolIface, aiPowered bool) {
	pool.ExpectQuery(`INSERT INTO ai_interactions`).
		WithArgs(pgxmock.AnyArg(), "user-1", pgxmock.AnyArg(), pgxmock.AnyArg(), aiPowered).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
}

func TestAIMatch_ModelAnswer(t *testing.T) {
	pool := newPool(t)
	llm := stubLLM{text: "```json\n[{\"club_id\":\"robo\",\"reason\":\"You like building things\"}]\n```"}
	svc := NewAIService(pool, ai.NewMatcher(llm), nil, nil, zerolog.Nop())

	expectClubCatalog(pool)
	expectInteraction(pool, true)

	res, err := svc.Match(context.Background(), "user-1", "I like making things move")
	require.NoError(t, err)
	assert.True(t, res.AIPowered)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "Robotics Club", res.Matches[0].Name)
	assert.Equal(t, "You like building things", res.Matches[0].MatchReason)
}

func TestAIMatch_FallsBackToKeywords(t *testing.T) {
	pool := newPool(t)
	svc := NewAIService(pool, ai.NewMatcher(stubLLM{err: errors.New("quota")}), nil, nil, zerolog.Nop())

	expectClubCatalog(pool)
	expectInteraction(pool, true)

	res, err := svc.Match(context.Background(), "user-1", "chess tournaments")
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "chess", res.Matches[0].ID)
	assert.Equal(t, "Matches 4 of your interest keywords.", res.Matches[0].MatchReason)
}

func TestAIMatch_UnconfiguredAndEmpty(t *testing.T) {
	pool := newPool(t)
	svc := NewAIService(pool, ai.NewMatcher(nil), nil, nil, zerolog.Nop())

	_, err := svc.Match(context.Background(), "user-1", "   ")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	expectClubCatalog(pool)
	expectInteraction(pool, false)

	res, err := svc.Match(context.Background(), "user-1", "underwater basket weaving")
	require.NoError(t, err)
	assert.False(t, res.AIPowered)
	assert.Empty(t, res.Matches)
}

func TestAIPoster(t *testing.T) {
	brief := ai.CreativeBrief{
		Content: ai.PosterContent{Headline: "CODE THE FUTURE"},
		Style:   ai.StyleConfig{AccentColorHex: "#00d4ff"},
	}

	t.Run("requires details or prompt", func(t *testing.T) {
		svc := NewAIService(nil, nil, &stubPosters{}, nil, zerolog.Nop())
		_, err := svc.Poster(context.Background(), &dto.PosterRequest{Prompt: "  "})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("stores the image", func(t *testing.T) {
		posters := &stubPosters{poster: &ai.Poster{Brief: brief, Image: []byte("PNG"), ContentType: "image/png"}}
		storage := &memoryStorage{saved: map[string][]byte{}}
		svc := NewAIService(nil, nil, posters, storage, zerolog.Nop())

		res, err := svc.Poster(context.Background(), &dto.PosterRequest{
			EventDetails: &dto.PosterEventDetails{Title: "Hack Night", Description: "Code", Date: "March 12", Venue: "Lab"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Title: Hack Night, Desc: Code, Date: March 12, Venue: Lab", posters.details)
		assert.True(t, res.Success)
		assert.Equal(t, "/uploads/posters/poster.png", res.Image)
		assert.Equal(t, []byte("PNG"), storage.saved[res.Image])
		assert.Equal(t, "CODE THE FUTURE", res.Content.Headline)
		assert.Equal(t, ai.PosterSource, res.Source)
	})

	t.Run("upstream failure is external", func(t *testing.T) {
		svc := NewAIService(nil, nil, &stubPosters{err: errors.New("503")}, nil, zerolog.Nop())
		_, err := svc.Poster(context.Background(), &dto.PosterRequest{Prompt: "jazz night"})
		assert.ErrorIs(t, err, apperrors.ErrExternalService)
	})
}
