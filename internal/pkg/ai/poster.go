package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PosterSource labels every generated poster.
const PosterSource = "AI Creative Director"

// PosterContent is the copy printed on the poster.
type PosterContent struct {
	Headline     string `json:"headline"`
	Tagline      string `json:"tagline"`
	Description  string `json:"description"`
	DateDisplay  string `json:"date_display"`
	VenueDisplay string `json:"venue_display"`
}

// StyleConfig steers the poster layout.
type StyleConfig struct {
	AccentColorHex string `json:"accent_color_hex"`
	FontMood       string `json:"font_mood"`
}

// CreativeBrief is what the copywriter model returns.
type CreativeBrief struct {
	Content     PosterContent `json:"poster_content"`
	Style       StyleConfig   `json:"style_config"`
	ImagePrompt string        `json:"image_prompt"`
}

// Poster is a finished poster: copy, style and the background image bytes.
type Poster struct {
	Brief       CreativeBrief
	Image       []byte
	ContentType string
}

// PosterPrompt asks for a creative brief for the event described by details.
func PosterPrompt(details string) string {
	return fmt.Sprintf(`Act as a World-Class Event Poster Designer & Copywriter.
Context: We need to create a stunning A3 poster for this event: %q.

Task:
1. Analyze the event and write CATCHY, PROFESSIONAL copy for the poster.
2. Design a visual prompt for an AI image generator (Flux) to create a perfect background.

Output ONLY a valid JSON object with this exact structure (no markdown):
{
  "poster_content": {
    "headline": "Short, punchy 2-5 word headline",
    "tagline": "A single engaging sentence or subtitle",
    "description": "A condensed, powerful 2-sentence summary of the event description",
    "date_display": "Cleanly formatted date",
    "venue_display": "Clean venue name"
  },
  "style_config": {
    "accent_color_hex": "#HEX_CODE",
    "font_mood": "Modern, Serif or Handwritten"
  },
  "image_prompt": "A vivid, highly detailed description for the background art with a DARK, EMPTY CENTER area for text overlay. High contrast, professional style."
}`, details)
}

// ParseBrief decodes the model answer.
func ParseBrief(text string) (*CreativeBrief, error) {
	var b CreativeBrief
	if err := json.Unmarshal([]byte(StripFences(text)), &b); err != nil {
		return nil, fmt.Errorf("unreadable creative brief: %w", err)
	}
	if strings.TrimSpace(b.ImagePrompt) == "" {
		return nil, errors.New("creative brief has no image prompt")
	}
	return &b, nil
}

// PosterConfig configures PosterDirector.
type PosterConfig struct {
	ImageBaseURL string
	Timeout      time.Duration
}

// PosterDirector turns event details into copy plus a background image.
type PosterDirector struct {
	llm          TextGenerator
	imageBaseURL string
	http         *http.Client
	seed         func() int
}

// NewPosterDirector creates a PosterDirector.
func NewPosterDirector(llm TextGenerator, cfg PosterConfig) *PosterDirector {
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = "https://image.pollinations.ai/prompt"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &PosterDirector{
		llm:          llm,
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		http:         &http.Client{Timeout: cfg.Timeout},
		seed:         func() int { return rand.IntN(9999) },
	}
}

// ImageURL builds the Flux request for prompt at poster proportions.
func (d *PosterDirector) ImageURL(prompt string, seed int) string {
	q := url.Values{}
	q.Set("model", "flux")
	q.Set("width", "768")
	q.Set("height", "1088")
	q.Set("enhance", "false")
	q.Set("nologo", "true")
	q.Set("seed", fmt.Sprint(seed))
	return d.imageBaseURL + "/" + url.PathEscape(prompt) + "?" + q.Encode()
}

// Create writes the brief and fetches the image. There is no fallback.
func (d *PosterDirector) Create(ctx context.Context, details string) (*Poster, error) {
	if d.llm == nil || !d.llm.Configured() {
		return nil, ErrNotConfigured
	}

	text, err := d.llm.Generate(ctx, PosterPrompt(details))
	if err != nil {
		return nil, err
	}
	brief, err := ParseBrief(text)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.ImageURL(brief.ImagePrompt, d.seed()), nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image service returned %d", resp.StatusCode)
	}
	img, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("image read failed: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(img)
	}
	return &Poster{Brief: *brief, Image: img, ContentType: ct}, nil
}
