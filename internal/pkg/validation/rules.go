package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// WhatsappPattern accepts group invite links.
	WhatsappPattern = `^https://(chat\.whatsapp\.com|wa\.me)/[A-Za-z0-9_\-/?=&]+$`

	NameMinLength = 2
	NameMaxLength = 120

	// DiscussionMaxLength bounds one board message.
	DiscussionMaxLength = 2000
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Whatsapp *regexp.Regexp
}{
	Whatsapp: regexp.MustCompile(WhatsappPattern),
}

// Register adds the custom tags used by request DTOs to v:
//
//	notblank  string is not only whitespace
//	whatsapp  empty, or a WhatsApp invite link
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"whatsapp": func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || CompiledPatterns.Whatsapp.MatchString(s)
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
