package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names so errors match the request payload
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs struct tag validation and converts the first failure
// into a *domain.ValidationError.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(fe.Field(), validationMessage(fe))
	}
	return domain.NewValidationError("", err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url", "http_url":
		return "must be a valid URL"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func validateSlug(slug string) error {
	if slug == "" {
		return domain.NewValidationError("slug", "is required")
	}
	if !slugPattern.MatchString(slug) {
		return domain.NewValidationError("slug", "must contain only lowercase letters, digits and single dashes")
	}
	return nil
}

func validateStatus(t domain.EntityType, status domain.PublishStatus) error {
	if !domain.ValidStatus(t, status) {
		return domain.NewValidationError("publish_status", fmt.Sprintf("%q is not allowed for %s", status, t))
	}
	return nil
}

// normalizeDate rejects unparseable dates at write time and stores the rest
// in UTC so text ordering matches time ordering. Plain dates stay YYYY-MM-DD.
// A bad date already in the store hides a scheduled entity.
func normalizeDate(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if _, err := time.Parse(dateOnly, value); err == nil {
		return value, nil
	}
	at, ok := domain.ParseDate(value)
	if !ok {
		return "", domain.NewValidationError(field, "must be YYYY-MM-DD or RFC3339")
	}
	return at.Format(time.RFC3339), nil
}

const dateOnly = "2006-01-02"

// Slugify derives a URL slug from a display title, folding accents
// ("Café Nuit" -> "cafe-nuit").
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func utcNow() time.Time {
	return time.Now().UTC()
}
