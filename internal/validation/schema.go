// Package validation parses request bodies against small declared schemas.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Kind is the declared type of a field.
type Kind int

const (
	String Kind = iota
	Int
)

// Field declares one required body field.
type Field struct {
	Name string
	Kind Kind
	// Message is reported when the field is missing, blank or of the wrong type.
	Message string
	// MaxLen limits strings, in characters. Zero means unlimited.
	MaxLen int
	// AllowSpace accepts a non-empty string made only of whitespace.
	AllowSpace bool
}

// invalidText stands in for a JSON string whose raw bytes are not UTF-8.
// The decoder would otherwise replace them with U+FFFD.
type invalidText struct{}

// Schema is an ordered list of fields. Fields are checked in order and the
// first failure is reported.
type Schema []Field

// Values holds the parsed fields of one request, keyed by field name.
type Values map[string]any

// String returns the named string field, or "" if absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns the named int field, or 0 if absent.
func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

// Parse reads the request body as form data or as a JSON object and checks it against s.
// Unknown fields are ignored.
func (s Schema) Parse(c *fiber.Ctx) (Values, error) {
	var raw map[string]any
	switch {
	case isForm(c):
		raw = make(map[string]any, len(s))
		for _, f := range s {
			if v := c.FormValue(f.Name); v != "" {
				raw[f.Name] = v
			}
		}
	case len(bytes.TrimSpace(c.Body())) == 0:
		raw = map[string]any{}
	default:
		var err error
		if raw, err = s.decodeJSON(c); err != nil {
			return nil, err
		}
	}
	return s.Check(raw)
}

func (s Schema) decodeJSON(c *fiber.Ctx) (map[string]any, error) {
	decode := c.App().Config().JSONDecoder
	badBody := models.NewValidationError("Request body must be a JSON object")

	var fields map[string]json.RawMessage
	if err := decode(c.Body(), &fields); err != nil || fields == nil {
		return nil, badBody
	}

	raw := make(map[string]any, len(s))
	for _, f := range s {
		msg, ok := fields[f.Name]
		if !ok {
			continue
		}
		if !utf8.Valid(msg) {
			raw[f.Name] = invalidText{}
			continue
		}
		var v any
		if err := decode(msg, &v); err != nil {
			return nil, badBody
		}
		raw[f.Name] = v
	}
	return raw, nil
}

// Check validates already decoded input. Form values arrive as strings, so Int
// fields accept decimal strings as well as JSON numbers.
func (s Schema) Check(raw map[string]any) (Values, error) {
	out := make(Values, len(s))
	for _, f := range s {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			return nil, models.NewFieldError(f.Name, f.Message)
		}

		if _, bad := v.(invalidText); bad {
			return nil, models.NewFieldError(f.Name, label(f.Name)+" must be valid UTF-8")
		}

		switch f.Kind {
		case String:
			str, ok := v.(string)
			if !ok || str == "" || (!f.AllowSpace && strings.TrimSpace(str) == "") {
				return nil, models.NewFieldError(f.Name, f.Message)
			}
			if !utf8.ValidString(str) {
				return nil, models.NewFieldError(f.Name, label(f.Name)+" must be valid UTF-8")
			}
			if f.MaxLen > 0 && utf8.RuneCountInString(str) > f.MaxLen {
				return nil, models.NewFieldError(f.Name,
					fmt.Sprintf("%s must be at most %d characters", label(f.Name), f.MaxLen))
			}
			out[f.Name] = str
		case Int:
			n, ok := toInt(v)
			if !ok {
				return nil, models.NewFieldError(f.Name, f.Message)
			}
			out[f.Name] = n
		default:
			return nil, fmt.Errorf("field %q has unsupported kind %d", f.Name, f.Kind)
		}
	}
	return out, nil
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func isForm(c *fiber.Ctx) bool {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	return strings.HasPrefix(ct, fiber.MIMEApplicationForm) || strings.HasPrefix(ct, fiber.MIMEMultipartForm)
}

func label(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
