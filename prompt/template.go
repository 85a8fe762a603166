// Package prompt provides string templates with named placeholders.
// Templates reference values using {name} syntax:
//
//	tmpl, err := prompt.Parse("Conversation rate: {conv_rate}")
//	out, err := tmpl.Execute(map[string]any{"conv_rate": 0.47})
//
// Execution is a pure substitution: every placeholder must have a value in
// the supplied mapping or Execute fails with ErrMissingKey. Text outside
// placeholders is passed through unaltered.
package prompt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/drivernote/drivernote/errors"
)

// ErrMissingKey indicates a placeholder had no value in the mapping passed
// to Execute. Check with errors.Is.
var ErrMissingKey = errors.New("missing key")

// Template represents a parsed template with named placeholders
type Template struct {
	raw      string
	segments []segment
}

// segment represents either a literal string or a placeholder
type segment struct {
	literal bool
	content string // for literal: the text; for placeholder: the key name
}

// Match {name} where name is an identifier
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Parse creates a Template from a raw template string
func Parse(raw string) (*Template, error) {
	if raw == "" {
		return nil, errors.New("empty template")
	}

	t := &Template{raw: raw}

	// Find all placeholder positions
	matches := placeholderPattern.FindAllStringSubmatchIndex(raw, -1)

	if len(matches) == 0 {
		// No placeholders - entire string is literal
		t.segments = []segment{{literal: true, content: raw}}
		return t, nil
	}

	var segments []segment
	lastEnd := 0

	for _, match := range matches {
		// match[0]:match[1] is the full match {name}
		// match[2]:match[3] is the captured group (name)
		start, end := match[0], match[1]
		name := raw[match[2]:match[3]]

		// Add literal segment before this placeholder
		if start > lastEnd {
			segments = append(segments, segment{
				literal: true,
				content: raw[lastEnd:start],
			})
		}

		segments = append(segments, segment{content: name})

		lastEnd = end
	}

	// Add trailing literal if any
	if lastEnd < len(raw) {
		segments = append(segments, segment{
			literal: true,
			content: raw[lastEnd:],
		})
	}

	t.segments = segments
	return t, nil
}

// Execute interpolates the template with values from the mapping.
// Fails with ErrMissingKey if any placeholder has no entry in vars.
func (t *Template) Execute(vars map[string]any) (string, error) {
	var result strings.Builder
	result.Grow(len(t.raw) * 2) // Pre-allocate with some slack

	for _, seg := range t.segments {
		if seg.literal {
			result.WriteString(seg.content)
			continue
		}

		value, ok := vars[seg.content]
		if !ok {
			return "", errors.Wrapf(ErrMissingKey, "{%s}", seg.content)
		}
		result.WriteString(valueToString(value))
	}

	return result.String(), nil
}

// valueToString converts a scalar to its canonical string representation.
// Floats use the shortest representation that round-trips, so values read
// back from storage render with full precision.
func valueToString(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Placeholders returns all placeholder names in the template, in order
func (t *Template) Placeholders() []string {
	var placeholders []string
	for _, seg := range t.segments {
		if !seg.literal {
			placeholders = append(placeholders, seg.content)
		}
	}
	return placeholders
}

// Raw returns the original template string
func (t *Template) Raw() string {
	return t.raw
}

// Validate checks if a template string is valid without keeping the parse
func Validate(raw string) error {
	_, err := Parse(raw)
	return err
}
