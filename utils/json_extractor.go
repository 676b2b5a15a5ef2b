package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSONFound is returned when no JSON object can be recovered from a model response.
var ErrNoJSONFound = errors.New("no valid JSON object found in response")

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// ExtractObject recovers a JSON object from an LLM response that may be
// wrapped in prose or markdown. Candidates are tried in order: the whole
// response, the body of a fenced code block, the first balanced object, and
// finally the span from the first '{' to the last '}'.
func ExtractObject(raw string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrNoJSONFound
	}

	if obj, ok := decodeObject(trimmed); ok {
		return obj, nil
	}

	if m := fencedBlock.FindStringSubmatch(trimmed); len(m) > 1 {
		if obj, ok := decodeObject(strings.TrimSpace(m[1])); ok {
			return obj, nil
		}
	}

	if obj, ok := decodeObject(balancedObject(trimmed)); ok {
		return obj, nil
	}

	candidate := braceSpan(trimmed)
	if candidate == "" {
		return nil, fmt.Errorf("%w: no brace pair (length=%d)", ErrNoJSONFound, len(raw))
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSONFound, err)
	}
	return obj, nil
}

func decodeObject(s string) (map[string]interface{}, bool) {
	if s == "" {
		return nil, false
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func braceSpan(s string) string {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last <= first {
		return ""
	}
	return s[first : last+1]
}

// balancedObject returns the first complete object by depth counting,
// skipping braces inside string literals.
func balancedObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
