package dispatch

import (
	"fmt"
	"strings"
)

// Pattern matches request paths segment by segment. A segment is either a
// literal, a typed capture written {name}, or a trailing * matching any
// remainder of the path.
type Pattern struct {
	raw      string
	segments []segment
	wildcard bool
}

type segment struct {
	literal string
	capture string
}

// ParsePattern compiles a path pattern such as /api/franchise/{id}/store.
func ParsePattern(raw string) (Pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return Pattern{}, fmt.Errorf("pattern %q must start with /", raw)
	}

	p := Pattern{raw: raw}
	parts := strings.Split(strings.Trim(raw, "/"), "/")
	for i, part := range parts {
		switch {
		case part == "*":
			if i != len(parts)-1 {
				return Pattern{}, fmt.Errorf("pattern %q: * is only valid as the final segment", raw)
			}
			p.wildcard = true
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			if name == "" {
				return Pattern{}, fmt.Errorf("pattern %q has an unnamed capture", raw)
			}
			p.segments = append(p.segments, segment{capture: name})
		case part == "":
			return Pattern{}, fmt.Errorf("pattern %q has an empty segment", raw)
		default:
			p.segments = append(p.segments, segment{literal: part})
		}
	}
	return p, nil
}

// MustParsePattern is ParsePattern for statically known patterns.
func MustParsePattern(raw string) Pattern {
	p, err := ParsePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as registered.
func (p Pattern) String() string {
	return p.raw
}

// Match reports whether the path matches and, if so, the extracted captures.
func (p Pattern) Match(path string) (map[string]string, bool) {
	trimmed := strings.Trim(path, "/")
	var parts []string
	if trimmed != "" {
		parts = strings.Split(trimmed, "/")
	}

	if p.wildcard {
		if len(parts) < len(p.segments) {
			return nil, false
		}
	} else if len(parts) != len(p.segments) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range p.segments {
		if seg.capture != "" {
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.capture] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	return params, true
}
