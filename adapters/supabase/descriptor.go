package supabase

import (
	"regexp"
	"strings"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
)

// RouteDescriptor is one parsed edge-function entry: a slug and its input
// shape, derived from a route-description document rather than hardcoded
// (spec.md 4.8 "Initialization").
type RouteDescriptor struct {
	Slug        string
	Description string
	InputSchema *adapter.Schema
}

var (
	slugHeadingPattern = regexp.MustCompile(`(?m)^##\s+(\S+)\s*$`)
	inputLinePattern   = regexp.MustCompile(`(?m)^Input:\s*\{(.*)\}\s*$`)
	fieldPattern       = regexp.MustCompile(`(\w+)\s*:\s*(\w+)`)
)

// ParseRouteDescriptions parses a markdown document of the shape:
//
//	## send-email
//	Sends a templated transactional email.
//	Input: { to: string, subject: string, body: string }
//
// into one RouteDescriptor per "## slug" section. A section without an
// Input line still produces a descriptor with a bare object schema — the
// document is the source of truth, not a strict grammar.
func ParseRouteDescriptions(doc string) []RouteDescriptor {
	headingIdx := slugHeadingPattern.FindAllStringSubmatchIndex(doc, -1)
	if len(headingIdx) == 0 {
		return nil
	}

	descriptors := make([]RouteDescriptor, 0, len(headingIdx))
	for i, match := range headingIdx {
		slug := doc[match[2]:match[3]]
		sectionEnd := len(doc)
		if i+1 < len(headingIdx) {
			sectionEnd = headingIdx[i+1][0]
		}
		section := doc[match[1]:sectionEnd]

		descriptors = append(descriptors, RouteDescriptor{
			Slug:        slug,
			Description: firstNonEmptyLine(section),
			InputSchema: parseInputSchema(section),
		})
	}
	return descriptors
}

func firstNonEmptyLine(section string) string {
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Input:") {
			continue
		}
		return line
	}
	return ""
}

func parseInputSchema(section string) *adapter.Schema {
	m := inputLinePattern.FindStringSubmatch(section)
	schema := &adapter.Schema{Type: "object", Properties: map[string]*adapter.Schema{}}
	if m == nil {
		return schema
	}

	for _, field := range fieldPattern.FindAllStringSubmatch(m[1], -1) {
		schema.Properties[field[1]] = &adapter.Schema{Type: field[2]}
	}
	return schema
}
