package apt

import "strings"

// Release is a parsed Release document.
type Release struct {
	// Fields holds every field in document order. Architectures and
	// Components, when present, are List values.
	Fields *FieldMap
}

// ParseReleaseFile parses the content of a Release file into an ordered FieldMap.
//
// Lines starting with a space or tab continue the current field. Every other
// non-blank line closes the current field and opens a new one at the first
// ": " separator; a line without the separator opens nothing. Blank lines are
// skipped and never end a field.
func ParseReleaseFile(content string) *FieldMap {
	info := NewFieldMap()

	var currentKey string
	var currentValue []string

	flush := func() {
		if currentKey == "" {
			return
		}
		if len(currentValue) == 1 {
			info.Set(currentKey, ScalarValue(currentValue[0]))
		} else {
			info.Set(currentKey, Value{Kind: Multi, Items: currentValue})
		}
		currentKey = ""
		currentValue = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Continuation of previous field
		if line[0] == ' ' || line[0] == '\t' {
			if currentKey != "" {
				currentValue = append(currentValue, strings.TrimSpace(line))
			}
			continue
		}

		flush()

		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		currentKey = key
		currentValue = []string{strings.TrimSpace(value)}
	}
	flush()

	// Parse special fields into lists
	for _, field := range []ReleaseField{RelArchitectures, RelComponents} {
		if v, ok := info.Get(string(field)); ok {
			info.Set(string(field), Value{Kind: List, Items: strings.Fields(v.String())})
		}
	}

	return info
}

// ParseRelease parses a Release document.
func ParseRelease(content string) *Release {
	return &Release{Fields: ParseReleaseFile(content)}
}

// Field returns the text of a field, or "" when it is absent
func (r *Release) Field(name ReleaseField) string {
	v, ok := r.Fields.Get(string(name))
	if !ok {
		return ""
	}
	return v.String()
}

// Architectures returns the architecture tokens and whether the field was present
func (r *Release) Architectures() ([]string, bool) {
	return r.list(RelArchitectures)
}

// Components returns the component tokens and whether the field was present
func (r *Release) Components() ([]string, bool) {
	return r.list(RelComponents)
}

func (r *Release) list(name ReleaseField) ([]string, bool) {
	v, ok := r.Fields.Get(string(name))
	if !ok {
		return nil, false
	}
	items := make([]string, len(v.Items))
	copy(items, v.Items)
	return items, true
}

// Dists returns the distribution names advertised by the Release file:
// the Suite, then the Codename when it differs.
func (r *Release) Dists() []string {
	var dists []string
	suite := r.Field(RelSuite)
	codename := r.Field(RelCodename)
	if suite != "" {
		dists = append(dists, suite)
	}
	if codename != "" && codename != suite {
		dists = append(dists, codename)
	}
	return dists
}
