package engine

import "strings"

// Resolve walks a dot-separated path over the lead's attribute view and
// returns the value it lands on. Missing segments are not an error; the
// second return value reports whether the full path resolved.
//
// Resolution is a plain sequential key lookup per segment. It never walks
// the structure beyond the supplied path, so leads whose nested attributes
// refer back to an ancestor cannot cause unbounded descent.
func Resolve(lead *Lead, path string) (any, bool) {
	if lead == nil {
		return nil, false
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}

	segments := strings.Split(path, ".")

	current, ok := topLevel(lead, segments[0])
	if !ok {
		return nil, false
	}

	for _, segment := range segments[1:] {
		current, ok = step(current, segment)
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// topLevel resolves the first path segment against the lead's named
// attributes and its two open-ended maps.
func topLevel(lead *Lead, segment string) (any, bool) {
	switch segment {
	case "email":
		return lead.Email, true
	case "name":
		return lead.Name, true
	case "company":
		return lead.Company, true
	case "domain":
		return lead.Domain, true
	case "fields":
		if lead.Fields == nil {
			return nil, false
		}
		return lead.Fields, true
	case "utm":
		if lead.UTM == nil {
			return nil, false
		}
		return lead.UTM, true
	}
	return nil, false
}

// step descends one level into a container value.
func step(current any, segment string) (any, bool) {
	switch typed := current.(type) {
	case map[string]any:
		value, ok := typed[segment]
		return value, ok
	case map[string]string:
		value, ok := typed[segment]
		return value, ok
	default:
		return nil, false
	}
}
