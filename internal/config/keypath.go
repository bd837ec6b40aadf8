package config

import "strings"

// Key paths address values at arbitrary depth inside a fragment using
// dot-separated segments, e.g. "deploy.defaultTags". Internally a path is an
// ordered segment list; the dotted-string form is the public contract.

// splitPath splits a dotted key path into segments.
func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// GetValue returns the value at a dotted key path inside a fragment.
func GetValue(f Fragment, path string) (any, bool) {
	return getPath(f, path)
}

// SetValue writes a value at a dotted key path inside a fragment,
// materializing missing intermediate mappings.
func SetValue(f Fragment, path string, value any) {
	setPath(f, path, value)
}

// DeleteValue removes the value at a dotted key path inside a fragment and
// prunes emptied ancestor mappings.
func DeleteValue(f Fragment, path string) {
	deletePath(f, path)
}

// getPath returns the value at path inside m.
// The second result is false if any segment is absent or a non-mapping
// value is reached before the final segment.
func getPath(m Fragment, path string) (any, bool) {
	segments := splitPath(path)
	current := m
	for i, seg := range segments {
		val, ok := current[seg]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return val, true
		}
		next, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// setPath writes value at path inside m, materializing any missing
// intermediate mappings. An intermediate holding a non-mapping value is
// replaced by a fresh mapping, matching the resolver's "set always wins"
// contract.
func setPath(m Fragment, path string, value any) {
	segments := splitPath(path)
	current := m
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			next = Fragment{}
			current[seg] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// deletePath removes the leaf at path from m, then prunes now-empty
// ancestor mappings bottom-up. The root map itself is never removed.
// Deleting an absent path is a no-op.
func deletePath(m Fragment, path string) {
	segments := splitPath(path)

	// Walk down, recording the chain of parents.
	parents := make([]Fragment, 0, len(segments))
	current := m
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			return
		}
		parents = append(parents, current)
		current = next
	}

	delete(current, segments[len(segments)-1])

	// Prune emptied containers from the leaf's parent upward.
	for i := len(parents) - 1; i >= 0; i-- {
		if len(current) != 0 {
			break
		}
		delete(parents[i], segments[i])
		current = parents[i]
	}
}
