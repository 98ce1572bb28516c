package sanitize

// Sanitizer removes deny-listed keys and empty sequences from nested data.
type Sanitizer struct {
	deny DenyList
}

// New creates a sanitizer for the given deny-list keys.
func New(keys ...string) *Sanitizer {
	return &Sanitizer{deny: NewDenyList(keys...)}
}

// Default creates a sanitizer for DefaultDenyKeys plus any extra keys.
func Default(extra ...string) *Sanitizer {
	keys := make([]string, 0, len(DefaultDenyKeys)+len(extra))
	keys = append(keys, DefaultDenyKeys...)
	keys = append(keys, extra...)
	return New(keys...)
}

// DenyList returns the keys this sanitizer removes.
func (s *Sanitizer) DenyList() DenyList {
	return s.deny
}

// Value sanitizes any node. Mappings and sequences are rebuilt, everything
// else is returned as is.
func (s *Sanitizer) Value(node any) any {
	switch v := node.(type) {
	case map[string]any:
		return s.Mapping(v)
	case []any:
		return s.Sequence(v)
	case []map[string]any:
		return s.Sequence(mappingsToSequence(v))
	case map[string]string:
		return s.Mapping(stringsToMapping(v))
	default:
		return node
	}
}

// Mapping returns a copy of m without deny-listed keys and without keys that
// hold an empty sequence. Nested values are sanitized recursively.
func (s *Sanitizer) Mapping(m map[string]any) map[string]any {
	cleaned := make(map[string]any, len(m))
	for key, value := range m {
		if s.deny.Contains(key) {
			continue
		}

		if isEmptySequence(value) {
			continue
		}

		cleaned[key] = s.Value(value)
	}
	return cleaned
}

// Sequence returns a copy of seq with every mapping or sequence element
// sanitized. Length and order are preserved.
func (s *Sanitizer) Sequence(seq []any) []any {
	cleaned := make([]any, len(seq))
	for i, item := range seq {
		cleaned[i] = s.Value(item)
	}
	return cleaned
}

// Mappings sanitizes a list of records, preserving its length.
func (s *Sanitizer) Mappings(items []map[string]any) []map[string]any {
	cleaned := make([]map[string]any, len(items))
	for i, item := range items {
		if item == nil {
			continue
		}
		cleaned[i] = s.Mapping(item)
	}
	return cleaned
}

func isEmptySequence(value any) bool {
	switch v := value.(type) {
	case []any:
		return len(v) == 0
	case []map[string]any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func mappingsToSequence(items []map[string]any) []any {
	seq := make([]any, len(items))
	for i, item := range items {
		seq[i] = item
	}
	return seq
}

func stringsToMapping(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
