package sanitizer

// NormalizeEach normalizes every item and drops empty results, keeping order and duplicates.
func NormalizeEach(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if normalized := normalizer(item); normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}

func NormalizeAttendees(attendees []string) []string {
	return NormalizeEach(attendees, NormalizeEmail)
}
