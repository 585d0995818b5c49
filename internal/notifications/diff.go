package notifications

// AttendeeDiff returns the attendees present only in after (added) and only in
// before (removed), in first-seen order without duplicates.
func AttendeeDiff(before, after []string) (added, removed []string) {
	inBefore := set(before)
	inAfter := set(after)

	for _, a := range uniq(after) {
		if !inBefore[a] {
			added = append(added, a)
		}
	}
	for _, b := range uniq(before) {
		if !inAfter[b] {
			removed = append(removed, b)
		}
	}
	return added, removed
}

func set(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, item := range items {
		m[item] = true
	}
	return m
}

func uniq(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
