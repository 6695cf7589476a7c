package domain

// Toggle flips membership of id in list. It returns the list to write back
// and whether id is a member afterwards. The input slice is not modified.
//
// Only the given snapshot is checked: two toggles computed from the same
// snapshot and written back one after the other will clobber each other.
func Toggle(list []string, id string) ([]string, bool) {
	out := make([]string, 0, len(list)+1)
	found := false
	for _, v := range list {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if found {
		return out, false
	}
	return append(out, id), true
}
