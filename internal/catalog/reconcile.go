package catalog

// Reconcile diffs a product's stored image URLs against the submitted set.
// toDelete keeps the order of current and toAdd the order of submitted;
// URLs present in both are left alone.
func Reconcile(current, submitted []string) (toDelete, toAdd []string) {
	want := make(map[string]struct{}, len(submitted))
	for _, u := range submitted {
		want[u] = struct{}{}
	}
	have := make(map[string]struct{}, len(current))
	for _, u := range current {
		have[u] = struct{}{}
		if _, keep := want[u]; !keep {
			toDelete = append(toDelete, u)
		}
	}
	for _, u := range dedupe(submitted) {
		if _, exists := have[u]; !exists {
			toAdd = append(toAdd, u)
		}
	}
	return toDelete, toAdd
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// without returns keys minus drop.
func without(keys, drop []string) []string {
	if len(drop) == 0 {
		return keys
	}
	skip := make(map[string]struct{}, len(drop))
	for _, k := range drop {
		skip[k] = struct{}{}
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := skip[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
