package article

import "sort"

// Merge reconciles a freshly scraped batch against previously stored
// articles. Incoming records replace existing ones with the same ID
// wholesale; there is no field-level reconciliation. The result is
// sorted by published date descending with undated articles last.
//
// The operation is deterministic and idempotent: merging the same batch
// twice yields the same result as merging it once.
func Merge(existing, incoming []Article) []Article {
	byID := make(map[string]Article, len(existing)+len(incoming))
	for _, a := range existing {
		byID[a.ID] = a
	}
	for _, a := range incoming {
		byID[a.ID] = a
	}

	merged := make([]Article, 0, len(byID))
	for _, a := range byID {
		merged = append(merged, a)
	}

	sort.Slice(merged, func(i, j int) bool {
		pi, pj := merged[i].PublishedAt, merged[j].PublishedAt
		switch {
		case pi == nil && pj == nil:
			return merged[i].ID < merged[j].ID
		case pi == nil:
			return false
		case pj == nil:
			return true
		case pi.Equal(*pj):
			return merged[i].ID < merged[j].ID
		default:
			return pi.After(*pj)
		}
	})

	return merged
}
