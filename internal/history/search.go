package history

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Search returns up to limit stored items whose previews fuzzily match
// the query, best matches first. An empty query degrades to Recent.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return s.Recent(ctx, limit)
	}
	// Rank against the retained window rather than the full table; the
	// preview text is what the user saw and will be matching on.
	candidates, err := s.Recent(ctx, DefaultRetention)
	if err != nil {
		return nil, err
	}
	return RankItems(candidates, trimmed, limit), nil
}

// RankItems orders items by fuzzy match quality against query,
// dropping non-matches and keeping at most limit results. Substring
// matches are kept as a fallback when the fuzzy pass finds nothing,
// mirroring the menu filter behaviour this was lifted from.
func RankItems(items []Item, query string, limit int) []Item {
	previews := make([]string, len(items))
	for i, item := range items {
		previews[i] = item.Preview
	}
	ranks := fuzzy.RankFindNormalizedFold(query, previews)
	if len(ranks) == 0 {
		lower := strings.ToLower(query)
		var matched []Item
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Preview), lower) {
				matched = append(matched, item)
				if limit > 0 && len(matched) == limit {
					break
				}
			}
		}
		return matched
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})
	out := make([]Item, 0, len(ranks))
	for _, rank := range ranks {
		if rank.OriginalIndex < 0 || rank.OriginalIndex >= len(items) {
			continue
		}
		out = append(out, items[rank.OriginalIndex])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
