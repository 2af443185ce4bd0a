package services

import (
	"sort"

	"vgsales-forecaster/models"
)

// BuildVocabulary collects the distinct years, platforms and genres of the
// cleaned dataset, each sorted ascending. These are the values a user can
// pick from; records were already filtered for missing fields by the Cleaner.
func BuildVocabulary(records []*models.SalesRecord) models.Vocabulary {
	years := make(map[int]struct{})
	platforms := make(map[string]struct{})
	genres := make(map[string]struct{})

	for _, r := range records {
		years[r.Year] = struct{}{}
		platforms[r.Platform] = struct{}{}
		genres[r.Genre] = struct{}{}
	}

	vocab := models.Vocabulary{
		Years:     make([]int, 0, len(years)),
		Platforms: sortedSet(platforms),
		Genres:    sortedSet(genres),
	}
	for y := range years {
		vocab.Years = append(vocab.Years, y)
	}
	sort.Ints(vocab.Years)
	return vocab
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
