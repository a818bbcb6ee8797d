package service

import (
	"sort"

	"github.com/Creativityliberty/Trace-AI/internal/model"
)

const mostMentionedLimit = 5

// StatsService derives aggregate statistics from the full archive. Nothing
// here is stored; every call recomputes from current archive state.
type StatsService struct {
	archive *ArchiveService
}

func NewStatsService(archive *ArchiveService) *StatsService {
	return &StatsService{archive: archive}
}

func (s *StatsService) GetStats() model.AggregateStats {
	return computeAggregate(s.archive.List())
}

// computeAggregate collapses every archived tool under its dedup key,
// keeping the variant with the higher mentions count, then derives
// per-category counts and the top mentioned tools.
func computeAggregate(results []model.ExtractionResult) model.AggregateStats {
	byKey := make(map[string]model.ToolMention)
	for _, res := range results {
		for _, tool := range res.Tools {
			key := tool.DedupKey()
			if key == "" {
				continue
			}
			if existing, ok := byKey[key]; !ok || tool.MentionsCount > existing.MentionsCount {
				byKey[key] = tool
			}
		}
	}

	categories := make(map[string]int)
	unique := make([]model.ToolMention, 0, len(byKey))
	for _, tool := range byKey {
		unique = append(unique, tool)
		cat := tool.Category
		if cat == "" {
			cat = model.CategoryOther
		}
		categories[cat]++
	}

	sort.Slice(unique, func(i, j int) bool {
		if unique[i].MentionsCount != unique[j].MentionsCount {
			return unique[i].MentionsCount > unique[j].MentionsCount
		}
		return unique[i].DedupKey() < unique[j].DedupKey()
	})

	top := unique
	if len(top) > mostMentionedLimit {
		top = top[:mostMentionedLimit]
	}

	return model.AggregateStats{
		TotalUniqueTools: len(byKey),
		Categories:       categories,
		MostMentioned:    top,
	}
}
