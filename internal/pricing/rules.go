package pricing

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rcastell/dealerhub-backend/pkg/db/models"
	"github.com/rcastell/dealerhub-backend/pkg/enums"
)

// selectRule picks the winning rule among candidates that already share one
// scope. Filters: channel, quantity floor, validity window, segment targeting
// (a rule bound to a segment only matches customers in that segment).
// Segment-specific matches beat segment-agnostic ones; remaining ties are
// broken by priority ascending, then creation time ascending.
func selectRule(rules []models.PriceRule, channel enums.Channel, quantity int, segmentID *uuid.UUID, at time.Time) (*models.PriceRule, bool) {
	var matches []models.PriceRule
	for _, rule := range rules {
		if rule.Channel != channel {
			continue
		}
		if rule.MinQuantity > quantity {
			continue
		}
		if !rule.ActiveAt(at) {
			continue
		}
		if rule.SegmentID != nil {
			if segmentID == nil || *rule.SegmentID != *segmentID {
				continue
			}
		}
		matches = append(matches, rule)
	}
	if len(matches) == 0 {
		return nil, false
	}

	if segmented := filterSegmentSpecific(matches); len(segmented) > 0 {
		matches = segmented
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Priority != matches[j].Priority {
			return matches[i].Priority < matches[j].Priority
		}
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})

	winner := matches[0]
	return &winner, true
}

func filterSegmentSpecific(rules []models.PriceRule) []models.PriceRule {
	var out []models.PriceRule
	for _, rule := range rules {
		if rule.IsSegmentSpecific() {
			out = append(out, rule)
		}
	}
	return out
}
