package srs

import (
	"sort"
	"time"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

// DueItems returns the IDs of item-level records whose next review time has
// passed at now. Lesson-level records are never due. The result is ordered by
// next review time, most overdue first; callers may reorder it freely.
func DueItems(records entities.ProgressMap, now time.Time) []string {
	due := make([]entities.ProgressRecord, 0, len(records))
	for id, rec := range records {
		if rec.IsLessonRecord() || !rec.IsDue(now) {
			continue
		}
		rec.ItemID = id
		due = append(due, rec)
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReview.Equal(due[j].NextReview) {
			return due[i].NextReview.Before(due[j].NextReview)
		}
		return due[i].ItemID < due[j].ItemID
	})

	ids := make([]string, len(due))
	for i, rec := range due {
		ids[i] = rec.ItemID
	}
	return ids
}

// CountDue returns how many items are due at now.
func CountDue(records entities.ProgressMap, now time.Time) int {
	n := 0
	for _, rec := range records {
		if !rec.IsLessonRecord() && rec.IsDue(now) {
			n++
		}
	}
	return n
}

// Unseen returns up to limit candidates that have no progress record yet,
// keeping the candidates' order. A negative limit means no limit.
func Unseen(candidates []string, records entities.ProgressMap, limit int) []string {
	var out []string
	for _, id := range candidates {
		if limit >= 0 && len(out) >= limit {
			break
		}
		if _, ok := records[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}
