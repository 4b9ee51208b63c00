package curation

import (
	"sort"
	"strings"

	"github.com/phrazzld/memorybook/internal/domain"
)

// candidate pairs an eligible record with its curation score.
type candidate struct {
	record domain.Record
	score  int
}

// isEligible reports whether a record can be curated for the period.
//
// A record qualifies when it is a photo, has at least one media reference, and
// its date starts with the period's YYYY-MM key. The prefix match is exact.
func isEligible(r domain.Record, periodKey string) bool {
	return r.IsPhotoWithMedia() && strings.HasPrefix(r.Date, periodKey)
}

// scoreRecord computes the integer selection score for a record.
//
// The bonuses are independent and additive:
//   - params.MilestoneBonus when the record links a milestone
//   - params.CaptionBonus when the caption is non-blank after trimming
//   - params.LabelBonus when the record has tags or derived labels
func scoreRecord(r domain.Record, params *Params) int {
	score := 0
	if r.HasLinkedMilestone() {
		score += params.MilestoneBonus
	}
	if r.HasCaption() {
		score += params.CaptionBonus
	}
	if r.HasLabels() {
		score += params.LabelBonus
	}
	return score
}

// rankCandidates filters and scores the records, then orders them by score
// descending and date ascending. The sort is stable, so records equal on both
// keys keep their input order.
func rankCandidates(records []domain.Record, period domain.Period, params *Params) []candidate {
	key := period.Key()
	ranked := make([]candidate, 0, len(records))
	for _, r := range records {
		if !isEligible(r, key) {
			continue
		}
		ranked = append(ranked, candidate{record: r, score: scoreRecord(r, params)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].record.Date < ranked[j].record.Date
	})

	return ranked
}

// selectDiverse walks the ranked candidates once, accepting a record only while
// its exact date has fewer than params.DayCap accepted records, and stops once
// params.BookCap records are accepted. A skipped record is never reconsidered.
func selectDiverse(ranked []candidate, params *Params) []domain.Record {
	perDay := make(map[string]int)
	selected := make([]domain.Record, 0, min(len(ranked), params.BookCap))

	for _, c := range ranked {
		if len(selected) >= params.BookCap {
			break
		}
		if perDay[c.record.Date] >= params.DayCap {
			continue
		}
		perDay[c.record.Date]++
		selected = append(selected, c.record)
	}

	return selected
}

// sortChronologically re-sorts the selection by date so the book reads in
// order regardless of the score-driven selection order.
func sortChronologically(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}

// toPage converts a selected record into a page. Linked records become
// milestone pages; everything else becomes a photo page.
//
// The page id is derived from the record id so repeated curation of the same
// input yields identical pages.
func toPage(r domain.Record) domain.Page {
	page := domain.Page{
		ID:             "page-" + r.ID,
		Type:           domain.PageTypePhoto,
		SourceRecordID: r.ID,
		MediaRef:       r.PrimaryMediaRef(),
		Caption:        r.Caption,
		Date:           r.Date,
	}
	if r.HasLinkedMilestone() {
		page.Type = domain.PageTypeMilestone
		page.SourceMilestoneID = r.LinkedMilestoneID
	}
	return page
}

// curate runs the full pipeline: filter, score, rank, diverse greedy
// selection, chronological re-sort and conversion to pages.
func curate(records []domain.Record, period domain.Period, params *Params) []domain.Page {
	ranked := rankCandidates(records, period, params)
	selected := selectDiverse(ranked, params)
	sortChronologically(selected)

	pages := make([]domain.Page, 0, len(selected))
	for _, r := range selected {
		pages = append(pages, toPage(r))
	}
	return pages
}
