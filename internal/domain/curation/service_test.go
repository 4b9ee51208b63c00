package curation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageSourceIDs(pages []domain.Page) []string {
	ids := make([]string, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.SourceRecordID)
	}
	return ids
}

// mixedRecords builds a month of records of every kind, some out of period.
func mixedRecords() []domain.Record {
	var records []domain.Record
	for day := 1; day <= 28; day++ {
		date := fmt.Sprintf("2024-07-%02d", day)
		for n := 0; n < 4; n++ {
			r := photo(fmt.Sprintf("p-%02d-%d", day, n), date)
			switch n {
			case 1:
				r.Caption = "caption"
			case 2:
				r.Tags = []string{"tag"}
			case 3:
				r.LinkedMilestoneID = fmt.Sprintf("m-%d", day)
			}
			records = append(records, r)
		}
		records = append(records,
			domain.Record{ID: fmt.Sprintf("t-%02d", day), Type: domain.RecordTypeText, Date: date, Caption: "note"},
			domain.Record{ID: fmt.Sprintf("e-%02d", day), Type: domain.RecordTypePhoto, Date: date},
			photo(fmt.Sprintf("june-%02d", day), fmt.Sprintf("2024-06-%02d", day)),
		)
	}
	return records
}

func TestCurateIsDeterministic(t *testing.T) {
	t.Parallel()

	records := mixedRecords()
	first := Curate(records, july2024)
	second := Curate(records, july2024)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestCurateEligibility(t *testing.T) {
	t.Parallel()

	records := mixedRecords()
	byID := make(map[string]domain.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	for _, page := range Curate(records, july2024) {
		src, ok := byID[page.SourceRecordID]
		require.True(t, ok)
		assert.Equal(t, domain.RecordTypePhoto, src.Type)
		assert.NotEmpty(t, src.MediaRefs)
		assert.True(t, strings.HasPrefix(src.Date, "2024-07"), "record %s outside period", src.ID)
		assert.NotEmpty(t, page.MediaRef)
	}
}

func TestCurateEmptyInput(t *testing.T) {
	t.Parallel()

	pages := Curate(nil, july2024)
	assert.NotNil(t, pages)
	assert.Empty(t, pages)

	onlyText := []domain.Record{{ID: "t", Type: domain.RecordTypeText, Date: "2024-07-01"}}
	assert.Empty(t, Curate(onlyText, july2024))
}

func TestCurateHigherScoreWinsLastSlot(t *testing.T) {
	t.Parallel()

	svc := NewServiceWithParams(NewParams(ParamsConfig{BookCap: 1}))

	low := photo("low", "2024-07-01")
	high := photo("high", "2024-07-09")
	high.LinkedMilestoneID = "m1"
	high.Caption = "First tooth"
	high.Tags = []string{"teeth"}

	pages := svc.Curate([]domain.Record{low, high}, july2024)
	require.Len(t, pages, 1)
	assert.Equal(t, "high", pages[0].SourceRecordID)
}

func TestCuratePerDayCap(t *testing.T) {
	t.Parallel()

	var records []domain.Record
	for i := 0; i < 5; i++ {
		records = append(records, photo(fmt.Sprintf("same-%d", i), "2024-07-14"))
	}

	pages := Curate(records, july2024)
	assert.Len(t, pages, 3)
	assert.Equal(t, []string{"same-0", "same-1", "same-2"}, pageSourceIDs(pages))
}

func TestCurateBookCap(t *testing.T) {
	t.Parallel()

	var records []domain.Record
	for day := 1; day <= 25; day++ {
		records = append(records, photo(fmt.Sprintf("r%02d", day), fmt.Sprintf("2024-07-%02d", day)))
	}

	assert.Len(t, Curate(records, july2024), 20)
}

func TestCurateFewerThanCapIsNotPadded(t *testing.T) {
	t.Parallel()

	records := []domain.Record{photo("a", "2024-07-01"), photo("b", "2024-07-02")}
	assert.Len(t, Curate(records, july2024), 2)
}

func TestCurateChronologicalOutput(t *testing.T) {
	t.Parallel()

	pages := Curate(mixedRecords(), july2024)
	require.Len(t, pages, 20)
	for i := 1; i < len(pages); i++ {
		assert.LessOrEqual(t, pages[i-1].Date, pages[i].Date)
	}
}

func TestCurateJulyScenario(t *testing.T) {
	t.Parallel()

	firstPlain := photo("first-plain", "2024-07-01")
	firstCaption := photo("first-caption", "2024-07-01")
	firstCaption.Caption = "Sunhat"
	second := photo("second", "2024-07-02")
	second.LinkedMilestoneID = "m-rolls-over"
	third := photo("third", "2024-07-03")

	records := []domain.Record{firstPlain, firstCaption, second, third}

	ranked := rankCandidates(records, july2024, NewDefaultParams())
	rankedIDs := make([]string, 0, len(ranked))
	for _, c := range ranked {
		rankedIDs = append(rankedIDs, c.record.ID)
	}
	assert.Equal(t, []string{"second", "first-caption", "first-plain", "third"}, rankedIDs)

	pages := Curate(records, july2024)
	assert.Equal(t, []string{"first-caption", "first-plain", "second", "third"}, pageSourceIDs(pages))
	assert.Equal(t, domain.PageTypeMilestone, pages[2].Type)
	assert.Equal(t, domain.PageTypePhoto, pages[0].Type)
}

func TestDefaultServiceParams(t *testing.T) {
	t.Parallel()

	p := NewDefaultService().Params()
	assert.Equal(t, 3, p.DayCap)
	assert.Equal(t, 20, p.BookCap)

	custom := NewServiceWithParams(nil).Params()
	assert.Equal(t, p, custom)
}
