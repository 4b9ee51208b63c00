// Package assembly builds page lists for a book from the subject's records,
// milestones and profile. It has two paths: the unconditional default layout
// (title, milestone pairings, every remaining photo) and the curated period
// layout driven by the curation engine.
package assembly

import (
	"sort"

	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/domain/curation"
)

// MilestoneWindowDays is how far a photo's date may be from a milestone's
// anchor date for the photo to illustrate that milestone.
const MilestoneWindowDays = 3

// TitlePageID is the id given to generated title pages.
const TitlePageID = "page-title"

// DefaultTitle is used when the subject has no display name.
const DefaultTitle = "Memory Book"

// DateFormatter renders a calendar date string in long form.
type DateFormatter func(date string) string

// Assembler builds page lists and default covers.
type Assembler struct {
	curator    curation.Service
	formatDate DateFormatter
}

// New creates an Assembler. A nil curator uses the default curation
// parameters; a nil formatter leaves dates as given.
func New(curator curation.Service, formatDate DateFormatter) *Assembler {
	if curator == nil {
		curator = curation.NewDefaultService()
	}
	if formatDate == nil {
		formatDate = func(date string) string { return date }
	}
	return &Assembler{curator: curator, formatDate: formatDate}
}

// BookTitle returns the subject-based book title, e.g. "Ada's Memory Book".
func BookTitle(profile domain.Profile) string {
	if profile.DisplayName == "" {
		return DefaultTitle
	}
	return profile.DisplayName + "'s " + DefaultTitle
}

// TitlePage builds the subject title page, captioned with the birth date
// when one is known.
func (a *Assembler) TitlePage(profile domain.Profile) domain.Page {
	page := domain.Page{
		ID:    TitlePageID,
		Type:  domain.PageTypeTitle,
		Title: BookTitle(profile),
	}
	if profile.BirthDate != "" {
		page.Caption = "Born " + a.formatDate(profile.BirthDate)
	}
	return page
}

// DefaultPages builds the uncurated layout: the title page, then one
// milestone page per completed milestone that has a photo within
// MilestoneWindowDays of its anchor date, then every remaining photo with
// media in ascending date order.
//
// Pairing is first match, not best match: milestones are visited in anchor
// date order and each takes the earliest unused photo inside its window.
func (a *Assembler) DefaultPages(
	records []domain.Record,
	milestones []domain.Milestone,
	profile domain.Profile,
) []domain.Page {
	photos := chronologicalPhotos(records)
	pages := make([]domain.Page, 0, len(photos)+1)
	pages = append(pages, a.TitlePage(profile))

	used := make(map[string]bool, len(photos))
	for _, m := range completedMilestones(milestones) {
		anchor := m.AnchorDate()
		for _, p := range photos {
			if used[p.ID] {
				continue
			}
			days, ok := domain.DaysApart(p.Date, anchor)
			if !ok || days > MilestoneWindowDays {
				continue
			}
			used[p.ID] = true
			pages = append(pages, domain.Page{
				ID:                "page-" + p.ID,
				Type:              domain.PageTypeMilestone,
				SourceRecordID:    p.ID,
				SourceMilestoneID: m.ID,
				MediaRef:          p.PrimaryMediaRef(),
				Caption:           p.Caption,
				Date:              p.Date,
				Title:             m.CustomTitle,
			})
			break
		}
	}

	for _, p := range photos {
		if used[p.ID] {
			continue
		}
		pages = append(pages, domain.Page{
			ID:             "page-" + p.ID,
			Type:           domain.PageTypePhoto,
			SourceRecordID: p.ID,
			MediaRef:       p.PrimaryMediaRef(),
			Caption:        p.Caption,
			Date:           p.Date,
		})
	}

	return pages
}

// PeriodPages builds a title page labeled with the month and year, followed by
// the curated selection for that month. The title page is emitted even when
// nothing in the period is eligible.
func (a *Assembler) PeriodPages(records []domain.Record, period domain.Period) []domain.Page {
	curated := a.curator.Curate(records, period)

	pages := make([]domain.Page, 0, len(curated)+1)
	pages = append(pages, domain.Page{
		ID:    TitlePageID,
		Type:  domain.PageTypeTitle,
		Title: period.Label(),
	})
	return append(pages, curated...)
}

// DefaultCover derives cover text from the profile and the photos: the book
// title, the subject name, a month range label and the earliest photo.
// The color theme is left for the caller to keep or set.
func (a *Assembler) DefaultCover(profile domain.Profile, records []domain.Record) domain.Cover {
	cover := domain.Cover{
		Title:       BookTitle(profile),
		SubjectName: profile.DisplayName,
	}

	photos := chronologicalPhotos(records)
	if len(photos) == 0 {
		return cover
	}
	cover.PhotoRef = photos[0].PrimaryMediaRef()
	cover.DateRangeLabel = monthRangeLabel(photos[0].Date, photos[len(photos)-1].Date)
	return cover
}

// chronologicalPhotos returns the photo records with media, stably sorted by
// date.
func chronologicalPhotos(records []domain.Record) []domain.Record {
	photos := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if r.IsPhotoWithMedia() {
			photos = append(photos, r)
		}
	}
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].Date < photos[j].Date
	})
	return photos
}

// completedMilestones returns the completed milestones, stably sorted by
// anchor date.
func completedMilestones(milestones []domain.Milestone) []domain.Milestone {
	done := make([]domain.Milestone, 0, len(milestones))
	for _, m := range milestones {
		if m.IsCompleted {
			done = append(done, m)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].AnchorDate() < done[j].AnchorDate()
	})
	return done
}

// monthRangeLabel renders "June 2024 – July 2024", or a single month when
// both dates fall in the same one. Unparseable dates yield "".
func monthRangeLabel(first, last string) string {
	start, err := domain.ParseDate(first)
	if err != nil {
		return ""
	}
	end, err := domain.ParseDate(last)
	if err != nil {
		return ""
	}
	from := start.Format("January 2006")
	to := end.Format("January 2006")
	if from == to {
		return from
	}
	return from + " – " + to
}
