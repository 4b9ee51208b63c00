package export

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPopulator struct{ mock.Mock }

func (m *mockPopulator) Populate(ctx context.Context, subjectID uuid.UUID) ([]domain.Page, error) {
	args := m.Called(ctx, subjectID)
	pages, _ := args.Get(0).([]domain.Page)
	return pages, args.Error(1)
}

type mockRenderer struct{ mock.Mock }

func (m *mockRenderer) Render(book *domain.Book) (string, error) {
	args := m.Called(book)
	return args.String(0), args.Error(1)
}

type mockConverter struct{ mock.Mock }

func (m *mockConverter) Convert(ctx context.Context, html, name string) (Artifact, error) {
	args := m.Called(ctx, html, name)
	return args.Get(0).(Artifact), args.Error(1)
}

// discardingConverter is a converter that also cleans up its artifacts.
type discardingConverter struct{ mockConverter }

func (m *discardingConverter) Discard(ctx context.Context, artifact Artifact) error {
	return m.Called(ctx, artifact).Error(0)
}

type mockSink struct{ mock.Mock }

func (m *mockSink) Share(ctx context.Context, artifact Artifact, opts ShareOptions) error {
	return m.Called(ctx, artifact, opts).Error(0)
}

type fixture struct {
	book      *domain.Book
	populator *mockPopulator
	renderer  *mockRenderer
	converter *mockConverter
	sink      *mockSink
	entitled  bool
	orch      *Orchestrator
}

func newFixture(t *testing.T, pages ...domain.Page) *fixture {
	t.Helper()

	book, err := domain.NewBook(uuid.New(), "classic", "cream")
	require.NoError(t, err)
	book.Cover.SubjectName = "Zoë"
	book.ReplacePages(pages)

	f := &fixture{
		book:      book,
		populator: &mockPopulator{},
		renderer:  &mockRenderer{},
		converter: &mockConverter{},
		sink:      &mockSink{},
		entitled:  true,
	}

	f.orch, err = NewOrchestrator(book, nil, Dependencies{
		Populator:   f.populator,
		Renderer:    f.renderer,
		Converter:   f.converter,
		Sink:        f.sink,
		Entitlement: EntitlementFunc(func(context.Context) bool { return f.entitled }),
	}, nil)
	require.NoError(t, err)
	return f
}

func (f *fixture) assertIdle(t *testing.T) {
	t.Helper()
	assert.False(t, f.orch.Generating())
	assert.False(t, f.orch.Exporting())
	assert.False(t, f.book.Generating)
	assert.False(t, f.book.Exporting)
}

var photoPage = domain.Page{ID: "p1", Type: domain.PageTypePhoto, MediaRef: "https://media.example/1.jpg"}

func TestNewOrchestratorValidatesDependencies(t *testing.T) {
	t.Parallel()

	book, err := domain.NewBook(uuid.New(), "classic", "cream")
	require.NoError(t, err)

	_, err = NewOrchestrator(nil, nil, Dependencies{}, nil)
	assert.ErrorIs(t, err, ErrNilBook)

	_, err = NewOrchestrator(book, nil, Dependencies{Populator: &mockPopulator{}}, nil)
	assert.ErrorIs(t, err, ErrMissingDependency)
	assert.Contains(t, err.Error(), "renderer")
}

func TestGeneratePhotoBook(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	generated := []domain.Page{
		{ID: "page-title", Type: domain.PageTypeTitle, Title: "Zoë's Memory Book"},
		photoPage,
	}
	f.populator.On("Populate", mock.Anything, f.book.SubjectID).
		Run(func(mock.Arguments) {
			assert.True(t, f.orch.Generating(), "generating while the populator runs")
		}).
		Return(generated, nil).Once()

	require.NoError(t, f.orch.GeneratePhotoBook(context.Background()))

	assert.Equal(t, generated, f.book.Pages)
	f.assertIdle(t)
	f.populator.AssertExpectations(t)
}

func TestGeneratePhotoBookFailureStillReachesIdle(t *testing.T) {
	t.Parallel()
	f := newFixture(t, photoPage)

	partial := []domain.Page{{ID: "page-title", Type: domain.PageTypeTitle}}
	cause := errors.New("records unavailable")
	f.populator.On("Populate", mock.Anything, f.book.SubjectID).Return(partial, cause).Once()

	err := f.orch.GeneratePhotoBook(context.Background())

	require.ErrorIs(t, err, cause)
	assert.Equal(t, partial, f.book.Pages, "book keeps whatever the populator produced")
	f.assertIdle(t)

	f.populator.On("Populate", mock.Anything, f.book.SubjectID).Return(nil, cause).Once()
	require.Error(t, f.orch.GeneratePhotoBook(context.Background()))
	assert.Empty(t, f.book.Pages)
	assert.NotNil(t, f.book.Pages)
	f.assertIdle(t)
}

func TestGeneratePhotoBookRejectsReentrantCall(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	release := make(chan struct{})
	started := make(chan struct{})
	f.populator.On("Populate", mock.Anything, f.book.SubjectID).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]domain.Page{photoPage}, nil).Once()

	done := make(chan error, 1)
	go func() { done <- f.orch.GeneratePhotoBook(context.Background()) }()
	<-started

	assert.ErrorIs(t, f.orch.GeneratePhotoBook(context.Background()), ErrGenerationInProgress)

	close(release)
	require.NoError(t, <-done)
	f.assertIdle(t)
	f.populator.AssertNumberOfCalls(t, "Populate", 1)
}

func TestExportPDF(t *testing.T) {
	t.Parallel()
	f := newFixture(t, photoPage)

	artifact := Artifact{Path: "/tmp/out/zoes-memory-book-1.pdf", Size: 2048}
	f.renderer.On("Render", f.book).
		Run(func(mock.Arguments) {
			assert.True(t, f.book.Exporting, "exporting while rendering")
		}).
		Return("<!DOCTYPE html>", nil).Once()
	f.converter.On("Convert", mock.Anything, "<!DOCTYPE html>", "zoes-memory-book").Return(artifact, nil).Once()
	f.sink.On("Share", mock.Anything, artifact, ShareOptions{
		BookID:      f.book.ID,
		MIMEType:    "application/pdf",
		DialogTitle: "Zoë's Memory Book",
		FileName:    "zoes-memory-book.pdf",
	}).Return(nil).Once()

	result, err := f.orch.ExportPDF(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ExportResult{
		Status:   ExportExported,
		Title:    "Zoë's Memory Book",
		FileName: "zoes-memory-book.pdf",
		Size:     2048,
	}, result)
	f.assertIdle(t)
	f.renderer.AssertExpectations(t)
	f.converter.AssertExpectations(t)
	f.sink.AssertExpectations(t)
}

func TestExportPDFWithoutEntitlement(t *testing.T) {
	t.Parallel()
	f := newFixture(t, photoPage)
	f.entitled = false

	result, err := f.orch.ExportPDF(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ExportRefused, result.Status)
	f.assertIdle(t)
	f.renderer.AssertNotCalled(t, "Render", mock.Anything)
	f.converter.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything)
	f.sink.AssertNotCalled(t, "Share", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportPDFRereadsEntitlement(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.entitled = false
	result, err := f.orch.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExportRefused, result.Status)

	f.entitled = true
	result, err = f.orch.ExportPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExportSkipped, result.Status, "an entitled export of an empty book is a no-op")
	f.assertIdle(t)
	f.converter.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportPDFPropagatesFailures(t *testing.T) {
	t.Parallel()

	t.Run("render", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, photoPage)
		cause := errors.New("template exploded")
		f.renderer.On("Render", f.book).Return("", cause).Once()

		_, err := f.orch.ExportPDF(context.Background())
		require.ErrorIs(t, err, cause)
		f.assertIdle(t)
		f.converter.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("convert", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, photoPage)
		cause := errors.New("converter unavailable")
		f.renderer.On("Render", f.book).Return("<html>", nil).Once()
		f.converter.On("Convert", mock.Anything, "<html>", mock.Anything).Return(Artifact{}, cause).Once()

		_, err := f.orch.ExportPDF(context.Background())
		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "convert")
		f.assertIdle(t)
		f.sink.AssertNotCalled(t, "Share", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("share", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, photoPage)
		cause := errors.New("disk full")
		f.renderer.On("Render", f.book).Return("<html>", nil).Once()
		f.converter.On("Convert", mock.Anything, "<html>", mock.Anything).Return(Artifact{Path: "/tmp/x.pdf"}, nil).Once()
		f.sink.On("Share", mock.Anything, mock.Anything, mock.Anything).Return(cause).Once()

		_, err := f.orch.ExportPDF(context.Background())
		require.ErrorIs(t, err, cause)
		f.assertIdle(t)
	})
}

func TestExportPDFDiscardsUnsharedArtifact(t *testing.T) {
	t.Parallel()

	book, err := domain.NewBook(uuid.New(), "classic", "cream")
	require.NoError(t, err)
	book.ReplacePages([]domain.Page{photoPage})

	renderer := &mockRenderer{}
	converter := &discardingConverter{}
	sink := &mockSink{}
	orch, err := NewOrchestrator(book, nil, Dependencies{
		Populator:   &mockPopulator{},
		Renderer:    renderer,
		Converter:   converter,
		Sink:        sink,
		Entitlement: Always(true),
	}, nil)
	require.NoError(t, err)

	artifact := Artifact{Path: "/tmp/out/memory-book-1.pdf", Size: 10}
	renderer.On("Render", book).Return("<html>", nil).Once()
	converter.On("Convert", mock.Anything, "<html>", mock.Anything).Return(artifact, nil).Once()
	sink.On("Share", mock.Anything, artifact, mock.Anything).Return(errors.New("disk full")).Once()
	converter.On("Discard", mock.Anything, artifact).Return(errors.New("already gone")).Once()

	_, err = orch.ExportPDF(context.Background())
	require.ErrorContains(t, err, "disk full")
	assert.NotContains(t, err.Error(), "already gone")
	assert.False(t, orch.Exporting())
	converter.AssertExpectations(t)
}

func TestExportPDFRejectsReentrantCall(t *testing.T) {
	t.Parallel()
	f := newFixture(t, photoPage)

	release := make(chan struct{})
	started := make(chan struct{})
	f.renderer.On("Render", f.book).Return("<html>", nil).Once()
	f.converter.On("Convert", mock.Anything, "<html>", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(Artifact{Path: "/tmp/x.pdf"}, nil).Once()
	f.sink.On("Share", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.orch.ExportPDF(context.Background())
		assert.NoError(t, err)
	}()
	<-started

	_, err := f.orch.ExportPDF(context.Background())
	assert.ErrorIs(t, err, ErrExportInProgress)

	close(release)
	wg.Wait()
	f.assertIdle(t)
	f.converter.AssertNumberOfCalls(t, "Convert", 1)
}

func TestDialogTitle(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Ada's Memory Book", DialogTitle("Ada"))
	assert.Equal(t, "Memory Book", DialogTitle(""))
}
