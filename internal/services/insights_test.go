package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/resume-insights-api/internal/analyzer"
	"github.com/BerylCAtieno/resume-insights-api/internal/models"
	"github.com/BerylCAtieno/resume-insights-api/internal/repository"
	"github.com/BerylCAtieno/resume-insights-api/internal/storage"
	"github.com/BerylCAtieno/resume-insights-api/internal/utils"
)

type fakeRepo struct {
	mu      sync.Mutex
	records []models.InsightRecord
	err     error
}

func (f *fakeRepo) Create(_ context.Context, filename string, insight models.Insight) (*models.InsightRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec := models.InsightRecord{
		ID:         utils.GenerateID(),
		Filename:   filename,
		UploadTime: time.Now().UTC(),
		Insights:   insight,
	}
	f.records = append(f.records, rec)
	return &rec, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*models.InsightRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, rec := range f.records {
		if rec.ID == id {
			rec := rec
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ models.ListQuery) ([]models.InsightRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.InsightRecord(nil), f.records...), nil
}

type fakeGenerator struct {
	insight *models.StructuredInsight
	err     error
	hook    func(ctx context.Context)
	calls   int
}

func (f *fakeGenerator) Generate(ctx context.Context, _ string) (*models.StructuredInsight, error) {
	f.calls++
	if f.hook != nil {
		f.hook(ctx)
	}
	return f.insight, f.err
}

type fakeArchive struct {
	objects map[string][]byte
	err     error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{objects: make(map[string][]byte)}
}

func (f *fakeArchive) Upload(_ context.Context, key string, data []byte, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeArchive) Download(_ context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func strPtr(s string) *string { return &s }

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.StatusCode)
}

func TestUploadResume_Structured(t *testing.T) {
	repo := &fakeRepo{}
	gen := &fakeGenerator{insight: &models.StructuredInsight{Summary: strPtr("Strong Go engineer.")}}
	svc := NewService(repo, gen, utils.NopLogger())

	rec, err := svc.UploadResume(context.Background(), &models.UploadRequest{
		File:     []byte("Jane Doe\nGo engineer"),
		Filename: "jane.TXT",
	})
	require.NoError(t, err)

	assert.Equal(t, models.KindStructured, rec.Insights.Kind)
	assert.Equal(t, "jane.TXT", rec.Filename)
	assert.Equal(t, 1, gen.calls)
	require.Len(t, repo.records, 1)
}

func TestUploadResume_FallbackWhenAnalysisUnavailable(t *testing.T) {
	repo := &fakeRepo{}
	gen := &fakeGenerator{err: analyzer.ErrAnalysisUnavailable}
	svc := NewService(repo, gen, utils.NopLogger())

	rec, err := svc.UploadResume(context.Background(), &models.UploadRequest{
		File:     []byte("Go go python Go data data python"),
		Filename: "cv.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, models.KindFallback, rec.Insights.Kind)
	assert.Equal(t, models.FallbackNote, rec.Insights.Fallback.Note)
	assert.Equal(t, []string{"go", "data", "python"}, rec.Insights.Fallback.TopKeywords)
}

func TestUploadResume_AnalysisTimeout(t *testing.T) {
	var deadline time.Time
	gen := &fakeGenerator{
		err: analyzer.ErrAnalysisUnavailable,
		hook: func(ctx context.Context) {
			deadline, _ = ctx.Deadline()
		},
	}
	svc := NewService(&fakeRepo{}, gen, utils.NopLogger(), WithAnalysisTimeout(5*time.Second))

	start := time.Now()
	_, err := svc.UploadResume(context.Background(), &models.UploadRequest{File: []byte("text"), Filename: "a.txt"})
	require.NoError(t, err)

	assert.WithinDuration(t, start.Add(5*time.Second), deadline, 2*time.Second)
}

func TestUploadResume_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{name: "unsupported extension", filename: "cv.doc", data: []byte("text")},
		{name: "no extension", filename: "README", data: []byte("text")},
		{name: "empty text", filename: "cv.txt", data: []byte("   \n\t ")},
		{name: "unreadable docx", filename: "cv.docx", data: []byte("not a zip")},
		{name: "unreadable pdf", filename: "cv.pdf", data: []byte("not a pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			gen := &fakeGenerator{}
			svc := NewService(repo, gen, utils.NopLogger())

			rec, err := svc.UploadResume(context.Background(), &models.UploadRequest{File: tt.data, Filename: tt.filename})

			assertStatus(t, err, http.StatusBadRequest)
			assert.Nil(t, rec)
			assert.Zero(t, gen.calls)
			assert.Empty(t, repo.records)
		})
	}
}

func TestUploadResume_CancelledPersistsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &fakeRepo{}
	gen := &fakeGenerator{
		err:  analyzer.ErrAnalysisUnavailable,
		hook: func(context.Context) { cancel() },
	}
	svc := NewService(repo, gen, utils.NopLogger())

	rec, err := svc.UploadResume(ctx, &models.UploadRequest{File: []byte("resume text"), Filename: "cv.txt"})

	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, rec)
	assert.Empty(t, repo.records)
}

func TestUploadResume_StorageFailure(t *testing.T) {
	repo := &fakeRepo{err: &repository.StorageError{Op: "create insight", Err: errors.New("disk full")}}
	svc := NewService(repo, &fakeGenerator{err: analyzer.ErrAnalysisUnavailable}, utils.NopLogger())

	_, err := svc.UploadResume(context.Background(), &models.UploadRequest{File: []byte("text"), Filename: "cv.txt"})

	assertStatus(t, err, http.StatusInternalServerError)
	assert.ErrorIs(t, err, repository.ErrStorage)
}

func TestUploadResume_Archive(t *testing.T) {
	archive := newFakeArchive()
	svc := NewService(&fakeRepo{}, &fakeGenerator{err: analyzer.ErrAnalysisUnavailable}, utils.NopLogger(), WithArchive(archive))

	rec, err := svc.UploadResume(context.Background(), &models.UploadRequest{File: []byte("resume"), Filename: "cv.txt"})
	require.NoError(t, err)
	assert.Equal(t, []byte("resume"), archive.objects[storage.ObjectKey(rec.ID, "cv.txt")])

	original, err := svc.GetOriginal(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", original.ContentType)
	assert.Equal(t, []byte("resume"), original.Data)
}

func TestUploadResume_ArchiveFailureIsNotFatal(t *testing.T) {
	archive := newFakeArchive()
	archive.err = errors.New("bucket unavailable")
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeGenerator{err: analyzer.ErrAnalysisUnavailable}, utils.NopLogger(), WithArchive(archive))

	rec, err := svc.UploadResume(context.Background(), &models.UploadRequest{File: []byte("resume"), Filename: "cv.txt"})
	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Len(t, repo.records, 1)
}

func TestGetOriginal_Errors(t *testing.T) {
	repo := &fakeRepo{}
	rec, err := repo.Create(context.Background(), "cv.txt", models.NewFallbackInsight(nil))
	require.NoError(t, err)

	_, err = NewService(repo, &fakeGenerator{}, utils.NopLogger()).GetOriginal(context.Background(), rec.ID)
	assertStatus(t, err, http.StatusNotFound)

	withArchive := NewService(repo, &fakeGenerator{}, utils.NopLogger(), WithArchive(newFakeArchive()))
	_, err = withArchive.GetOriginal(context.Background(), rec.ID)
	assertStatus(t, err, http.StatusNotFound)

	_, err = withArchive.GetOriginal(context.Background(), "unknown")
	assertStatus(t, err, http.StatusNotFound)
}

func TestGetInsight(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeGenerator{}, utils.NopLogger())
	created, err := repo.Create(context.Background(), "cv.txt", models.NewFallbackInsight([]string{"go"}))
	require.NoError(t, err)

	got, err := svc.GetInsight(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = svc.GetInsight(context.Background(), "missing")
	assertStatus(t, err, http.StatusNotFound)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	repo.err = &repository.StorageError{Op: "get insight", Err: errors.New("locked")}
	_, err = svc.GetInsight(context.Background(), created.ID)
	assertStatus(t, err, http.StatusInternalServerError)
}

func TestListInsights(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeGenerator{}, utils.NopLogger())

	recs, err := svc.ListInsights(context.Background(), models.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, recs)

	repo.err = &repository.StorageError{Op: "list insights", Err: errors.New("locked")}
	_, err = svc.ListInsights(context.Background(), models.ListQuery{Search: "go"})
	assertStatus(t, err, http.StatusInternalServerError)
}

func TestBuildReport(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeGenerator{}, utils.NopLogger())
	rec, err := repo.Create(context.Background(), "jane.pdf", models.NewStructuredInsight(&models.StructuredInsight{
		Scores:  models.Scores{{Name: "relevance", Value: 90}},
		Verdict: strPtr("Strong"),
	}))
	require.NoError(t, err)

	rpt, err := svc.BuildReport(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "resume_report_jane.pdf.pdf", rpt.Filename)
	assert.Equal(t, "application/pdf", rpt.ContentType)
	assert.True(t, bytes.HasPrefix(rpt.Data, []byte("%PDF")))

	_, err = svc.BuildReport(context.Background(), "missing")
	assertStatus(t, err, http.StatusNotFound)
}
