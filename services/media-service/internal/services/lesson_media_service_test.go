package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/compress"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/events"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/tasks"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/transcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockLessonRepository is a mock implementation of LessonRepository
type mockLessonRepository struct {
	lesson       *models.Lesson
	getErr       error
	statusErr    error
	saveErr      error
	imageErr     error
	reclaimErr   error
	statusCalls  [][2]models.CompressionStatus
	reclaimCalls []time.Duration
	savedUpdate  *models.CompressionUpdate
	savedImage   string
	saveCtxError error
}

func (m *mockLessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.lesson, nil
}

func (m *mockLessonRepository) UpdateStatus(ctx context.Context, id int, from, to models.CompressionStatus) error {
	m.statusCalls = append(m.statusCalls, [2]models.CompressionStatus{from, to})
	if m.statusErr != nil {
		return m.statusErr
	}
	m.lesson.CompressionStatus = to
	return nil
}

func (m *mockLessonRepository) ReclaimStale(ctx context.Context, id int, olderThan time.Duration) error {
	m.reclaimCalls = append(m.reclaimCalls, olderThan)
	return m.reclaimErr
}

func (m *mockLessonRepository) SaveCompression(ctx context.Context, id int, update models.CompressionUpdate) error {
	m.saveCtxError = ctx.Err()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedUpdate = &update
	return nil
}

func (m *mockLessonRepository) SetCompressedImage(ctx context.Context, id int, path string) error {
	if m.imageErr != nil {
		return m.imageErr
	}
	m.savedImage = path
	return nil
}

// mockUploader is a mock implementation of MediaUploader
type mockUploader struct {
	stored      *StoredFile
	storeErr    error
	videoResult models.VideoResult
	imageResult models.ImageResult
	processOpts *transcode.Options
	processDir  string
}

func (m *mockUploader) StoreVideoOriginal(file *models.UploadedFile, uploadFolder, compressedFolder string) (*StoredFile, error) {
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	return m.stored, nil
}

func (m *mockUploader) ProcessStoredVideo(ctx context.Context, stored *StoredFile, compressedFolder string, opts transcode.Options) models.VideoResult {
	m.processOpts = &opts
	m.processDir = compressedFolder
	return m.videoResult
}

func (m *mockUploader) SaveImageFile(ctx context.Context, file *models.UploadedFile, uploadFolder, compressedFolder string, opts compress.ImageOptions) models.ImageResult {
	return m.imageResult
}

// mockQueue is a mock implementation of TranscodeQueue
type mockQueue struct {
	payload *tasks.TranscodeVideoPayload
	err     error
}

func (m *mockQueue) EnqueueTranscode(ctx context.Context, p tasks.TranscodeVideoPayload) error {
	m.payload = &p
	return m.err
}

// mockPublisher is a mock implementation of EventPublisher
type mockPublisher struct {
	events []*events.LessonCompressionChanged
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, evt *events.LessonCompressionChanged) error {
	m.events = append(m.events, evt)
	return m.err
}

var storedOriginal = &StoredFile{
	Filename: "20250301_100000_abcd1234_ef567890.mp4",
	Path:     "/srv/media/uploads/20250301_100000_abcd1234_ef567890.mp4",
	Size:     1000,
}

func successfulVideoResult() models.VideoResult {
	return models.VideoResult{
		Success:          true,
		Message:          "Video compressed successfully!",
		OriginalPath:     storedOriginal.Path,
		OriginalSize:     1000,
		TotalSize:        400,
		CompressionRatio: 60,
		Versions: models.VideoVersions{
			models.QualityLow:  {Path: "/srv/media/compressed/x_low.mp4", Size: 150},
			models.QualityWebM: {Path: "/srv/media/compressed/x_webm.webm", Size: 250},
		},
	}
}

const testStaleAfter = 7 * time.Minute

func newTestLessonMediaService(repo *mockLessonRepository, uploader *mockUploader, queue TranscodeQueue, publisher *mockPublisher) *LessonMediaService {
	return NewLessonMediaService(repo, uploader, queue, publisher, "/srv/media/uploads", "/srv/media/compressed", testStaleAfter, zap.NewNop())
}

func TestNewLessonMediaService_DefaultPublisher(t *testing.T) {
	svc := NewLessonMediaService(&mockLessonRepository{}, &mockUploader{}, nil, nil, "u", "c", 0, zap.NewNop())

	assert.IsType(t, events.NopPublisher{}, svc.events)
	assert.Nil(t, svc.queue)
}

func TestLessonMediaService_UploadVideo_Sync(t *testing.T) {
	tests := []struct {
		name           string
		startStatus    models.CompressionStatus
		videoResult    models.VideoResult
		expectedStatus models.CompressionStatus
	}{
		{
			name:           "completed from pending",
			startStatus:    models.CompressionPending,
			videoResult:    successfulVideoResult(),
			expectedStatus: models.CompressionCompleted,
		},
		{
			name:           "re-upload of completed lesson",
			startStatus:    models.CompressionCompleted,
			videoResult:    successfulVideoResult(),
			expectedStatus: models.CompressionCompleted,
		},
		{
			name:           "transcode failure marks failed",
			startStatus:    models.CompressionPending,
			videoResult:    models.VideoFailure(models.NewMediaError(models.KindToolUnavailable, "FFmpeg not installed", nil)),
			expectedStatus: models.CompressionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockLessonRepository{lesson: &models.Lesson{ID: 5, CompressionStatus: tt.startStatus}}
			uploader := &mockUploader{stored: storedOriginal, videoResult: tt.videoResult}
			publisher := &mockPublisher{}
			svc := newTestLessonMediaService(repo, uploader, nil, publisher)

			out, err := svc.UploadVideo(context.Background(), 5, &models.UploadedFile{Filename: "a.mp4"}, []models.Quality{models.QualityLow, models.QualityWebM})
			require.NoError(t, err)

			assert.Equal(t, 5, out.LessonID)
			assert.Equal(t, tt.expectedStatus, out.Status)
			assert.Equal(t, tt.videoResult, out.Result)
			assert.Equal(t, []models.Quality{models.QualityLow, models.QualityWebM}, uploader.processOpts.Qualities)
			assert.Equal(t, [][2]models.CompressionStatus{{tt.startStatus, models.CompressionProcessing}}, repo.statusCalls)

			require.NotNil(t, repo.savedUpdate)
			assert.Equal(t, tt.expectedStatus, repo.savedUpdate.Status)
			assert.Equal(t, models.ContentTypeVideo, repo.savedUpdate.ContentType)
			assert.Equal(t, storedOriginal.Path, repo.savedUpdate.ContentURL)

			require.Len(t, publisher.events, 2)
			assert.Equal(t, models.CompressionProcessing, publisher.events[0].To)
			assert.Equal(t, tt.expectedStatus, publisher.events[1].To)

			if tt.videoResult.Success {
				assert.Equal(t, &models.CompressionMetadata{OriginalSize: 1000, TotalCompressedSize: 400, CompressionRatio: 60}, repo.savedUpdate.Metadata)
				assert.Len(t, repo.savedUpdate.VideoVersions, 2)
				assert.Equal(t, []models.Quality{models.QualityLow, models.QualityWebM}, publisher.events[1].Tiers)
			} else {
				assert.Nil(t, repo.savedUpdate.Metadata)
				assert.Nil(t, repo.savedUpdate.VideoVersions)
				assert.Equal(t, "FFmpeg not installed", publisher.events[1].Message)
			}
		})
	}
}

func TestLessonMediaService_UploadVideo_RecordsResultAfterCancel(t *testing.T) {
	repo := &mockLessonRepository{lesson: &models.Lesson{ID: 5, CompressionStatus: models.CompressionPending}}
	uploader := &mockUploader{stored: storedOriginal, videoResult: successfulVideoResult()}
	svc := newTestLessonMediaService(repo, uploader, nil, &mockPublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	uploaderCancel := &cancellingUploader{mockUploader: uploader, cancel: cancel}
	svc.uploader = uploaderCancel

	_, err := svc.UploadVideo(ctx, 5, &models.UploadedFile{Filename: "a.mp4"}, nil)
	require.NoError(t, err)
	assert.NoError(t, repo.saveCtxError)
	assert.Equal(t, models.CompressionCompleted, repo.savedUpdate.Status)
}

// cancellingUploader cancels the request context while the video is processed
type cancellingUploader struct {
	*mockUploader
	cancel context.CancelFunc
}

func (c *cancellingUploader) ProcessStoredVideo(ctx context.Context, stored *StoredFile, compressedFolder string, opts transcode.Options) models.VideoResult {
	c.cancel()
	return c.mockUploader.ProcessStoredVideo(ctx, stored, compressedFolder, opts)
}

func TestLessonMediaService_UploadVideo_Async(t *testing.T) {
	repo := &mockLessonRepository{lesson: &models.Lesson{ID: 9, CompressionStatus: models.CompressionFailed}}
	uploader := &mockUploader{stored: storedOriginal}
	queue := &mockQueue{}
	publisher := &mockPublisher{}
	svc := newTestLessonMediaService(repo, uploader, queue, publisher)

	out, err := svc.UploadVideo(context.Background(), 9, &models.UploadedFile{Filename: "a.mp4"}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.CompressionProcessing, out.Status)
	assert.True(t, out.Result.Success)
	assert.Equal(t, "Video queued for compression", out.Result.Message)
	assert.Nil(t, uploader.processOpts)
	assert.Nil(t, repo.savedUpdate)

	require.NotNil(t, queue.payload)
	assert.Equal(t, tasks.TranscodeVideoPayload{
		LessonID:         9,
		OriginalFilename: storedOriginal.Filename,
		OriginalPath:     storedOriginal.Path,
		OriginalSize:     1000,
		CompressedFolder: "/srv/media/compressed",
	}, *queue.payload)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, models.CompressionFailed, publisher.events[0].From)
}

func TestLessonMediaService_UploadVideo_EnqueueError(t *testing.T) {
	repo := &mockLessonRepository{lesson: &models.Lesson{ID: 9, CompressionStatus: models.CompressionPending}}
	svc := newTestLessonMediaService(repo, &mockUploader{stored: storedOriginal}, &mockQueue{err: errors.New("redis down")}, &mockPublisher{})

	out, err := svc.UploadVideo(context.Background(), 9, &models.UploadedFile{Filename: "a.mp4"}, nil)

	require.Error(t, err)
	assert.Nil(t, out)
	require.NotNil(t, repo.savedUpdate)
	assert.Equal(t, models.CompressionFailed, repo.savedUpdate.Status)
}

func TestLessonMediaService_UploadVideo_Errors(t *testing.T) {
	tests := []struct {
		name        string
		repo        *mockLessonRepository
		uploader    *mockUploader
		qualities   []models.Quality
		expectedErr error
		expectedKnd models.ErrorKind
	}{
		{
			name:        "lesson not found",
			repo:        &mockLessonRepository{getErr: models.ErrLessonNotFound},
			uploader:    &mockUploader{},
			expectedErr: models.ErrLessonNotFound,
		},
		{
			name:        "already processing",
			repo:        &mockLessonRepository{lesson: &models.Lesson{ID: 1, CompressionStatus: models.CompressionProcessing}, reclaimErr: models.ErrInvalidTransition},
			uploader:    &mockUploader{stored: storedOriginal},
			expectedErr: models.ErrInvalidTransition,
		},
		{
			name:        "status changed concurrently",
			repo:        &mockLessonRepository{lesson: &models.Lesson{ID: 1, CompressionStatus: models.CompressionPending}, statusErr: models.ErrInvalidTransition},
			uploader:    &mockUploader{stored: storedOriginal},
			expectedErr: models.ErrInvalidTransition,
		},
		{
			name:        "unknown quality",
			repo:        &mockLessonRepository{lesson: &models.Lesson{ID: 1}},
			uploader:    &mockUploader{},
			qualities:   []models.Quality{"8k"},
			expectedKnd: models.KindInvalidQuality,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestLessonMediaService(tt.repo, tt.uploader, nil, &mockPublisher{})

			out, err := svc.UploadVideo(context.Background(), 1, &models.UploadedFile{Filename: "a.mp4"}, tt.qualities)

			require.Error(t, err)
			assert.Nil(t, out)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
			if tt.expectedKnd != "" {
				assert.Equal(t, tt.expectedKnd, models.KindOf(err))
			}
			assert.Nil(t, tt.repo.savedUpdate)
		})
	}
}

func TestLessonMediaService_UploadVideo_StaleProcessing(t *testing.T) {
	t.Run("stale run taken over", func(t *testing.T) {
		repo := &mockLessonRepository{lesson: &models.Lesson{ID: 1, CompressionStatus: models.CompressionProcessing}}
		publisher := &mockPublisher{}
		svc := newTestLessonMediaService(repo, &mockUploader{stored: storedOriginal, videoResult: successfulVideoResult()}, nil, publisher)

		out, err := svc.UploadVideo(context.Background(), 1, &models.UploadedFile{Filename: "clip.mp4"}, nil)
		require.NoError(t, err)

		assert.Equal(t, models.CompressionCompleted, out.Status)
		assert.Equal(t, []time.Duration{testStaleAfter}, repo.reclaimCalls)
		assert.Empty(t, repo.statusCalls)
		require.NotNil(t, repo.savedUpdate)
		assert.Equal(t, models.CompressionCompleted, repo.savedUpdate.Status)
		require.Len(t, publisher.events, 2)
		assert.Equal(t, models.CompressionProcessing, publisher.events[0].From)
	})

	t.Run("takeover disabled", func(t *testing.T) {
		repo := &mockLessonRepository{lesson: &models.Lesson{ID: 1, CompressionStatus: models.CompressionProcessing}}
		svc := NewLessonMediaService(repo, &mockUploader{stored: storedOriginal}, nil, &mockPublisher{}, "u", "c", 0, zap.NewNop())

		out, err := svc.UploadVideo(context.Background(), 1, &models.UploadedFile{Filename: "clip.mp4"}, nil)

		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		assert.Nil(t, out)
		assert.Empty(t, repo.reclaimCalls)
	})

	t.Run("storage failure after takeover marks failed", func(t *testing.T) {
		repo := &mockLessonRepository{lesson: &models.Lesson{ID: 1, CompressionStatus: models.CompressionProcessing}}
		uploader := &mockUploader{storeErr: models.NewMediaError(models.KindStorageError, "disk full", nil)}
		publisher := &mockPublisher{}
		svc := newTestLessonMediaService(repo, uploader, nil, publisher)

		out, err := svc.UploadVideo(context.Background(), 1, &models.UploadedFile{Filename: "clip.mp4"}, nil)
		require.NoError(t, err)

		assert.False(t, out.Result.Success)
		assert.Equal(t, models.CompressionFailed, out.Status)
		assert.Equal(t, [][2]models.CompressionStatus{{models.CompressionProcessing, models.CompressionFailed}}, repo.statusCalls)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, models.CompressionFailed, publisher.events[0].To)
	})
}

func TestLessonMediaService_UploadVideo_SaveFailure(t *testing.T) {
	tests := []struct {
		name          string
		saveErr       error
		expectedCalls [][2]models.CompressionStatus
	}{
		{
			name:    "lesson marked failed",
			saveErr: errors.New("deadlock"),
			expectedCalls: [][2]models.CompressionStatus{
				{models.CompressionPending, models.CompressionProcessing},
				{models.CompressionProcessing, models.CompressionFailed},
			},
		},
		{
			name:    "lesson that moved on left alone",
			saveErr: models.ErrInvalidTransition,
			expectedCalls: [][2]models.CompressionStatus{
				{models.CompressionPending, models.CompressionProcessing},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockLessonRepository{lesson: &models.Lesson{ID: 5, CompressionStatus: models.CompressionPending}, saveErr: tt.saveErr}
			svc := newTestLessonMediaService(repo, &mockUploader{stored: storedOriginal, videoResult: successfulVideoResult()}, nil, &mockPublisher{})

			out, err := svc.UploadVideo(context.Background(), 5, &models.UploadedFile{Filename: "a.mp4"}, nil)

			assert.ErrorIs(t, err, tt.saveErr)
			assert.Nil(t, out)
			assert.Equal(t, tt.expectedCalls, repo.statusCalls)
		})
	}
}

func TestLessonMediaService_UploadVideo_ValidationLeavesLessonUntouched(t *testing.T) {
	repo := &mockLessonRepository{lesson: &models.Lesson{ID: 1, CompressionStatus: models.CompressionCompleted}}
	uploader := &mockUploader{storeErr: models.NewMediaError(models.KindUnsupportedFormat, "File type .exe not allowed", nil)}
	publisher := &mockPublisher{}
	svc := newTestLessonMediaService(repo, uploader, nil, publisher)

	out, err := svc.UploadVideo(context.Background(), 1, &models.UploadedFile{Filename: "movie.exe"}, nil)
	require.NoError(t, err)

	assert.False(t, out.Result.Success)
	assert.Equal(t, models.KindUnsupportedFormat, out.Result.Kind)
	assert.Equal(t, models.CompressionCompleted, out.Status)
	assert.Empty(t, repo.statusCalls)
	assert.Empty(t, publisher.events)
}

func TestLessonMediaService_ProcessQueuedVideo(t *testing.T) {
	payload := tasks.TranscodeVideoPayload{
		LessonID:         3,
		OriginalFilename: storedOriginal.Filename,
		OriginalPath:     storedOriginal.Path,
		OriginalSize:     1000,
		CompressedFolder: "/mnt/shared/compressed",
		Qualities:        []models.Quality{models.QualityHigh},
	}

	tests := []struct {
		name          string
		repo          *mockLessonRepository
		expectProcess bool
		expectedError bool
	}{
		{
			name:          "processing lesson is transcoded",
			repo:          &mockLessonRepository{lesson: &models.Lesson{ID: 3, CompressionStatus: models.CompressionProcessing}},
			expectProcess: true,
		},
		{
			name: "stale task skipped",
			repo: &mockLessonRepository{lesson: &models.Lesson{ID: 3, CompressionStatus: models.CompressionCompleted}},
		},
		{
			name: "deleted lesson skipped",
			repo: &mockLessonRepository{getErr: models.ErrLessonNotFound},
		},
		{
			name:          "database error retried",
			repo:          &mockLessonRepository{getErr: errors.New("connection refused")},
			expectedError: true,
		},
		{
			name:          "save error retried",
			repo:          &mockLessonRepository{lesson: &models.Lesson{ID: 3, CompressionStatus: models.CompressionProcessing}, saveErr: errors.New("deadlock")},
			expectProcess: true,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := &mockUploader{videoResult: successfulVideoResult()}
			svc := newTestLessonMediaService(tt.repo, uploader, &mockQueue{}, &mockPublisher{})

			err := svc.ProcessQueuedVideo(context.Background(), payload)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectProcess {
				require.NotNil(t, uploader.processOpts)
				assert.Equal(t, []models.Quality{models.QualityHigh}, uploader.processOpts.Qualities)
				assert.Equal(t, "/mnt/shared/compressed", uploader.processDir)
			} else {
				assert.Nil(t, uploader.processOpts)
			}
			if tt.expectProcess && !tt.expectedError {
				assert.Equal(t, models.CompressionCompleted, tt.repo.savedUpdate.Status)
			}
			// failed saves stay processing so the task can be retried
			assert.Empty(t, tt.repo.statusCalls)
		})
	}
}

func TestLessonMediaService_UploadImage(t *testing.T) {
	tests := []struct {
		name          string
		repo          *mockLessonRepository
		result        models.ImageResult
		expectedImage string
		expectedError bool
	}{
		{
			name: "success",
			repo: &mockLessonRepository{lesson: &models.Lesson{ID: 2}},
			result: models.ImageResult{
				Success:          true,
				Message:          "Compressed 60.0%",
				ImageCompression: models.ImageCompression{JPEGPath: "/srv/media/compressed/x_compressed_85.jpg"},
			},
			expectedImage: "/srv/media/compressed/x_compressed_85.jpg",
		},
		{
			name:   "compression failure not persisted",
			repo:   &mockLessonRepository{lesson: &models.Lesson{ID: 2}},
			result: models.ImageFailure(models.NewMediaError(models.KindImageCompressionError, "Image compression error: eof", nil)),
		},
		{
			name:          "lesson not found",
			repo:          &mockLessonRepository{getErr: models.ErrLessonNotFound},
			expectedError: true,
		},
		{
			name: "repository error",
			repo: &mockLessonRepository{lesson: &models.Lesson{ID: 2}, imageErr: errors.New("db down")},
			result: models.ImageResult{
				Success:          true,
				ImageCompression: models.ImageCompression{JPEGPath: "x.jpg"},
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestLessonMediaService(tt.repo, &mockUploader{imageResult: tt.result}, nil, &mockPublisher{})

			res, err := svc.UploadImage(context.Background(), 2, &models.UploadedFile{Filename: "a.png"}, compress.ImageOptions{})

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.result, *res)
			assert.Equal(t, tt.expectedImage, tt.repo.savedImage)
		})
	}
}

func TestLessonMediaService_GetSourcesAndState(t *testing.T) {
	lesson := &models.Lesson{
		ID:                5,
		ContentURL:        storedOriginal.Path,
		CompressionStatus: models.CompressionCompleted,
		CompressionMetadata: &models.CompressionMetadata{
			OriginalSize: 1000, TotalCompressedSize: 400, CompressionRatio: 60,
		},
		CompressedVideoVersions: successfulVideoResult().Versions,
	}
	svc := newTestLessonMediaService(&mockLessonRepository{lesson: lesson}, &mockUploader{}, nil, &mockPublisher{})

	sources, err := svc.GetSources(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "Low (480p)", sources[0].Label)
	assert.Equal(t, "video/webm", sources[1].Type)

	state, err := svc.GetCompressionState(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, &models.CompressionState{
		LessonID: 5,
		Status:   models.CompressionCompleted,
		Metadata: lesson.CompressionMetadata,
		Tiers:    []models.Quality{models.QualityLow, models.QualityWebM},
	}, state)

	missing := newTestLessonMediaService(&mockLessonRepository{getErr: models.ErrLessonNotFound}, &mockUploader{}, nil, &mockPublisher{})
	_, err = missing.GetSources(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrLessonNotFound)
	_, err = missing.GetCompressionState(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrLessonNotFound)
}

func TestLessonMediaService_PublishErrorIsNotFatal(t *testing.T) {
	repo := &mockLessonRepository{lesson: &models.Lesson{ID: 5, CompressionStatus: models.CompressionPending}}
	svc := newTestLessonMediaService(repo, &mockUploader{stored: storedOriginal, videoResult: successfulVideoResult()}, nil, &mockPublisher{err: errors.New("kafka down")})

	out, err := svc.UploadVideo(context.Background(), 5, &models.UploadedFile{Filename: "a.mp4"}, nil)

	require.NoError(t, err)
	assert.Equal(t, models.CompressionCompleted, out.Status)
}
