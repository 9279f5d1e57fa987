package services

import (
	"context"
	"fmt"
	"io"

	"github.com/alaihsan/cendrawasih/services/media-service/internal/compress"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/formats"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/metrics"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/storage"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/transcode"
	"go.uber.org/zap"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// EnsureDir creates the given directories if they do not exist
	EnsureDir(dirs ...string) error
	// Save copies r into dir/name and returns the written path and byte count
	Save(dir, name string, r io.Reader) (string, int64, error)
	// Remove deletes a file; a missing file is not an error
	Remove(path string) error
}

// VideoTranscoder produces quality tiers of a stored video
type VideoTranscoder interface {
	Transcode(ctx context.Context, inputPath, outputDir string, opts transcode.Options) (*models.TranscodeResult, error)
}

// MediaProbe reads advisory metadata of a stored video
type MediaProbe interface {
	Probe(ctx context.Context, path string) models.VideoMetadata
}

// ImageCompressor produces the derivatives of a stored image
type ImageCompressor interface {
	Compress(inputPath, outputDir string, opts compress.ImageOptions) (*models.ImageCompression, error)
}

// StoredFile is an original persisted in the upload folder
type StoredFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
}

// UploadService validates, stores and compresses uploads.
// Failures are reported in the returned result, never as panics or raw errors.
type UploadService struct {
	storage    FileStorage
	transcoder VideoTranscoder
	probe      MediaProbe
	images     ImageCompressor
	logger     *zap.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(storage FileStorage, transcoder VideoTranscoder, probe MediaProbe, images ImageCompressor, logger *zap.Logger) *UploadService {
	return &UploadService{
		storage:    storage,
		transcoder: transcoder,
		probe:      probe,
		images:     images,
		logger:     logger,
	}
}

// SaveVideoFile stores the original video and transcodes it into compressedFolder.
// The original is kept on disk whatever the transcode outcome.
func (s *UploadService) SaveVideoFile(ctx context.Context, file *models.UploadedFile, uploadFolder, compressedFolder string, opts transcode.Options) models.VideoResult {
	stored, err := s.StoreVideoOriginal(file, uploadFolder, compressedFolder)
	if err != nil {
		return s.videoFailure(err)
	}
	return s.ProcessStoredVideo(ctx, stored, compressedFolder, opts)
}

// StoreVideoOriginal validates the upload and writes it to uploadFolder under a unique name
func (s *UploadService) StoreVideoOriginal(file *models.UploadedFile, uploadFolder, compressedFolder string) (*StoredFile, error) {
	return s.storeOriginal(file, models.MediaClassVideo, uploadFolder, compressedFolder)
}

// ProcessStoredVideo probes and transcodes a previously stored original
func (s *UploadService) ProcessStoredVideo(ctx context.Context, stored *StoredFile, compressedFolder string, opts transcode.Options) models.VideoResult {
	if err := s.storage.EnsureDir(compressedFolder); err != nil {
		return s.videoFailure(storageError(err))
	}

	metadata := s.probe.Probe(ctx, stored.Path)

	res, err := s.transcoder.Transcode(ctx, stored.Path, compressedFolder, opts)
	if err != nil {
		s.logger.Warn("video compression failed, original kept",
			zap.String("path", stored.Path),
			zap.Error(err),
		)
		return s.videoFailure(err)
	}

	metrics.Uploads.WithLabelValues(string(models.MediaClassVideo), metrics.OutcomeSuccess).Inc()
	return models.VideoResult{
		Success:          true,
		Message:          "Video compressed successfully!",
		OriginalFilename: stored.Filename,
		OriginalPath:     stored.Path,
		OriginalSize:     res.OriginalSize,
		TotalSize:        res.TotalCompressedSize,
		Versions:         res.Versions,
		CompressionRatio: res.CompressionRatio,
		Metadata:         metadata,
	}
}

// SaveImageFile stores the image temporarily, compresses it into compressedFolder
// and removes the temporary original once the derivatives exist.
func (s *UploadService) SaveImageFile(ctx context.Context, file *models.UploadedFile, uploadFolder, compressedFolder string, opts compress.ImageOptions) models.ImageResult {
	stored, err := s.storeOriginal(file, models.MediaClassImage, uploadFolder, compressedFolder)
	if err != nil {
		return s.imageFailure(err)
	}
	if err := ctx.Err(); err != nil {
		return s.imageFailure(storageError(err))
	}

	res, err := s.images.Compress(stored.Path, compressedFolder, opts)
	if err != nil {
		s.logger.Warn("image compression failed, temporary original kept",
			zap.String("path", stored.Path),
			zap.Error(err),
		)
		return s.imageFailure(err)
	}

	if err := s.storage.Remove(stored.Path); err != nil {
		s.logger.Warn("failed to remove temporary original", zap.String("path", stored.Path), zap.Error(err))
	}

	metrics.Uploads.WithLabelValues(string(models.MediaClassImage), metrics.OutcomeSuccess).Inc()
	return models.ImageResult{
		Success:          true,
		Message:          fmt.Sprintf("Compressed %.1f%%", res.CompressionRatio),
		ImageCompression: *res,
	}
}

func (s *UploadService) storeOriginal(file *models.UploadedFile, class models.MediaClass, uploadFolder, compressedFolder string) (*StoredFile, error) {
	if file == nil || file.Filename == "" || file.Content == nil {
		return nil, models.NewMediaError(models.KindNoFileSelected, "No file selected", nil)
	}

	ext, err := formats.Validate(file.Filename, class)
	if err != nil {
		return nil, err
	}

	if err := s.storage.EnsureDir(uploadFolder, compressedFolder); err != nil {
		return nil, storageError(err)
	}

	safe := storage.SanitizeFileName(file.Filename)
	if formats.Extension(safe) != ext {
		safe = "upload." + ext
	}
	name := storage.GenerateFileName(safe)

	path, size, err := s.storage.Save(uploadFolder, name, file.Content)
	if err != nil {
		return nil, storageError(err)
	}

	s.logger.Info("original stored",
		zap.String("class", string(class)),
		zap.String("filename", file.Filename),
		zap.String("path", path),
		zap.Int64("size", size),
	)
	return &StoredFile{Filename: name, Path: path, Size: size}, nil
}

func (s *UploadService) videoFailure(err error) models.VideoResult {
	metrics.Uploads.WithLabelValues(string(models.MediaClassVideo), string(models.KindOf(err))).Inc()
	return models.VideoFailure(err)
}

func (s *UploadService) imageFailure(err error) models.ImageResult {
	metrics.Uploads.WithLabelValues(string(models.MediaClassImage), string(models.KindOf(err))).Inc()
	return models.ImageFailure(err)
}

func storageError(err error) error {
	return models.NewMediaError(models.KindStorageError, "Upload error: "+err.Error(), err)
}
