package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	authMiddleware "github.com/alaihsan/cendrawasih/libs/auth/middleware"
	"github.com/alaihsan/cendrawasih/libs/handlers"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/compress"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/formats"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/models"
	"github.com/alaihsan/cendrawasih/services/media-service/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartMemory is the part of an upload kept in memory; the rest spills to temp files
const multipartMemory = 8 << 20

// LessonMediaService defines the interface for lesson media operations
type LessonMediaService interface {
	// Method UploadVideo stores a video for the lesson and transcodes it into the requested tiers.
	//
	// "qualities" parameter selects the tiers; an empty slice means all of them.
	//
	// Pipeline failures are reported in the result. An error is returned when the lesson does not exist,
	// is already processing, or the outcome could not be saved.
	UploadVideo(ctx context.Context, lessonID int, file *models.UploadedFile, qualities []models.Quality) (*models.LessonVideoUpload, error)
	// Method UploadImage compresses an image and stores the JPEG derivative on the lesson.
	//
	// If the lesson does not exist or could not be updated, the error will be returned together with "nil" value.
	UploadImage(ctx context.Context, lessonID int, file *models.UploadedFile, opts compress.ImageOptions) (*models.ImageResult, error)
	// Method GetSources returns the playable sources of the lesson in priority order.
	GetSources(ctx context.Context, lessonID int) ([]models.VideoSource, error)
	// Method GetCompressionState returns the compression status and metadata of the lesson.
	GetCompressionState(ctx context.Context, lessonID int) (*models.CompressionState, error)
}

// FileOpener opens stored files for download
type FileOpener interface {
	// Method OpenFile opens "name" inside "folder" (uploads or compressed).
	//
	// Unknown folders and missing files report os.ErrNotExist.
	OpenFile(folder, name string) (*os.File, error)
}

// MediaHandler handles lesson media HTTP requests
type MediaHandler struct {
	handlers.BaseHandler
	mediaService LessonMediaService
	files        FileOpener
	baseURL      string
	imageOptions compress.ImageOptions
}

// NewMediaHandler creates a new media handler.
// imageOptions holds the defaults used when an upload does not pick an image quality.
func NewMediaHandler(mediaService LessonMediaService, files FileOpener, logger *zap.Logger, baseURL string, imageOptions compress.ImageOptions) *MediaHandler {
	return &MediaHandler{
		BaseHandler:  handlers.BaseHandler{Logger: logger},
		mediaService: mediaService,
		files:        files,
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageOptions: imageOptions,
	}
}

// RegisterRoutes registers all media handler routes.
// uploadMw guards the upload endpoints and readMw the read endpoints.
func (h *MediaHandler) RegisterRoutes(r chi.Router, uploadMw, readMw func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(uploadMw)
		r.Post("/lessons/{id}/video", h.UploadVideo)
		r.Post("/lessons/{id}/image", h.UploadImage)
	})
	r.Group(func(r chi.Router) {
		r.Use(readMw)
		r.Get("/lessons/{id}/sources", h.GetSources)
		r.Get("/lessons/{id}/compression", h.GetCompressionState)
		r.Get("/media/{folder}/{filename}", h.DownloadFile)
	})
}

// UploadVideo handles POST /lessons/{id}/video
// @Summary Upload lesson video
// @Description Upload a video for a lesson and compress it into quality tiers. Requires teacher or admin role.
// @Description In async mode the video is queued and 202 is returned with status "processing".
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param file formData file true "Video file (mp4, avi, mov, mkv, flv, wmv, webm)"
// @Param qualities formData string false "Comma-separated tiers: low, medium, high, webm"
// @Success 200 {object} models.LessonVideoUpload
// @Success 202 {object} models.LessonVideoUpload "Queued for compression"
// @Failure 400 {object} models.LessonVideoUpload "Invalid file or quality"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Teacher role required"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 409 {object} map[string]string "Lesson is already processing"
// @Failure 422 {object} models.LessonVideoUpload "Compression failed"
// @Failure 503 {object} models.LessonVideoUpload "FFmpeg not installed"
// @Router /lessons/{id}/video [post]
func (h *MediaHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	lessonID, err := h.IntURLParam(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.parseUpload(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	qualities, err := models.ParseQualities(r.FormValue("qualities"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, models.MessageOf(err))
		return
	}

	file, closeFile := formFile(r)
	defer closeFile()

	upload, err := h.mediaService.UploadVideo(r.Context(), lessonID, file, qualities)
	if err != nil {
		h.respondServiceError(w, err, lessonID)
		return
	}

	status := http.StatusOK
	switch {
	case !upload.Result.Success:
		status = statusForKind(upload.Result.Kind)
	case upload.Status == models.CompressionProcessing:
		status = http.StatusAccepted
	}

	userID, _ := authMiddleware.GetUserID(r.Context())
	h.Logger.Info("video upload handled",
		zap.Int("lesson_id", lessonID),
		zap.Int("user_id", userID),
		zap.String("status", string(upload.Status)),
		zap.Bool("success", upload.Result.Success),
	)
	h.RespondJSON(w, status, upload)
}

// UploadImage handles POST /lessons/{id}/image
// @Summary Upload lesson image
// @Description Compress an image into a JPEG and a WebP derivative. Requires teacher or admin role.
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param file formData file true "Image file (png, jpg, jpeg, gif, bmp, webp)"
// @Param quality formData int false "JPEG/WebP quality 0-100"
// @Success 200 {object} models.ImageResult
// @Failure 400 {object} models.ImageResult "Invalid file or quality"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Teacher role required"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 422 {object} models.ImageResult "Compression failed"
// @Router /lessons/{id}/image [post]
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	lessonID, err := h.IntURLParam(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.parseUpload(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	opts := h.imageOptions
	if raw := r.FormValue("quality"); raw != "" {
		quality, err := strconv.Atoi(raw)
		if err != nil || quality < 0 || quality > 100 {
			h.RespondError(w, http.StatusBadRequest, "quality must be an integer between 0 and 100")
			return
		}
		opts.Quality = &quality
	}

	file, closeFile := formFile(r)
	defer closeFile()

	result, err := h.mediaService.UploadImage(r.Context(), lessonID, file, opts)
	if err != nil {
		h.respondServiceError(w, err, lessonID)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = statusForKind(result.Kind)
	}
	h.RespondJSON(w, status, result)
}

// GetSources handles GET /lessons/{id}/sources
// @Summary Get lesson video sources
// @Description Ordered playable sources (low, medium, high, webm) with download URLs; falls back to the original.
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {array} models.VideoSource
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{id}/sources [get]
func (h *MediaHandler) GetSources(w http.ResponseWriter, r *http.Request) {
	lessonID, err := h.IntURLParam(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sources, err := h.mediaService.GetSources(r.Context(), lessonID)
	if err != nil {
		h.respondServiceError(w, err, lessonID)
		return
	}

	for i := range sources {
		sources[i].Src = h.downloadURL(sources[i].Src)
	}
	h.RespondJSON(w, http.StatusOK, sources)
}

// GetCompressionState handles GET /lessons/{id}/compression
// @Summary Get lesson compression state
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} models.CompressionState
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 404 {object} map[string]string "Lesson not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /lessons/{id}/compression [get]
func (h *MediaHandler) GetCompressionState(w http.ResponseWriter, r *http.Request) {
	lessonID, err := h.IntURLParam(r, "id")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.mediaService.GetCompressionState(r.Context(), lessonID)
	if err != nil {
		h.respondServiceError(w, err, lessonID)
		return
	}
	h.RespondJSON(w, http.StatusOK, state)
}

// DownloadFile handles GET /media/{folder}/{filename}
// @Summary Download media file
// @Description Download an original or a derivative. Range requests are supported.
// @Tags media
// @Produce application/octet-stream
// @Security BearerAuth
// @Param folder path string true "uploads or compressed"
// @Param filename path string true "File name"
// @Param Range header string false "Range"
// @Success 200 "File content"
// @Success 206 "Partial file content (for range requests)"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 404 {object} map[string]string "File not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /media/{folder}/{filename} [get]
func (h *MediaHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")
	filename := chi.URLParam(r, "filename")

	file, err := h.files.OpenFile(folder, filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			h.RespondError(w, http.StatusNotFound, "file not found")
			return
		}
		h.Logger.Error("failed to open file", zap.Error(err), zap.String("folder", folder), zap.String("filename", filename))
		h.RespondError(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		h.Logger.Error("failed to get file info", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get file info")
		return
	}
	if fileInfo.IsDir() {
		h.RespondError(w, http.StatusNotFound, "file not found")
		return
	}

	// video types are missing from the builtin mime table
	if contentType := formats.MimeType(formats.Extension(filename)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	http.ServeContent(w, r, filename, fileInfo.ModTime(), file)
}

// parseUpload parses the multipart body and writes the error response on failure
func (h *MediaHandler) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	err := r.ParseMultipartForm(multipartMemory)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	h.Logger.Warn("failed to parse multipart form", zap.Error(err))
	h.RespondError(w, http.StatusBadRequest, "failed to parse request")
	return false
}

// respondServiceError maps lesson media errors to HTTP responses
func (h *MediaHandler) respondServiceError(w http.ResponseWriter, err error, lessonID int) {
	var mediaErr *models.MediaError
	switch {
	case errors.Is(err, models.ErrLessonNotFound):
		h.RespondError(w, http.StatusNotFound, "lesson not found")
	case errors.Is(err, models.ErrInvalidTransition):
		h.Logger.Info("lesson media conflict", zap.Int("lesson_id", lessonID), zap.Error(err))
		h.RespondError(w, http.StatusConflict, "lesson video is already being processed")
	case errors.As(err, &mediaErr):
		h.RespondError(w, statusForKind(mediaErr.Kind), mediaErr.Message)
	default:
		h.Logger.Error("lesson media request failed", zap.Int("lesson_id", lessonID), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// downloadURL turns a stored path into a URL served by DownloadFile.
// Paths outside the served folders are returned unchanged.
func (h *MediaHandler) downloadURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	folder := filepath.Base(filepath.Dir(path))
	if folder != storage.FolderUploads && folder != storage.FolderCompressed {
		return path
	}
	return h.baseURL + "/api/v1/media/" + folder + "/" + filepath.Base(path)
}

func statusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindUnsupportedFormat, models.KindNoFileSelected, models.KindInvalidQuality:
		return http.StatusBadRequest
	case models.KindToolUnavailable:
		return http.StatusServiceUnavailable
	case models.KindTranscodeFailed, models.KindImageCompressionError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// formFile returns the uploaded "file" part, or nil when none was sent
func formFile(r *http.Request) (*models.UploadedFile, func()) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, func() {}
	}
	return &models.UploadedFile{Filename: header.Filename, Content: file}, func() { file.Close() }
}
