package models

import (
	"io"
	"math"
)

// MediaClass is the declared class of an upload
type MediaClass string

const (
	MediaClassVideo MediaClass = "video"
	MediaClassImage MediaClass = "image"
)

// UploadedFile is an incoming upload as received from a request
type UploadedFile struct {
	Filename string
	Content  io.Reader
}

// StreamInfo is one stream reported by the media probe
type StreamInfo struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// VideoMetadata is the advisory probe output of a video. The zero value means unknown.
type VideoMetadata struct {
	Duration float64      `json:"duration,omitempty"`
	Size     int64        `json:"size,omitempty"`
	Streams  []StreamInfo `json:"streams,omitempty"`
}

// IsZero reports whether the probe returned nothing
func (m VideoMetadata) IsZero() bool {
	return m.Duration == 0 && m.Size == 0 && len(m.Streams) == 0
}

// TranscodeResult is the outcome of a successful transcode
type TranscodeResult struct {
	OriginalSize        int64
	TotalCompressedSize int64
	CompressionRatio    float64
	Versions            VideoVersions
}

// ImageCompression is the outcome of a successful image compression
type ImageCompression struct {
	OriginalSize     int64   `json:"originalSize"`
	CompressedSize   int64   `json:"compressedSize"`
	CompressionRatio float64 `json:"compressionRatio"`
	JPEGPath         string  `json:"jpegPath"`
	WebPPath         string  `json:"webpPath"`
}

// VideoResult is the tagged result of a video upload.
// On failure only Kind and Message are set.
type VideoResult struct {
	Success          bool          `json:"success"`
	Kind             ErrorKind     `json:"kind,omitempty"`
	Message          string        `json:"message"`
	OriginalFilename string        `json:"originalFilename,omitempty"`
	OriginalPath     string        `json:"originalPath,omitempty"`
	OriginalSize     int64         `json:"originalSize,omitempty"`
	TotalSize        int64         `json:"totalCompressedSize,omitempty"`
	Versions         VideoVersions `json:"versions,omitempty"`
	CompressionRatio float64       `json:"compressionRatio"`
	Metadata         VideoMetadata `json:"metadata"`
}

// ImageResult is the tagged result of an image upload.
// On failure only Kind and Message are set.
type ImageResult struct {
	Success bool      `json:"success"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Message string    `json:"message"`
	ImageCompression
}

// VideoFailure builds a failed VideoResult from err
func VideoFailure(err error) VideoResult {
	return VideoResult{Success: false, Kind: KindOf(err), Message: MessageOf(err)}
}

// ImageFailure builds a failed ImageResult from err
func ImageFailure(err error) ImageResult {
	return ImageResult{Success: false, Kind: KindOf(err), Message: MessageOf(err)}
}

// CompressionRatio returns (1 - compressed/original) * 100 rounded to two decimals.
// It is negative when the derivatives are larger than the original.
func CompressionRatio(compressed, original int64) float64 {
	if original <= 0 {
		return 0
	}
	ratio := (1 - float64(compressed)/float64(original)) * 100
	return math.Round(ratio*100) / 100
}
