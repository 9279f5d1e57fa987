package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Quality identifies one transcoded tier
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
	QualityWebM   Quality = "webm"
)

// AllQualities lists the tiers in viewer priority order
var AllQualities = []Quality{QualityLow, QualityMedium, QualityHigh, QualityWebM}

// IsValid reports whether q is one of the known tiers
func (q Quality) IsValid() bool {
	switch q {
	case QualityLow, QualityMedium, QualityHigh, QualityWebM:
		return true
	}
	return false
}

// ParseQualities parses a comma-separated tier list such as "low,webm".
// An empty string yields nil.
func ParseQualities(s string) ([]Quality, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []Quality
	for _, part := range strings.Split(s, ",") {
		q := Quality(strings.ToLower(strings.TrimSpace(part)))
		if q == "" {
			continue
		}
		if !q.IsValid() {
			return nil, NewMediaError(KindInvalidQuality, fmt.Sprintf("Unknown quality %q", q), nil)
		}
		out = append(out, q)
	}
	return out, nil
}

// VideoVersion describes one transcoded tier on disk
type VideoVersion struct {
	Path    string `json:"path"`
	Bitrate string `json:"bitrate"`
	Scale   string `json:"scale"`
	Size    int64  `json:"size"`
	Format  string `json:"format"`
}

// VideoVersions maps tiers to their derivative. Keys outside AllQualities are rejected.
type VideoVersions map[Quality]VideoVersion

// Validate checks that only known tiers are present
func (v VideoVersions) Validate() error {
	for q := range v {
		if !q.IsValid() {
			return fmt.Errorf("unknown video quality %q", q)
		}
	}
	return nil
}

// TotalSize returns the sum of all tier sizes
func (v VideoVersions) TotalSize() int64 {
	var total int64
	for _, version := range v {
		total += version.Size
	}
	return total
}

// Qualities returns the present tiers in priority order
func (v VideoVersions) Qualities() []Quality {
	out := make([]Quality, 0, len(v))
	for _, q := range AllQualities {
		if _, ok := v[q]; ok {
			out = append(out, q)
		}
	}
	return out
}

// Scan implements sql.Scanner for the JSON column
func (v *VideoVersions) Scan(src any) error {
	var m map[Quality]VideoVersion
	if err := scanJSON(src, &m); err != nil {
		return err
	}
	if err := VideoVersions(m).Validate(); err != nil {
		return err
	}
	*v = m
	return nil
}

// Value implements driver.Valuer for the JSON column
func (v VideoVersions) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(map[Quality]VideoVersion(v))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// VideoSource is one playable entry offered to the lesson viewer
type VideoSource struct {
	Src     string `json:"src"`
	Type    string `json:"type"`
	Quality string `json:"quality,omitempty"`
	Label   string `json:"label,omitempty"`
}
