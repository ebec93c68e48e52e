package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordStatus represents the final state of a handled download request
type RecordStatus string

const (
	RecordStreaming RecordStatus = "streaming"
	RecordCompleted RecordStatus = "completed"
	RecordFailed    RecordStatus = "failed"
)

// DownloadRecord is the bookkeeping entry written for every download
// request. It records request parameters and outcome, never media bytes.
type DownloadRecord struct {
	ID           string       `json:"id" gorm:"primaryKey"`
	URL          string       `json:"url" gorm:"not null"`
	Platform     Platform     `json:"platform" gorm:"not null;index"`
	FormatType   FormatType   `json:"format_type"`
	Status       RecordStatus `json:"status" gorm:"not null;index"`
	Filename     string       `json:"filename,omitempty"`
	MediaType    string       `json:"media_type,omitempty"`
	BytesSent    int64        `json:"bytes_sent"`
	ErrorMessage string       `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// NewDownloadRecord creates a record for an incoming request
func NewDownloadRecord(url string, platform Platform, format FormatType) *DownloadRecord {
	return &DownloadRecord{
		ID:         uuid.New().String(),
		URL:        url,
		Platform:   platform,
		FormatType: format,
		Status:     RecordStreaming,
		CreatedAt:  time.Now(),
	}
}

// MarkCompleted marks the record as successfully streamed
func (r *DownloadRecord) MarkCompleted(filename, mediaType string, bytesSent int64) {
	r.Status = RecordCompleted
	r.Filename = filename
	r.MediaType = mediaType
	r.BytesSent = bytesSent
	now := time.Now()
	r.CompletedAt = &now
}

// MarkFailed marks the record as failed
func (r *DownloadRecord) MarkFailed(err error) {
	r.Status = RecordFailed
	r.ErrorMessage = err.Error()
	now := time.Now()
	r.CompletedAt = &now
}

// HistoryRepository defines the interface for download-record persistence
type HistoryRepository interface {
	// Create creates a new record
	Create(record *DownloadRecord) error

	// Update updates an existing record
	Update(record *DownloadRecord) error

	// Delete deletes a record by ID
	Delete(id string) error

	// FindByID finds a record by ID
	FindByID(id string) (*DownloadRecord, error)

	// FindAll finds records with optional column filters, newest first
	FindAll(filters map[string]interface{}) ([]*DownloadRecord, error)

	// GetStats returns aggregate history statistics
	GetStats() (*HistoryStats, error)
}

// HistoryStats represents aggregate download-history statistics
type HistoryStats struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	TotalBytes int64 `json:"total_bytes"`
}
