package infrastructure

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/social-fetch-go/internal/domain"
)

// SQLiteHistoryRepository implements HistoryRepository using SQLite
type SQLiteHistoryRepository struct {
	db *gorm.DB
}

// NewSQLiteHistoryRepository creates a new SQLite repository
func NewSQLiteHistoryRepository(dbPath string) (*SQLiteHistoryRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.DownloadRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteHistoryRepository{db: db}, nil
}

// Create creates a new record
func (r *SQLiteHistoryRepository) Create(record *domain.DownloadRecord) error {
	return r.db.Create(record).Error
}

// Update updates an existing record
func (r *SQLiteHistoryRepository) Update(record *domain.DownloadRecord) error {
	return r.db.Save(record).Error
}

// Delete deletes a record by ID
func (r *SQLiteHistoryRepository) Delete(id string) error {
	return r.db.Delete(&domain.DownloadRecord{}, "id = ?", id).Error
}

// FindByID finds a record by ID
func (r *SQLiteHistoryRepository) FindByID(id string) (*domain.DownloadRecord, error) {
	var record domain.DownloadRecord
	err := r.db.First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindAll finds records with optional filters, newest first
func (r *SQLiteHistoryRepository) FindAll(filters map[string]interface{}) ([]*domain.DownloadRecord, error) {
	var records []*domain.DownloadRecord
	query := r.db

	for key, value := range filters {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	err := query.Order("created_at DESC").Find(&records).Error
	return records, err
}

// GetStats returns aggregate history statistics
func (r *SQLiteHistoryRepository) GetStats() (*domain.HistoryStats, error) {
	stats := &domain.HistoryStats{}

	if err := r.db.Model(&domain.DownloadRecord{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.RecordStatus
		Count  int64
	}{}

	if err := r.db.Model(&domain.DownloadRecord{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.RecordCompleted:
			stats.Completed = sc.Count
		case domain.RecordFailed:
			stats.Failed = sc.Count
		}
	}

	var totalBytes struct {
		Sum int64
	}
	if err := r.db.Model(&domain.DownloadRecord{}).
		Select("coalesce(sum(bytes_sent), 0) as sum").
		Scan(&totalBytes).Error; err != nil {
		return nil, err
	}
	stats.TotalBytes = totalBytes.Sum

	return stats, nil
}

// Ping verifies the underlying database connection is alive
func (r *SQLiteHistoryRepository) Ping() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the database connection
func (r *SQLiteHistoryRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
