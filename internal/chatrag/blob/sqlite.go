package blob

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rigel-labs/chatrag/internal/model"
)

// StorageTypeSQLite identifies the sqlite database backend.
const StorageTypeSQLite = "sqlite"

// SQLiteStore keeps file content as rows in a sqlite database. Useful for
// single-binary deployments where a documents directory is unwanted.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens the database and migrates the files table.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&model.StoredFile{}); err != nil {
		return nil, fmt.Errorf("migrate files table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

var _ ByteStore = (*SQLiteStore)(nil)

// Save upserts the file row keyed by its safe name.
func (s *SQLiteStore) Save(filename string, content []byte) (model.BlobRef, error) {
	hash := ContentHash(content)
	base := filepath.Base(filename)
	safeName := SafeName(hash, base)
	now := time.Now()

	row := model.StoredFile{
		Hash:     hash,
		SafeName: safeName,
		Filename: base,
		Content:  content,
		Size:     int64(len(content)),
	}

	err := s.db.Where(model.StoredFile{SafeName: safeName}).
		Assign(row).
		FirstOrCreate(&model.StoredFile{}).Error
	if err != nil {
		return model.BlobRef{}, fmt.Errorf("store file row: %w", err)
	}

	return model.BlobRef{
		StorageType: StorageTypeSQLite,
		Location:    safeName,
		Filename:    base,
		SafeName:    safeName,
		Size:        int64(len(content)),
		UploadedAt:  now,
	}, nil
}

// Load returns the stored content for the reference.
func (s *SQLiteStore) Load(ref model.BlobRef) ([]byte, error) {
	var row model.StoredFile
	err := s.db.Where("safe_name = ?", ref.SafeName).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Content, nil
}

// Delete removes the file row.
func (s *SQLiteStore) Delete(ref model.BlobRef) error {
	res := s.db.Where("safe_name = ?", ref.SafeName).Delete(&model.StoredFile{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
