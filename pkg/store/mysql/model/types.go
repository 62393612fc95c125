package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FileMeta describes one attachment carried by a report entry.
type FileMeta struct {
	FileName    string     `json:"file_name"`
	FileURL     string     `json:"file_url"`
	StoragePath string     `json:"storage_path"`
	UploadedAt  *time.Time `json:"uploaded_at,omitempty"`
}

// IsZero reports whether no attachment metadata is present.
func (f FileMeta) IsZero() bool {
	return f.FileName == "" && f.FileURL == "" && f.StoragePath == "" && f.UploadedAt == nil
}

// FileMetaList is a JSON column of attachment metadata.
type FileMetaList []FileMeta

// Scan implements sql.Scanner interface
func (l *FileMetaList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan FileMetaList: unsupported type %T", value)
	}

	var files []FileMeta
	if err := json.Unmarshal(bytes, &files); err != nil {
		return fmt.Errorf("failed to unmarshal FileMetaList: %w", err)
	}

	*l = files
	return nil
}

// Value implements driver.Valuer interface
func (l FileMetaList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}
