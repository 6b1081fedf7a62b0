package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxFileSize is the upload cap in bytes (5 MiB).
const MaxFileSize = 5 * 1024 * 1024

// Svg represents one stored SVG upload with its metadata.
// Maps to: svgs table
type Svg struct {
	// Unique record ID, assigned by the store at creation
	ID uuid.UUID `db:"id" json:"id"`

	// User-supplied display name (trimmed, never empty)
	Name string `db:"name" json:"name"`

	// User-supplied description (trimmed, never empty)
	Description string `db:"description" json:"description"`

	// Raw SVG markup, stored verbatim. Immutable after creation.
	Content string `db:"content" json:"content"`

	// Size of the original upload in bytes
	FileSize int64 `db:"file_size" json:"fileSize"`

	// Filename at upload time
	OriginalName string `db:"original_name" json:"originalName"`

	// Audit fields. CreatedAt is set once; UpdatedAt is refreshed
	// on every successful update.
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
