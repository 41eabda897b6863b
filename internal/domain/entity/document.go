package entity

import (
	"time"

	"github.com/google/uuid"
)

// UploadDateLayout is the calendar format users supply for a document's upload date.
const UploadDateLayout = "2006-01-02"

// MaxTitleLength is the longest title, in characters, a document may carry.
const MaxTitleLength = 200

// Document is the metadata of one uploaded file plus the key of its blob.
type Document struct {
	ID           uuid.UUID
	UserID       uuid.UUID // Owning user, set at creation and never changed.
	Title        string
	OriginalName string // Sanitized filename supplied by the client.
	StoredName   string // Blob key, "<userID>/<generated id><ext>".
	ContentType  string
	SizeBytes    int64
	Checksum     string    // Hex SHA-256 of the content.
	UploadDate   time.Time // Date part only, UTC.
	CreatedAt    time.Time
}

// OwnedBy reports whether the document belongs to the given user.
func (d *Document) OwnedBy(userID uuid.UUID) bool {
	return d != nil && d.UserID == userID
}
