package handler

import (
	"time"

	"docvault/internal/domain/entity"
	"docvault/internal/usecase"
)

// UserResponse is the private profile shown to its owner. The password hash never leaves the server.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	GovtID    string    `json:"govt_id,omitempty"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Name:      user.Name,
		Age:       user.Age,
		Gender:    user.Gender,
		Phone:     user.Phone,
		GovtID:    user.GovtID,
		Language:  user.Language,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// PublicProfileResponse is what anyone holding a profile link sees.
type PublicProfileResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Language    string    `json:"language"`
	MemberSince time.Time `json:"member_since"`
}

func newPublicProfileResponse(profile *entity.PublicProfile) *PublicProfileResponse {
	return &PublicProfileResponse{
		ID:          profile.ID.String(),
		Name:        profile.Name,
		Language:    profile.Language,
		MemberSince: profile.MemberSince,
	}
}

// LoginResponse carries the session token for API clients that do not keep cookies.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

// DeleteAccountResponse reports what the deletion cascade removed.
type DeleteAccountResponse struct {
	DocumentsRemoved int `json:"documents_removed"`
	BlobsMissing     int `json:"blobs_missing"`
	SessionsRevoked  int `json:"sessions_revoked"`
}

func newDeleteAccountResponse(out *usecase.DeleteAccountOutput) *DeleteAccountResponse {
	return &DeleteAccountResponse{
		DocumentsRemoved: out.DocumentsRemoved,
		BlobsMissing:     out.BlobsMissing,
		SessionsRevoked:  out.SessionsRevoked,
	}
}

// DocumentResponse is the metadata of one document.
type DocumentResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"stored_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Checksum     string    `json:"checksum"`
	UploadDate   string    `json:"upload_date"`
	CreatedAt    time.Time `json:"created_at"`
}

func newDocumentResponse(doc *entity.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:           doc.ID.String(),
		Title:        doc.Title,
		OriginalName: doc.OriginalName,
		StoredName:   doc.StoredName,
		ContentType:  doc.ContentType,
		SizeBytes:    doc.SizeBytes,
		Checksum:     doc.Checksum,
		UploadDate:   doc.UploadDate.Format(entity.UploadDateLayout),
		CreatedAt:    doc.CreatedAt,
	}
}

func newDocumentListResponse(docs []*entity.Document) []*DocumentResponse {
	out := make([]*DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, newDocumentResponse(doc))
	}

	return out
}
