package handler

import (
	"io"
	"mime"
	"net/http"

	"docvault/config"
	"docvault/internal/delivery/api/response"
	deliverycontext "docvault/internal/delivery/context"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// DocumentHandlerParams holds dependencies for DocumentHandler, injected by Fx.
type DocumentHandlerParams struct {
	fx.In

	DocumentUC usecase.DocumentUsecase
	Config     *config.Config
}

// DocumentHandler serves the caller's documents.
type DocumentHandler struct {
	documentUC     usecase.DocumentUsecase
	maxUploadBytes int64
}

// NewDocumentHandler is the constructor for DocumentHandler.
func NewDocumentHandler(params DocumentHandlerParams) *DocumentHandler {
	return &DocumentHandler{
		documentUC:     params.DocumentUC,
		maxUploadBytes: params.Config.Storage.MaxUploadBytes,
	}
}

// Upload stores a multipart upload with the fields title, date and file.
func (h *DocumentHandler) Upload(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WrapMessage("file is required"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer src.Close()

	// One byte over the limit is enough for the use case to reject the upload.
	content, err := io.ReadAll(io.LimitReader(src, h.maxUploadBytes+1))
	if err != nil {
		return errors.Wrap(err, "failed to read uploaded file")
	}

	doc, err := h.documentUC.Upload(c.Request().Context(), userID, usecase.UploadInput{
		Title:      c.FormValue("title"),
		Filename:   fileHeader.Filename,
		Content:    content,
		UploadDate: c.FormValue("date"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newDocumentResponse(doc))
}

// List returns the caller's documents, newest upload date first.
func (h *DocumentHandler) List(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	docs, err := h.documentUC.List(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newDocumentListResponse(docs))
}

// Get returns the metadata of one document.
func (h *DocumentHandler) Get(c echo.Context) error {
	userID, documentID, err := documentRequest(c)
	if err != nil {
		return err
	}

	doc, err := h.documentUC.Get(c.Request().Context(), userID, documentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newDocumentResponse(doc))
}

// Content streams the stored bytes of one document.
func (h *DocumentHandler) Content(c echo.Context) error {
	userID, documentID, err := documentRequest(c)
	if err != nil {
		return err
	}

	content, err := h.documentUC.FetchByID(c.Request().Context(), userID, documentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return writeContent(c, content)
}

// File streams a document addressed by its stored name.
func (h *DocumentHandler) File(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	storedName := c.Param("*")
	if storedName == "" {
		return errors.WithStack(domainerrors.ErrDocumentNotFound)
	}

	content, err := h.documentUC.FetchByFilename(c.Request().Context(), userID, storedName)
	if err != nil {
		return errors.WithStack(err)
	}

	return writeContent(c, content)
}

// Delete removes one document and its blob.
func (h *DocumentHandler) Delete(c echo.Context) error {
	userID, documentID, err := documentRequest(c)
	if err != nil {
		return err
	}

	if err := h.documentUC.Delete(c.Request().Context(), userID, documentID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Document deleted"})
}

func documentRequest(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	// A malformed id can never resolve to a record.
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.WithStack(domainerrors.ErrDocumentNotFound)
	}

	return userID, documentID, nil
}

func writeContent(c echo.Context, content *usecase.DocumentContent) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": content.Document.OriginalName,
	})
	if disposition != "" {
		c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	}
	c.Response().Header().Set("X-Content-Type-Options", "nosniff")

	return c.Blob(http.StatusOK, content.Document.ContentType, content.Data)
}
