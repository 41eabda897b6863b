package handler

import (
	"net/http"

	"docvault/internal/delivery/api/response"
	deliverycontext "docvault/internal/delivery/context"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const pngContentType = "image/png"

// ProfileHandler serves public profiles and profile QR codes.
type ProfileHandler struct {
	profileUC usecase.ProfileUsecase
}

// NewProfileHandler is the constructor for ProfileHandler.
func NewProfileHandler(profileUC usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profileUC: profileUC}
}

// PublicProfile returns the public view of any profile. No session is required.
func (h *ProfileHandler) PublicProfile(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.WithStack(domainerrors.ErrUserNotFound)
	}

	profile, err := h.profileUC.PublicProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newPublicProfileResponse(profile))
}

// MyQRCode renders the QR code of the caller's profile link as PNG.
func (h *ProfileHandler) MyQRCode(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	image, err := h.profileUC.ProfileQR(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}
	c.Response().Header().Set("X-Profile-Link", h.profileUC.GenerateProfileLink(userID))

	return c.Blob(http.StatusOK, pngContentType, image)
}
