package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajhathali/sajhathali-api/internal/application"
	"github.com/sajhathali/sajhathali-api/internal/interface/middleware"
	"github.com/sajhathali/sajhathali-api/pkg/response"
	"github.com/sajhathali/sajhathali-api/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type ProfileHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.AccountService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	PhoneNumber *string  `json:"phoneNumber"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	State       *string  `json:"state"`
	Pincode     *string  `json:"pincode"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,longitude"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user": userView(u)})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Describe(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, application.UpdateProfileInput{
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message": "profile updated",
		"user":    userView(u),
	})
}

// UploadAvatar accepts a multipart "avatar" file and stores it in object
// storage under the user's prefix.
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "avatar file is required")
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error(c, http.StatusBadRequest, "avatar exceeds 5MB limit")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "cannot read avatar file")
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.CurrentUser(c).ID, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("avatar upload failed")
		serviceError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"avatarUrl": url})
}
