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

type SessionHandler struct {
	Svc    *application.SessionService
	Logger *logrus.Logger
}

func NewSessionHandler(svc *application.SessionService, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{Svc: svc, Logger: logger}
}

type startSessionRequest struct {
	ReceiverID      string `json:"receiverId" binding:"required,uuid"`
	FoodDescription string `json:"foodDescription" binding:"required"`
	Quantity        string `json:"quantity" binding:"required"`
}

// Start opens a donation session from the calling donor to a receiver.
func (h *SessionHandler) Start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Describe(err))
		return
	}
	session, err := h.Svc.Start(c.Request.Context(), middleware.CurrentUser(c).ID, application.StartSessionInput{
		ReceiverID:      req.ReceiverID,
		FoodDescription: req.FoodDescription,
		Quantity:        req.Quantity,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{
		"message": "donation session started",
		"session": sessionView(session),
	})
}

// List returns sessions where the caller is donor or receiver.
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.Svc.ListForUser(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.Logger.WithError(err).Error("list sessions failed")
		response.Internal(c)
		return
	}
	views := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, sessionView(s))
	}
	response.JSON(c, http.StatusOK, gin.H{"sessions": views})
}
