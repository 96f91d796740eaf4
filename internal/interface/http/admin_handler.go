package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajhathali/sajhathali-api/internal/application"
	repo "github.com/sajhathali/sajhathali-api/internal/domain/repository"
	"github.com/sajhathali/sajhathali-api/internal/interface/middleware"
	"github.com/sajhathali/sajhathali-api/pkg/response"
	"github.com/sajhathali/sajhathali-api/pkg/validation"
)

type AdminHandler struct {
	Users     repo.UserRepository
	Actions   repo.AdminActionRepository
	Lifecycle *application.LifecycleService
	Accounts  *application.AccountService
	Logger    *logrus.Logger
}

func NewAdminHandler(users repo.UserRepository, actions repo.AdminActionRepository, lifecycle *application.LifecycleService, accounts *application.AccountService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Users: users, Actions: actions, Lifecycle: lifecycle, Accounts: accounts, Logger: logger}
}

type lifecycleRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject block enable"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Internal(c)
		return
	}
	views := make([]gin.H, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	response.JSON(c, http.StatusOK, gin.H{"users": views})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	u, err := h.Accounts.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user": userView(u)})
}

// ApplyAction runs one lifecycle transition on the target account.
func (h *AdminHandler) ApplyAction(c *gin.Context) {
	var req lifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Describe(err))
		return
	}
	action, ok := application.ParseLifecycleAction(req.Action)
	if !ok {
		response.Error(c, http.StatusBadRequest, application.ErrInvalidAction.Error())
		return
	}

	admin := middleware.CurrentUser(c)
	target, err := h.Lifecycle.Apply(c.Request.Context(), admin.ID, c.Param("id"), action)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message": "User status updated successfully",
		"user": gin.H{
			"id":     target.ID,
			"status": target.Status,
		},
	})
}

func (h *AdminHandler) ListActions(c *gin.Context) {
	// Surface 404 for a nonexistent target instead of an empty history.
	if _, err := h.Accounts.GetProfile(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	actions, err := h.Actions.ListByTarget(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.WithError(err).Error("list admin actions failed")
		response.Internal(c)
		return
	}
	views := make([]gin.H, 0, len(actions))
	for _, a := range actions {
		views = append(views, actionView(a))
	}
	response.JSON(c, http.StatusOK, gin.H{"actions": views})
}

// SearchUsers queries the search index built up at registration and profile
// updates.
func (h *AdminHandler) SearchUsers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "q is required")
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	results, err := h.Accounts.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("user search failed")
		response.Internal(c)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"results": results})
}
