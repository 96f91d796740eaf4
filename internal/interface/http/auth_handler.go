package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajhathali/sajhathali-api/internal/application"
	"github.com/sajhathali/sajhathali-api/internal/interface/middleware"
	"github.com/sajhathali/sajhathali-api/pkg/helpers"
	"github.com/sajhathali/sajhathali-api/pkg/response"
	"github.com/sajhathali/sajhathali-api/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AccountService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *application.AccountService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,pwd"`
	FirstName     string   `json:"firstName" binding:"required"`
	LastName      string   `json:"lastName"`
	Role          string   `json:"role" binding:"required"`
	PhoneNumber   string   `json:"phoneNumber"`
	AadhaarNumber string   `json:"aadhaarNumber"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Pincode       string   `json:"pincode"`
	Latitude      *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude" binding:"omitempty,longitude"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Describe(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          req.Role,
		PhoneNumber:   req.PhoneNumber,
		AadhaarNumber: req.AadhaarNumber,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Pincode:       req.Pincode,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("email", req.Email).Info("registration rejected")
		serviceError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{
		"message": "Registration successful. Your account is pending approval.",
		"user":    userView(u),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.Describe(err))
		return
	}
	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}
	h.Cookies.SetAuthToken(c, token, exp)
	response.JSON(c, http.StatusOK, gin.H{
		"message": "login successful",
		"user":    userView(u),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.JSON(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the live identity, proving the token still maps to an account
// the directory accepts.
func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.Error(c, http.StatusUnauthorized, "not authenticated")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user": gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"role":      u.Role,
		"status":    u.Status,
	}})
}
