package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sajhathali/sajhathali-api/internal/application"
	"github.com/sajhathali/sajhathali-api/internal/domain/entity"
	"github.com/sajhathali/sajhathali-api/pkg/response"
)

// userView is the wire shape of a user. The password hash never appears
// here, whatever the caller's role.
func userView(u *entity.User) gin.H {
	return gin.H{
		"id":            u.ID,
		"email":         u.Email,
		"firstName":     u.FirstName,
		"lastName":      u.LastName,
		"phoneNumber":   u.PhoneNumber,
		"aadhaarNumber": u.AadhaarNumber,
		"address":       u.Address,
		"city":          u.City,
		"state":         u.State,
		"pincode":       u.Pincode,
		"latitude":      u.Latitude,
		"longitude":     u.Longitude,
		"avatarUrl":     u.AvatarURL,
		"role":          u.Role,
		"status":        u.Status,
		"createdAt":     u.CreatedAt,
		"updatedAt":     u.UpdatedAt,
		"approvedAt":    u.ApprovedAt,
	}
}

func actionView(a *entity.AdminAction) gin.H {
	return gin.H{
		"id":           a.ID,
		"adminId":      a.AdminID,
		"targetUserId": a.TargetUserID,
		"action":       a.Action,
		"details":      a.Details,
		"createdAt":    a.CreatedAt,
	}
}

func sessionView(s *entity.DonationSession) gin.H {
	return gin.H{
		"id":              s.ID,
		"ref":             s.Ref,
		"donorId":         s.DonorID,
		"receiverId":      s.ReceiverID,
		"foodDescription": s.FoodDescription,
		"quantity":        s.Quantity,
		"status":          s.Status,
		"createdAt":       s.CreatedAt,
	}
}

// serviceError maps application sentinels onto HTTP statuses. Anything
// unrecognized is reported generically as a 500; the caller logs the cause.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, application.ErrAccountBlocked):
		response.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, application.ErrSuperadminProtected):
		response.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, application.ErrInvalidRole),
		errors.Is(err, application.ErrInvalidAction),
		errors.Is(err, application.ErrInvalidTransition),
		errors.Is(err, application.ErrReceiverNotEligible):
		response.Error(c, http.StatusBadRequest, err.Error())
	default:
		response.Internal(c)
	}
}
