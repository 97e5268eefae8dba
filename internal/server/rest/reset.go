package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/gin-gonic/gin"
)

// ResetService is the password reset API used by the handlers.
type ResetService interface {
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code string, newPassword, confirmPassword []byte) error
}

type forgotPasswordRequest struct {
	Email string `json:"email_id" binding:"required,email"`
}

type resetPasswordRequest struct {
	OTP             string `json:"otp" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// forgotPassword handles POST /forgot-password/.
func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithMappedError(c, bindingError(err), nil)
		return
	}

	if err := h.reset.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: common.ErrorNotFound, Status: http.StatusNotFound, Message: "Email not registered"},
		})
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "OTP sent to your email"})
}

// resetPassword handles POST /reset-password/.
func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithMappedError(c, bindingError(err), nil)
		return
	}

	newPassword, confirm := []byte(req.NewPassword), []byte(req.ConfirmPassword)
	defer common.WipeByteArray(newPassword)
	defer common.WipeByteArray(confirm)

	err := h.reset.ResetPassword(c.Request.Context(), strings.TrimSpace(req.OTP), newPassword, confirm)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: common.ErrCodeNotFoundOrConsumed, Status: http.StatusBadRequest, Message: "Invalid OTP"},
			{Err: common.ErrCodeExpired, Status: http.StatusBadRequest, Message: "OTP expired"},
			{Err: common.ErrPasswordMismatch, Status: http.StatusBadRequest, Message: "Passwords do not match"},
			{Err: common.ErrorNotFound, Status: http.StatusNotFound, Message: "User not found"},
		})
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "Password reset successful"})
}
