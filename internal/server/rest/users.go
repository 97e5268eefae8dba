package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/server/models"
	"github.com/dmitrijs2005/cyberspace/internal/server/rest/middleware"
	"github.com/dmitrijs2005/cyberspace/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is the account API used by the handlers.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*services.AccessToken, error)
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
}

var registerCases = []ErrorCase{
	{Err: common.ErrDuplicateIdentity, Status: http.StatusConflict, Message: "Email or Mobile Number already registered"},
	{Err: common.ErrUnsupportedExtension, Status: http.StatusUnsupportedMediaType, Message: "Only JPG files are allowed"},
	{Err: common.ErrWriteFailure, Status: http.StatusInternalServerError, Message: "could not store the uploaded file"},
}

type registerRequest struct {
	FirstName    string `form:"first_name" binding:"required"`
	LastName     string `form:"last_name" binding:"required"`
	Email        string `form:"email_id" binding:"required,email"`
	MobileNumber string `form:"mobile_number" binding:"required"`
	CollegeName  string `form:"college_name"`
	Password     string `form:"password" binding:"required"`
}

// register handles POST /users/ (multipart form, optional "image").
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondWithMappedError(c, bindingError(err), nil)
		return
	}

	in := services.RegisterInput{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        req.Email,
		MobileNumber: strings.TrimSpace(req.MobileNumber),
		CollegeName:  strings.TrimSpace(req.CollegeName),
		Password:     []byte(req.Password),
	}
	defer common.WipeByteArray(in.Password)

	upload, closeFn, err := formUpload(c, "image")
	if err != nil {
		badRequest(c, "invalid image upload")
		return
	}
	defer closeFn()
	in.Image = upload

	user, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		RespondWithMappedError(c, err, registerCases)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// loginRequest accepts the email as "email" or, for OAuth2 password-form
// clients, as "username".
type loginRequest struct {
	Email    string `form:"email" json:"email" binding:"required_without=Username,omitempty,email"`
	Username string `form:"username" json:"username" binding:"omitempty,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

var loginCases = []ErrorCase{
	{Err: common.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "Incorrect email or password"},
}

// login handles POST /login.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		RespondWithMappedError(c, bindingError(err), nil)
		return
	}

	email := req.Email
	if email == "" {
		email = req.Username
	}

	password := []byte(req.Password)
	defer common.WipeByteArray(password)

	tok, err := h.users.Login(c.Request.Context(), email, password)
	if err != nil {
		RespondWithMappedError(c, err, loginCases)
		return
	}

	c.JSON(http.StatusOK, tok)
}

// profile handles GET /user/profile.
func (h *Handler) profile(c *gin.Context) {
	id, _ := middleware.UserID(c)

	p, err := h.users.Profile(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: common.ErrorNotFound, Status: http.StatusNotFound, Message: "User not found"},
		})
		return
	}

	c.JSON(http.StatusOK, p)
}
