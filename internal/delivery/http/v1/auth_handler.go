package v1

import (
	"io"
	"net/http"
	"time"

	"go-internship-backend/internal/delivery/http/middleware"
	"go-internship-backend/internal/delivery/http/response"
	"go-internship-backend/internal/domain"
	"go-internship-backend/pkg/apperror"
	"go-internship-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

// maxAvatarBytes caps avatar uploads before decoding.
const maxAvatarBytes = 5 << 20

type AuthHandler struct {
	authUC domain.AuthUsecase
	tokens *token.Service
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, tokens *token.Service, loginLimiter gin.HandlerFunc) {
	handler := &AuthHandler{
		authUC: authUC,
		tokens: tokens,
	}

	// Public Routes
	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/login", loginLimiter, handler.Login)
		publicAuth.POST("/logout", handler.Logout)
	}

	// Protected Routes
	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.POST("/avatar", handler.UploadAvatar)
		protectedAuth.GET("/avatar", handler.GetAvatar)
	}
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Name        string `json:"name" binding:"required"`
	Age         int    `json:"age" binding:"required"`
	DateOfBirth string `json:"date_of_birth" binding:"required"`
	ImageURL    string `json:"image_url"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary      Applicant Registration
// @Description  Register a new applicant with email, password, and profile details.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Registration Details"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.Error(apperror.BadRequest("date_of_birth must be formatted as YYYY-MM-DD"))
		return
	}

	applicant, err := h.authUC.Register(c.Request.Context(), domain.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Age:         req.Age,
		DateOfBirth: dob,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Registration successful", applicant)
}

// Login godoc
// @Summary      Applicant Login
// @Description  Verify credentials and set the session token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	tok, applicant, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	// The token travels only in an HTTP-only cookie; expiry is the sole
	// server-enforced bound, so max-age mirrors the token TTL.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, tok, int(h.tokens.TTL().Seconds()), "/", "", true, true)

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"applicant": applicant,
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Clear the session token cookie. Tokens are not revoked server-side.
// @Tags         auth
// @Produce      json
// @Success      200    {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", true, true)
	response.Success(c, http.StatusOK, "Logout successful", nil)
}

// Me godoc
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Success      200    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	id := c.GetString(string(domain.KeyApplicantID))

	applicant, err := h.authUC.GetProfile(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", applicant)
}

// UploadAvatar godoc
// @Summary      Upload profile picture
// @Description  Accepts a multipart image, resizes it, and stores it on the profile.
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar  formData  file  true  "Image file"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /auth/avatar [post]
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	id := c.GetString(string(domain.KeyApplicantID))

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.Error(apperror.BadRequest("avatar file is required"))
		return
	}
	if fileHeader.Size > maxAvatarBytes {
		c.Error(apperror.BadRequest("avatar must be smaller than 5MB"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	imageURL, err := h.authUC.UpdateAvatar(c.Request.Context(), id, data)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Avatar updated", gin.H{"image_url": imageURL})
}

// GetAvatar serves the caller's stored profile picture.
func (h *AuthHandler) GetAvatar(c *gin.Context) {
	id := c.GetString(string(domain.KeyApplicantID))

	data, err := h.authUC.GetAvatar(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}
