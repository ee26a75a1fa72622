package controllers

import (
	"log"
	"net/http"

	"myanmar-travel/middleware"
	"myanmar-travel/services"

	"github.com/gin-gonic/gin"
)

type registerPayload struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profilePayload struct {
	FullName    *string `json:"full_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Bio         *string `json:"bio"`
	Nationality *string `json:"nationality"`
	Avatar      string  `json:"avatar"`
}

type passwordPayload struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type AuthController struct {
	Users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{Users: users}
}

// POST /api/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "username, email and password required")
		return
	}
	res, err := ctrl.Users.Register(c.Request.Context(), services.RegisterInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		FullName: payload.FullName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("✅ Registered user %s", res.User.Username)
	c.JSON(http.StatusCreated, res)
}

// POST /api/auth/login. Username may also be the email address.
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	res, err := ctrl.Users.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	user, err := ctrl.Users.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /api/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	var payload profilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := ctrl.Users.UpdateProfile(c.Request.Context(), middleware.UserID(c), services.ProfileUpdate{
		FullName:    payload.FullName,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Bio:         payload.Bio,
		Nationality: payload.Nationality,
		Avatar:      payload.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "data": user})
}

// POST /api/auth/password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var payload passwordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "current_password and new_password required")
		return
	}
	if err := ctrl.Users.ChangePassword(c.Request.Context(), middleware.UserID(c), payload.CurrentPassword, payload.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
