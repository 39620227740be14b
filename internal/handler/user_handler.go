package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type CreateUserRequest struct {
	Username string      `json:"username" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Role     models.Role `json:"role"`
}

type UpdateUserRequest struct {
	Email     *string      `json:"email"`
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role"`
}

func (r UpdateUserRequest) toUpdate() service.UserUpdate {
	return service.UserUpdate{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Role:      r.Role,
	}
}

// List returns all users
// GET /api/v1/users (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
	})
}

// Create registers a user with an explicit role
// POST /api/v1/users (admin)
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.Create(cl, req.Username, req.Email, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Get returns one user by username
// GET /api/v1/users/:username (admin)
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update patches one user by username
// PATCH /api/v1/users/:username (admin)
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.Update(cl, c.Param("username"), req.toUpdate())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes one user by username
// DELETE /api/v1/users/:username (admin)
func (h *UserHandler) Delete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.userService.Delete(cl, c.Param("username")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMe returns the caller's own profile
// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetMe(cl)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe patches the caller's own profile. Role is read-only here
// unless the caller is an admin.
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cl, ok := caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.UpdateMe(cl, req.toUpdate())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
