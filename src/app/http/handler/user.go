package handler

import (
	"github.com/gin-gonic/gin"

	"recordkeeper/src/app/http/dto"
	"recordkeeper/src/app/http/response"
	"recordkeeper/src/app/middleware"
	"recordkeeper/src/core/usecase"
)

// UserHandler handles the user directory endpoints.
type UserHandler struct {
	userService *usecase.UserService
}

func NewUserHandler(userService *usecase.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create stores a new user.
// POST /v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	u, err := h.userService.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.Created(c, dto.UserFromDomain(u))
}

// List returns all users, optionally filtered by ?email=.
// GET /v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), c.Query("email"))
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.UsersFromDomain(users))
}

// Get returns one user.
// GET /v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.UserFromDomain(u))
}

// Update replaces a user's attributes.
// PUT /v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	u, err := h.userService.Update(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.UserFromDomain(u))
}

// Delete removes a user.
// DELETE /v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.NoContent(c)
}
