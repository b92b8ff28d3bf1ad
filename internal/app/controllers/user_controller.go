package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/counselorhub/counselorhub/internal/app/models/dto"
	"github.com/counselorhub/counselorhub/internal/app/services"
	"github.com/counselorhub/counselorhub/internal/middleware"
)

// UserController handles user endpoints
type UserController struct {
	userService      *services.UserService
	lifecycleService *services.LifecycleService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, lifecycleService *services.LifecycleService) *UserController {
	return &UserController{userService: userService, lifecycleService: lifecycleService}
}

// ListUsers lists active users, optionally filtered by ?role=
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, opts := pageParams(ctx)

	users, total, err := c.userService.ListUsers(ctx.Request.Context(), ctx.Query("role"), opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondPage(ctx, users, total, page, "")
}

// CreateUser creates a user account
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.CreateUser(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(user, "User created successfully"))
}

// GetUser returns one active user
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.userService.GetUser(ctx.Request.Context(), ctx.Param("user_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user, ""))
}

// UpdateUser changes name, email or role
func (c *UserController) UpdateUser(ctx *gin.Context) {
	var req dto.UpdateUserRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpdateUser(ctx.Request.Context(), ctx.Param("user_id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user, "User updated successfully"))
}

// DeleteUser soft deletes a user
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id := ctx.Param("user_id")
	if err := c.lifecycleService.SoftDeleteUser(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"userId": id}, "User deleted successfully"))
}
