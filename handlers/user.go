package handlers

import (
	"errors"
	"net/http"
	"time"

	"concierge/database/repository"
	"concierge/models"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler manages guest records. Users are usually created lazily by
// the chat engine; explicit registration fills in profile details.
type UserHandler struct {
	Repo repository.UserRepository
}

func NewUserHandler(repo repository.UserRepository) *UserHandler {
	return &UserHandler{Repo: repo}
}

// RegisterRequest is the POST /users/register payload. The ID is externally
// supplied (app installation or account identifier).
type RegisterRequest struct {
	ID       string `json:"id" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

// RegisterUser creates or completes a guest record.
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	user := &models.User{
		ID:              req.ID,
		FullName:        req.FullName,
		Email:           req.Email,
		LastInteraction: time.Now(),
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to process registration", "")
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := h.Repo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lazily-created chat users complete their profile this way.
			existing, getErr := h.Repo.GetByID(req.ID)
			if getErr != nil {
				utils.JSONError(c, http.StatusInternalServerError, "failed to register user", "")
				return
			}
			existing.FullName = user.FullName
			existing.Email = user.Email
			if user.PasswordHash != "" {
				existing.PasswordHash = user.PasswordHash
			}
			if err := h.Repo.Update(existing); err != nil {
				utils.JSONError(c, http.StatusInternalServerError, "failed to register user", "")
				return
			}
			c.JSON(http.StatusOK, existing)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to register user", "")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUserByID returns one guest record.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.Repo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "user not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch user", "")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetAllUsers lists all guest records (staff operation).
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.Repo.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list users", "")
		return
	}
	c.JSON(http.StatusOK, users)
}
