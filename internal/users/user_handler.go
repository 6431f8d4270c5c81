package users

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type UsersHandler struct {
	Repository UserRepository
}

func NewHandler(r UserRepository) *UsersHandler {
	return &UsersHandler{Repository: r}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users", security.Authorize(roles.Admin), h.RegisterUser)
	router.GET("/users", security.Authorize(roles.Admin), h.GetUserList)
	router.GET("/users/:id", h.GetUser)
	router.PATCH("/users/:id", h.UpdateUser)
	router.DELETE("/users/:id", security.Authorize(roles.Admin), h.DeleteUser)
}

func (h *UsersHandler) RegisterUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	targetRole := roles.Role(req.Role)
	if !targetRole.IsValid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + req.Role})
		return
	}
	if !roles.CanGrantRole(security.CurrentRole(c), targetRole) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You cannot grant this role"})
		return
	}
	if len(req.Password) < minPasswordLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	userID, err := h.Repository.PersistUser(req, hashedPassword)
	if err != nil {
		h.respondError(c, err, "Failed to create user")
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get created user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if !h.isSelfOr(c, userID, roles.Admin) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not allowed to access this resource"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		h.respondError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.Repository.GetUsers()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UsersHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req models.UpdateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, _ := security.CurrentUserID(c)
	actorRole := security.CurrentRole(c)
	isSelf := actorID == userID

	if !isSelf && !actorRole.HasPermission(roles.Admin) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not allowed to access this resource"})
		return
	}

	// Non-admins editing their own account may only change the password.
	if isSelf && !actorRole.HasPermission(roles.Admin) && (req.Fullname != nil || req.Role != nil || req.TeamID != nil) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Only your password can be changed"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		var notFound *custom_error.NotFoundError
		if errors.As(err, &notFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to find user", "code": "USER_NOT_FOUND"})
		} else {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to find user", "details": err.Error(), "code": "USER_NOT_FOUND"})
		}
		return
	}

	changes := &models.UserChanges{}

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < minPasswordLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
			return
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		passwordHash := string(hashedPassword)
		changes.PasswordHash = &passwordHash
	}

	if req.Fullname != nil && *req.Fullname != user.Fullname {
		changes.Fullname = req.Fullname
	}

	if req.Role != nil && *req.Role != user.Role {
		newRole := roles.Role(*req.Role)
		if !newRole.IsValid() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + *req.Role})
			return
		}
		if !roles.CanGrantRole(actorRole, newRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You cannot grant this role"})
			return
		}
		role := string(newRole)
		changes.Role = &role
	}

	if req.TeamID != nil {
		changes.TeamID = req.TeamID
	}

	if !changes.HasChanges() {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.Repository.UpdateUser(userID, changes); err != nil {
		h.respondError(c, err, "Failed to update user")
		return
	}

	updatedUser, err := h.Repository.GetUser(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updatedUser)
}

func (h *UsersHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	actorID, _ := security.CurrentUserID(c)
	if actorID == userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You cannot delete your own account"})
		return
	}

	if err := h.Repository.DeleteUser(userID); err != nil {
		h.respondError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *UsersHandler) isSelfOr(c *gin.Context, userID int, required roles.Role) bool {
	actorID, err := security.CurrentUserID(c)
	if err != nil {
		return false
	}
	if actorID == userID {
		return true
	}
	return security.CurrentRole(c).HasPermission(required)
}

func (h *UsersHandler) respondError(c *gin.Context, err error, message string) {
	var notFound *custom_error.NotFoundError
	if errors.As(err, &notFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
		return
	}
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
}
