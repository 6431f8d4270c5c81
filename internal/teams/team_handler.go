package teams

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"github.com/gin-gonic/gin"
)

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type TeamHandler struct {
	Repository *TeamRepository
}

func NewTeamHandler(r *TeamRepository) *TeamHandler {
	return &TeamHandler{Repository: r}
}

func (h *TeamHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/teams", h.GetTeams)
	router.GET("/teams/:id", h.GetTeam)
	router.GET("/teams/:id/members", h.GetTeamMembers)
	router.POST("/teams", security.Authorize(roles.Manager), h.CreateTeam)
	router.PATCH("/teams/:id", security.Authorize(roles.Manager), h.UpdateTeam)
	router.DELETE("/teams/:id", security.Authorize(roles.Manager), h.RemoveTeam)
}

func (h *TeamHandler) GetTeams(c *gin.Context) {
	teams, err := h.Repository.GetTeams()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list teams", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, teams)
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	team, err := h.Repository.GetTeam(teamID)
	if err != nil {
		h.respondError(c, err, "Could not get team")
		return
	}

	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	team := models.Team{Name: req.Name, Description: req.Description}
	if err := h.Repository.PersistTeam(&team); err != nil {
		h.respondError(c, err, "Could not create team")
		return
	}

	c.JSON(http.StatusCreated, team)
}

func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var req UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	team, err := h.Repository.UpdateTeam(teamID, req)
	if err != nil {
		h.respondError(c, err, "Could not update team")
		return
	}

	c.JSON(http.StatusOK, team)
}

func (h *TeamHandler) RemoveTeam(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	if err := h.Repository.RemoveTeam(teamID); err != nil {
		h.respondError(c, err, "Could not delete team")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team deleted successfully"})
}

func (h *TeamHandler) GetTeamMembers(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	if _, err := h.Repository.GetTeam(teamID); err != nil {
		h.respondError(c, err, "Could not get team")
		return
	}

	members, err := h.Repository.GetTeamMembers(teamID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list team members", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, members)
}

func (h *TeamHandler) respondError(c *gin.Context, err error, message string) {
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
