package assemblies

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/GabeCabrera/crewkit-sub001/internal/inventory/equipment"
	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"github.com/gin-gonic/gin"
)

type AssemblyHandler struct {
	Repository    AssemblyRepository
	Service       *AssemblyService
	EquipmentRepo *equipment.EquipmentRepository
}

func NewAssemblyHandler(r AssemblyRepository, s *AssemblyService, er *equipment.EquipmentRepository) *AssemblyHandler {
	return &AssemblyHandler{
		Repository:    r,
		Service:       s,
		EquipmentRepo: er,
	}
}

func (h *AssemblyHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/assemblies", security.Authorize(roles.Field), h.CreateAssembly)
	router.GET("/assemblies", security.Authorize(roles.Field), h.GetAssemblies)
	router.GET("/assemblies/:id", security.Authorize(roles.Field), h.GetAssembly)
	router.PATCH("/assemblies/:id", security.Authorize(roles.Field), h.UpdateAssembly)
	router.DELETE("/assemblies/:id", security.Authorize(roles.Field), h.DeleteAssembly)
	router.POST("/assemblies/:id/submit", security.Authorize(roles.Field), h.SubmitAssembly)
	router.POST("/assemblies/:id/approve", security.Authorize(roles.Admin), h.ApproveAssembly)
	router.POST("/assemblies/:id/reject", security.Authorize(roles.Admin), h.RejectAssembly)
}

func (h *AssemblyHandler) CreateAssembly(c *gin.Context) {
	var req CreateAssemblyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if msg := h.validateItems(req.Items); msg != "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	userID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	assembly, err := h.Repository.PersistAssembly(req, userID)
	if err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Assembly name already registered"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assembly"})
			return
		}
	}

	c.JSON(http.StatusCreated, assembly)
}

func (h *AssemblyHandler) GetAssemblies(c *gin.Context) {
	page, limit := models.ParsePageParams(c.Query("page"), c.Query("limit"))

	filter := ListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}

	assemblies, totalCount, err := h.Repository.GetAssemblies(filter, page, limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list assemblies", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       assemblies,
		"pagination": models.NewPagination(page, limit, totalCount),
	})
}

func (h *AssemblyHandler) GetAssembly(c *gin.Context) {
	id, ok := h.bindAssemblyID(c)
	if !ok {
		return
	}

	assembly, err := h.Repository.GetAssembly(id)
	if err != nil {
		h.respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, assembly)
}

func (h *AssemblyHandler) UpdateAssembly(c *gin.Context) {
	id, ok := h.bindAssemblyID(c)
	if !ok {
		return
	}

	var req UpdateAssemblyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Items != nil {
		if msg := h.validateItems(req.Items); msg != "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
	}

	assembly, userID, ok := h.loadForOwnershipCheck(c, id)
	if !ok {
		return
	}

	role := security.CurrentRole(c)
	if !roles.CanEditAssembly(role, assembly.CreatedBy.ID == userID, assembly.Status.String()) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "Only drafts and rejected assemblies can be edited by their creator"})
		return
	}

	if err := h.Repository.UpdateAssembly(id, req); err != nil {
		h.respondRepositoryError(c, err)
		return
	}

	updated, err := h.Repository.GetAssembly(id)
	if err != nil {
		h.respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *AssemblyHandler) DeleteAssembly(c *gin.Context) {
	id, ok := h.bindAssemblyID(c)
	if !ok {
		return
	}

	assembly, userID, ok := h.loadForOwnershipCheck(c, id)
	if !ok {
		return
	}

	role := security.CurrentRole(c)
	if !roles.CanDeleteAssembly(role, assembly.CreatedBy.ID == userID, assembly.Status.String()) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "Only draft assemblies can be deleted by their creator"})
		return
	}

	if err := h.Repository.DeleteAssembly(id); err != nil {
		h.respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assembly deleted"})
}

func (h *AssemblyHandler) SubmitAssembly(c *gin.Context) {
	id, ok := h.bindAssemblyID(c)
	if !ok {
		return
	}

	assembly, userID, ok := h.loadForOwnershipCheck(c, id)
	if !ok {
		return
	}

	role := security.CurrentRole(c)
	if assembly.CreatedBy.ID != userID && !role.HasPermission(roles.Admin) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "Only the creator can submit an assembly for approval"})
		return
	}

	updated, err := h.Service.Submit(id, role)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *AssemblyHandler) ApproveAssembly(c *gin.Context) {
	id, ok := h.bindAssemblyID(c)
	if !ok {
		return
	}

	updated, err := h.Service.Approve(id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *AssemblyHandler) RejectAssembly(c *gin.Context) {
	id, ok := h.bindAssemblyID(c)
	if !ok {
		return
	}

	var req RejectAssemblyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}

	updated, err := h.Service.Reject(id, req.Reason)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *AssemblyHandler) bindAssemblyID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assembly ID"})
		return 0, false
	}
	return id, true
}

func (h *AssemblyHandler) loadForOwnershipCheck(c *gin.Context, id int) (*models.Assembly, int, bool) {
	assembly, err := h.Repository.GetAssembly(id)
	if err != nil {
		h.respondRepositoryError(c, err)
		return nil, 0, false
	}

	userID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, 0, false
	}

	return assembly, userID, true
}

func (h *AssemblyHandler) validateItems(items []AssemblyItemRequest) string {
	if len(items) == 0 {
		return "An assembly needs at least one equipment line"
	}

	seen := make(map[int]bool, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return "Item quantity must be positive"
		}
		if seen[item.EquipmentID] {
			return "Duplicate equipment line in assembly"
		}
		seen[item.EquipmentID] = true

		exists, _, err := h.EquipmentRepo.EquipmentExists(item.EquipmentID)
		if err != nil || !exists {
			return "Unknown equipment in assembly items"
		}
	}

	return ""
}

func (h *AssemblyHandler) respondRepositoryError(c *gin.Context, err error) {
	var notFound *custom_error.NotFoundError
	if errors.As(err, &notFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to locate assembly"})
		return
	}
	var fkViolation *custom_error.ForeignKeyViolationError
	if errors.As(err, &fkViolation) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Assembly has usage logs and cannot be deleted"})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Assembly operation failed", "details": err.Error()})
}

func (h *AssemblyHandler) respondServiceError(c *gin.Context, err error) {
	var workflowErr *WorkflowError
	if errors.As(err, &workflowErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": workflowErr.Error()})
		return
	}
	h.respondRepositoryError(c, err)
}
