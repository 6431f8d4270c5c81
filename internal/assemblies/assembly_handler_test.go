package assemblies

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/metadata"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupAssemblyContext(userID, role string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", userID)
	c.Set("role", role)
	return c, w
}

func TestDeleteAssemblyWithUsageLogsConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockAssemblyRepository)
	handler := NewAssemblyHandler(mockRepo, NewAssemblyService(mockRepo), nil)

	mockRepo.On("GetAssembly", 7).Return(assemblyWithStatus(metadata.StatusApproved), nil)
	mockRepo.On("DeleteAssembly", 7).Return(custom_error.WrapDBError("Assembly has usage logs and cannot be deleted", "23503"))

	c, w := setupAssemblyContext("1", "admin")
	c.Request = httptest.NewRequest(http.MethodDelete, "/assemblies/7", nil)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.DeleteAssembly(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "usage logs")
}

func TestRejectAssemblyReturnsPersistedReason(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockAssemblyRepository)
	handler := NewAssemblyHandler(mockRepo, NewAssemblyService(mockRepo), nil)

	mockRepo.On("GetAssembly", 7).Return(assemblyWithStatus(metadata.StatusPendingApproval), nil)
	mockRepo.On("UpdateStatus", 7, metadata.StatusRejected, "wrong bolt grade for the load rating").Return(nil)

	c, w := setupAssemblyContext("1", "admin")
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	body, _ := json.Marshal(RejectAssemblyRequest{Reason: "wrong bolt grade for the load rating"})
	c.Request = httptest.NewRequest(http.MethodPost, "/assemblies/7/reject", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.RejectAssembly(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.Assembly
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, metadata.StatusRejected, resp.Status)
	assert.Equal(t, "wrong bolt grade for the load rating", resp.StatusNote)
	mockRepo.AssertExpectations(t)
}
