package assemblies

import (
	"testing"

	"github.com/GabeCabrera/crewkit-sub001/pkg/metadata"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAssemblyRepository struct {
	mock.Mock
}

func (m *MockAssemblyRepository) PersistAssembly(req CreateAssemblyRequest, createdByID int) (*models.Assembly, error) {
	args := m.Called(req, createdByID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assembly), args.Error(1)
}

func (m *MockAssemblyRepository) GetAssembly(id int) (*models.Assembly, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assembly), args.Error(1)
}

func (m *MockAssemblyRepository) GetAssemblies(filter ListFilter, page, limit int) ([]models.Assembly, int, error) {
	args := m.Called(filter, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Assembly), args.Int(1), args.Error(2)
}

func (m *MockAssemblyRepository) UpdateAssembly(id int, req UpdateAssemblyRequest) error {
	args := m.Called(id, req)
	return args.Error(0)
}

func (m *MockAssemblyRepository) UpdateStatus(id int, status metadata.Status, note string) error {
	args := m.Called(id, status, note)
	return args.Error(0)
}

func (m *MockAssemblyRepository) DeleteAssembly(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func assemblyWithStatus(status metadata.Status) *models.Assembly {
	return &models.Assembly{
		ID:     7,
		Name:   "Pole Kit",
		Status: status,
		CreatedBy: models.User{
			ID:   3,
			Role: string(roles.Field),
		},
	}
}

func TestSubmitDraftGoesToPending(t *testing.T) {
	mockRepo := new(MockAssemblyRepository)
	service := NewAssemblyService(mockRepo)

	mockRepo.On("GetAssembly", 7).Return(assemblyWithStatus(metadata.StatusDraft), nil)
	mockRepo.On("UpdateStatus", 7, metadata.StatusPendingApproval, "").Return(nil)

	updated, err := service.Submit(7, roles.Field)

	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusPendingApproval, updated.Status)
	mockRepo.AssertExpectations(t)
}

func TestSubmitByAdminAutoApproves(t *testing.T) {
	mockRepo := new(MockAssemblyRepository)
	service := NewAssemblyService(mockRepo)

	mockRepo.On("GetAssembly", 7).Return(assemblyWithStatus(metadata.StatusDraft), nil)
	mockRepo.On("UpdateStatus", 7, metadata.StatusApproved, "").Return(nil)

	updated, err := service.Submit(7, roles.Superuser)

	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusApproved, updated.Status)
	mockRepo.AssertExpectations(t)
}

func TestSubmitApprovedAssemblyFails(t *testing.T) {
	mockRepo := new(MockAssemblyRepository)
	service := NewAssemblyService(mockRepo)

	mockRepo.On("GetAssembly", 7).Return(assemblyWithStatus(metadata.StatusApproved), nil)

	_, err := service.Submit(7, roles.Field)

	assert.Error(t, err)
	var workflowErr *WorkflowError
	assert.ErrorAs(t, err, &workflowErr)
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestResubmitRejectedAssembly(t *testing.T) {
	mockRepo := new(MockAssemblyRepository)
	service := NewAssemblyService(mockRepo)

	mockRepo.On("GetAssembly", 7).Return(assemblyWithStatus(metadata.StatusRejected), nil)
	mockRepo.On("UpdateStatus", 7, metadata.StatusPendingApproval, "").Return(nil)

	updated, err := service.Submit(7, roles.Manager)

	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusPendingApproval, updated.Status)
}

func TestApproveOnlyFromPending(t *testing.T) {
	tests := []struct {
		name    string
		status  metadata.Status
		wantErr bool
	}{
		{"pending can be approved", metadata.StatusPendingApproval, false},
		{"draft cannot be approved directly", metadata.StatusDraft, true},
		{"approved cannot be approved again", metadata.StatusApproved, true},
		{"rejected cannot be approved", metadata.StatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAssemblyRepository)
			service := NewAssemblyService(mockRepo)

			mockRepo.On("GetAssembly", 7).Return(assemblyWithStatus(tt.status), nil)
			if !tt.wantErr {
				mockRepo.On("UpdateStatus", 7, metadata.StatusApproved, "").Return(nil)
			}

			_, err := service.Approve(7)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRejectFromPendingPersistsReason(t *testing.T) {
	mockRepo := new(MockAssemblyRepository)
	service := NewAssemblyService(mockRepo)

	mockRepo.On("GetAssembly", 7).Return(assemblyWithStatus(metadata.StatusPendingApproval), nil)
	mockRepo.On("UpdateStatus", 7, metadata.StatusRejected, "missing torque spec for the anchor bolts").Return(nil)

	updated, err := service.Reject(7, "missing torque spec for the anchor bolts")

	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusRejected, updated.Status)
	assert.Equal(t, "missing torque spec for the anchor bolts", updated.StatusNote)
	mockRepo.AssertExpectations(t)
}

func TestResubmitClearsRejectionReason(t *testing.T) {
	mockRepo := new(MockAssemblyRepository)
	service := NewAssemblyService(mockRepo)

	rejected := assemblyWithStatus(metadata.StatusRejected)
	rejected.StatusNote = "missing torque spec for the anchor bolts"
	mockRepo.On("GetAssembly", 7).Return(rejected, nil)
	mockRepo.On("UpdateStatus", 7, metadata.StatusPendingApproval, "").Return(nil)

	updated, err := service.Submit(7, roles.Field)

	assert.NoError(t, err)
	assert.Equal(t, metadata.StatusPendingApproval, updated.Status)
	assert.Empty(t, updated.StatusNote)
}
