package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) (int, error) {
	args := m.Called(req, hashedPassword)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(id int, changes *models.UserChanges) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func setupTestContext(userID, role string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", userID)
	c.Set("role", role)
	return c, w
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		actorRole      string
		payload        models.CreateUserRequest
		setupMock      func(mockRepo *MockUserRepository)
		expectedStatus int
	}{
		{
			name:      "successful registration",
			actorRole: "admin",
			payload: models.CreateUserRequest{
				Username: "jdoe",
				Password: "password123",
				Fullname: "Jane Doe",
				Role:     "field",
			},
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).Return(5, nil)
				mockRepo.On("GetUser", 5).Return(&models.User{ID: 5, Username: "jdoe", Role: "field"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:      "admin cannot grant admin",
			actorRole: "admin",
			payload: models.CreateUserRequest{
				Username: "jdoe",
				Password: "password123",
				Fullname: "Jane Doe",
				Role:     "admin",
			},
			setupMock:      func(mockRepo *MockUserRepository) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "superuser can grant admin",
			actorRole: "superuser",
			payload: models.CreateUserRequest{
				Username: "boss",
				Password: "password123",
				Fullname: "Big Boss",
				Role:     "admin",
			},
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).Return(6, nil)
				mockRepo.On("GetUser", 6).Return(&models.User{ID: 6, Username: "boss", Role: "admin"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:      "unknown role",
			actorRole: "admin",
			payload: models.CreateUserRequest{
				Username: "jdoe",
				Password: "password123",
				Fullname: "Jane Doe",
				Role:     "wizard",
			},
			setupMock:      func(mockRepo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:      "duplicate username",
			actorRole: "admin",
			payload: models.CreateUserRequest{
				Username: "jdoe",
				Password: "password123",
				Fullname: "Jane Doe",
				Role:     "field",
			},
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).
					Return(0, custom_error.WrapDBError("Username already taken", "23505"))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			handler := NewHandler(mockRepo)
			tt.setupMock(mockRepo)
			c, w := setupTestContext("1", tt.actorRole)

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("POST", "/users", bytes.NewBuffer(body))

			handler.RegisterUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		actorID        string
		actorRole      string
		userID         string
		payload        models.UpdateUserRequest
		setupMock      func(mockRepo *MockUserRepository)
		expectedStatus int
	}{
		{
			name:      "admin updates fullname and team",
			actorID:   "1",
			actorRole: "admin",
			userID:    "2",
			payload: models.UpdateUserRequest{
				Fullname: stringPtr("Updated Name"),
				TeamID:   intPtr(3),
			},
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetUser", 2).Return(&models.User{ID: 2, Username: "jdoe", Fullname: "Jane Doe", Role: "field"}, nil)
				mockRepo.On("UpdateUser", 2, mock.MatchedBy(func(changes *models.UserChanges) bool {
					return changes.Fullname != nil && changes.TeamID != nil && *changes.TeamID == 3
				})).Return(nil)
				mockRepo.On("GetUser", 2).Return(&models.User{ID: 2, Username: "jdoe", Fullname: "Updated Name", Role: "field"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "self password change",
			actorID:   "2",
			actorRole: "field",
			userID:    "2",
			payload: models.UpdateUserRequest{
				Password: stringPtr("newPassword123"),
			},
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetUser", 2).Return(&models.User{ID: 2, Username: "jdoe", PasswordHash: "oldHash", Role: "field"}, nil)
				mockRepo.On("UpdateUser", 2, mock.MatchedBy(func(changes *models.UserChanges) bool {
					return changes.PasswordHash != nil && *changes.PasswordHash != "oldHash"
				})).Return(nil)
				mockRepo.On("GetUser", 2).Return(&models.User{ID: 2, Username: "jdoe", PasswordHash: "newHash", Role: "field"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "field user cannot change own role",
			actorID:   "2",
			actorRole: "field",
			userID:    "2",
			payload: models.UpdateUserRequest{
				Role: stringPtr("admin"),
			},
			setupMock:      func(mockRepo *MockUserRepository) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "field user cannot edit others",
			actorID:   "2",
			actorRole: "field",
			userID:    "3",
			payload: models.UpdateUserRequest{
				Password: stringPtr("newPassword123"),
			},
			setupMock:      func(mockRepo *MockUserRepository) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "admin cannot grant superuser",
			actorID:   "1",
			actorRole: "admin",
			userID:    "2",
			payload: models.UpdateUserRequest{
				Role: stringPtr("superuser"),
			},
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetUser", 2).Return(&models.User{ID: 2, Username: "jdoe", Role: "field"}, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:      "password too short",
			actorID:   "2",
			actorRole: "field",
			userID:    "2",
			payload: models.UpdateUserRequest{
				Password: stringPtr("123"),
			},
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetUser", 2).Return(&models.User{ID: 2, Username: "jdoe", PasswordHash: "oldHash", Role: "field"}, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:      "user not found",
			actorID:   "1",
			actorRole: "admin",
			userID:    "999",
			payload: models.UpdateUserRequest{
				Fullname: stringPtr("Updated Name"),
			},
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetUser", 999).Return(nil, &custom_error.NotFoundError{Resource: "user", ID: 999})
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			handler := NewHandler(mockRepo)
			tt.setupMock(mockRepo)
			c, w := setupTestContext(tt.actorID, tt.actorRole)

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("PATCH", "/users/"+tt.userID, bytes.NewBuffer(body))
			c.Params = []gin.Param{{Key: "id", Value: tt.userID}}

			handler.UpdateUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetUserList(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupMock      func(mockRepo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "successful list retrieval",
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetUsers").Return([]models.User{
					{ID: 1, Username: "user1"},
					{ID: 2, Username: "user2"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "repository error",
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("GetUsers").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			handler := NewHandler(mockRepo)
			tt.setupMock(mockRepo)
			c, w := setupTestContext("1", "admin")
			c.Request = httptest.NewRequest("GET", "/users", nil)

			handler.GetUserList(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestDeleteUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		userID         string
		setupMock      func(mockRepo *MockUserRepository)
		expectedStatus int
	}{
		{
			name:   "successful deletion",
			userID: "2",
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("DeleteUser", 2).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "self deletion forbidden",
			userID:         "1",
			setupMock:      func(mockRepo *MockUserRepository) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "user has ledger history",
			userID: "2",
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("DeleteUser", 2).Return(custom_error.WrapDBError("User still has usage logs or reports", "23503"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid user ID",
			userID:         "invalid",
			setupMock:      func(mockRepo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "user not found",
			userID: "999",
			setupMock: func(mockRepo *MockUserRepository) {
				mockRepo.On("DeleteUser", 999).Return(&custom_error.NotFoundError{Resource: "user", ID: 999})
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			handler := NewHandler(mockRepo)
			tt.setupMock(mockRepo)
			c, w := setupTestContext("1", "admin")

			c.Request = httptest.NewRequest("DELETE", "/users/"+tt.userID, nil)
			c.Params = []gin.Param{{Key: "id", Value: tt.userID}}

			handler.DeleteUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
