package user

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	domain "user-rest-service/internal/domain/user"
	pkgerrors "user-rest-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// setupTestUsecase creates a Service backed by a mock repository
func setupTestUsecase(t *testing.T) (*Service, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	svc := New(mockRepo, logger)
	return svc, mockRepo
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
	}

	// Mock GetByEmail returns nil (email not found)
	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == req.Name && u.Email == req.Email
	})).Return(&domain.User{ID: 1, Name: req.Name, Email: req.Email}, nil)

	resp, err := svc.CreateUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "John Doe", resp.Name)
	assert.Equal(t, "john@example.com", resp.Email)

	mockRepo.AssertExpectations(t)
}

func TestCreateUser_ValidationError_NameRequired(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "", // Empty name
		Email: "john@example.com",
	}

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Name is required")
	assert.Equal(t, http.StatusBadRequest, pkgerrors.StatusOf(err))

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateUser_ValidationError_EmailRequired(t *testing.T) {
	svc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "", // Empty email
	}

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Email is required")
}

func TestCreateUser_ValidationError_EmailInvalid(t *testing.T) {
	svc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "invalid-email", // Invalid email format
	}

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Email must be a valid email")
	assert.Equal(t, http.StatusBadRequest, pkgerrors.StatusOf(err))
}

func TestCreateUser_ValidationError_MultipleErrors(t *testing.T) {
	svc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "",        // Missing
		Email: "invalid", // Invalid email
	}

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Name is required")
	assert.Contains(t, err.Error(), "Email must be a valid email")
}

func TestCreateUser_SemanticValidation_EmailAlreadyExists(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
	}

	existingUser := &domain.User{ID: 2, Name: "Existing User", Email: "john@example.com"}

	// Mock GetByEmail returns existing user
	mockRepo.On("GetByEmail", ctx, req.Email).Return(existingUser, nil)

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "email already exists")
	assert.Equal(t, http.StatusConflict, pkgerrors.StatusOf(err))

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_RepositoryError(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := CreateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return(nil, pkgerrors.NewInternalError("failed to create user", errors.New("db down")))

	resp, err := svc.CreateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, pkgerrors.StatusOf(err))
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_Success(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    1,
		Name:  "John Updated",
		Email: "john.updated@example.com",
	}

	// Mock GetByEmail returns nil (email not found)
	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == req.ID && u.Name == req.Name && u.Email == req.Email
	})).Return(&domain.User{ID: req.ID, Name: req.Name, Email: req.Email}, nil)

	resp, err := svc.UpdateUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "John Updated", resp.Name)
	assert.Equal(t, "john.updated@example.com", resp.Email)

	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_SameEmailKept(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    1,
		Name:  "John Renamed",
		Email: "john@example.com",
	}

	// The email belongs to the user being updated, so it is not a conflict
	mockRepo.On("GetByEmail", ctx, req.Email).Return(&domain.User{ID: 1, Name: "John Doe", Email: req.Email}, nil)
	mockRepo.On("Update", ctx, mock.Anything).Return(&domain.User{ID: req.ID, Name: req.Name, Email: req.Email}, nil)

	resp, err := svc.UpdateUser(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "John Renamed", resp.Name)

	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_ValidationError_MissingID(t *testing.T) {
	svc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		Name:  "John Doe",
		Email: "john@example.com",
	}

	resp, err := svc.UpdateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusBadRequest, pkgerrors.StatusOf(err))
}

func TestUpdateUser_ValidationError_NameRequired(t *testing.T) {
	svc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    1,
		Name:  "", // Updates replace the record, name must be present
		Email: "john@example.com",
	}

	resp, err := svc.UpdateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Name is required")
}

func TestUpdateUser_ValidationError_EmailInvalid(t *testing.T) {
	svc, _ := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    1,
		Name:  "John Doe",
		Email: "invalid-email",
	}

	resp, err := svc.UpdateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "Email must be a valid email")
}

func TestUpdateUser_SemanticValidation_EmailAlreadyExists(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    1,
		Name:  "John Updated",
		Email: "taken@example.com",
	}

	existingUser := &domain.User{ID: 2, Name: "Existing User", Email: "taken@example.com"}

	// Mock GetByEmail returns existing user with different ID
	mockRepo.On("GetByEmail", ctx, req.Email).Return(existingUser, nil)

	resp, err := svc.UpdateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "email already exists")
	assert.Equal(t, http.StatusConflict, pkgerrors.StatusOf(err))

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := UpdateUserRequest{
		ID:    42,
		Name:  "Ghost",
		Email: "ghost@example.com",
	}

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Update", ctx, mock.Anything).Return(nil, pkgerrors.NewNotFoundError("user", "user not found"))

	resp, err := svc.UpdateUser(ctx, req)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusNotFound, pkgerrors.StatusOf(err))
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(1)).Return(nil)

	resp, err := svc.DeleteUser(ctx, DeleteUserRequest{ID: 1})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)

	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_InvalidID(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	resp, err := svc.DeleteUser(ctx, DeleteUserRequest{ID: 0})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusBadRequest, pkgerrors.StatusOf(err))

	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(42)).Return(pkgerrors.NewNotFoundError("user", "user not found"))

	resp, err := svc.DeleteUser(ctx, DeleteUserRequest{ID: 42})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusNotFound, pkgerrors.StatusOf(err))
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "John Doe", Email: "john@example.com"}, nil)

	resp, err := svc.GetUser(ctx, GetUserRequest{ID: 1})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "John Doe", resp.Name)
	assert.Equal(t, "john@example.com", resp.Email)

	mockRepo.AssertExpectations(t)
}

func TestGetUser_InvalidID(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	resp, err := svc.GetUser(ctx, GetUserRequest{ID: -1})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusBadRequest, pkgerrors.StatusOf(err))

	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetUser_NotFound(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(42)).Return(nil, pkgerrors.NewNotFoundError("user", "user not found"))

	resp, err := svc.GetUser(ctx, GetUserRequest{ID: 42})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusNotFound, pkgerrors.StatusOf(err))
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_Success(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{
		{ID: 1, Name: "John Doe", Email: "john@example.com"},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com"},
	}, nil)

	resp, err := svc.ListUsers(ctx)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, int64(1), resp.Users[0].ID)
	assert.Equal(t, "Jane Smith", resp.Users[1].Name)

	mockRepo.AssertExpectations(t)
}

func TestListUsers_Empty(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.User{}, nil)

	resp, err := svc.ListUsers(ctx)

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp.Users)
}

func TestListUsers_RepositoryError(t *testing.T) {
	svc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, pkgerrors.NewInternalError("failed to list users", errors.New("db down")))

	resp, err := svc.ListUsers(ctx)

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, pkgerrors.StatusOf(err))
}
