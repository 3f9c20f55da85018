package user

import (
	"context"
	"errors"
	"testing"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SetKYCApproved(ctx context.Context, id int, approved bool) (*User, error) {
	args := m.Called(ctx, id, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name          string
		req           RegisterRequest
		setupMock     func(*MockRepository)
		expectedError error
	}{
		{
			name: "defaults to customer role",
			req:  RegisterRequest{Name: "Ayesha", Email: "Ayesha@Example.com", Password: "password123"},
			setupMock: func(m *MockRepository) {
				m.On("EmailExists", mock.Anything, "ayesha@example.com").Return(false, nil)
				m.On("Create", mock.Anything, "Ayesha", "ayesha@example.com", mock.Anything, RoleCustomer).
					Return(&User{ID: 1, Name: "Ayesha", Email: "ayesha@example.com", Role: RoleCustomer}, nil)
			},
		},
		{
			name: "host registration",
			req:  RegisterRequest{Name: "Bilal", Email: "bilal@example.com", Password: "password123", Role: RoleHost},
			setupMock: func(m *MockRepository) {
				m.On("EmailExists", mock.Anything, "bilal@example.com").Return(false, nil)
				m.On("Create", mock.Anything, "Bilal", "bilal@example.com", mock.Anything, RoleHost).
					Return(&User{ID: 2, Name: "Bilal", Email: "bilal@example.com", Role: RoleHost}, nil)
			},
		},
		{
			name: "email already exists",
			req:  RegisterRequest{Name: "Test", Email: "existing@example.com", Password: "password123"},
			setupMock: func(m *MockRepository) {
				m.On("EmailExists", mock.Anything, "existing@example.com").Return(true, nil)
			},
			expectedError: ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			tt.setupMock(mockRepo)

			service := NewService(mockRepo, testSecret)
			u, accessToken, refreshToken, err := service.Register(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, u)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, u)

				claims, err := auth.ValidateToken(accessToken, testSecret)
				require.NoError(t, err)
				assert.Equal(t, u.ID, claims.UserID)
				assert.Equal(t, u.Role, claims.Role)
				assert.NotEmpty(t, refreshToken)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Login(t *testing.T) {
	passwordHash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	tests := []struct {
		name          string
		req           LoginRequest
		setupMock     func(*MockRepository)
		expectedError error
	}{
		{
			name: "successful login",
			req:  LoginRequest{Email: "test@example.com", Password: "password123"},
			setupMock: func(m *MockRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").
					Return(&User{ID: 1, Email: "test@example.com", PasswordHash: passwordHash, Role: RoleCustomer}, nil)
			},
		},
		{
			name: "wrong password",
			req:  LoginRequest{Email: "test@example.com", Password: "nope-nope"},
			setupMock: func(m *MockRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").
					Return(&User{ID: 1, Email: "test@example.com", PasswordHash: passwordHash, Role: RoleCustomer}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name: "user not found",
			req:  LoginRequest{Email: "notfound@example.com", Password: "password123"},
			setupMock: func(m *MockRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, ErrUserNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			tt.setupMock(mockRepo)

			service := NewService(mockRepo, testSecret)
			u, accessToken, refreshToken, err := service.Login(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, u)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, u)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_RefreshToken(t *testing.T) {
	t.Run("reloads the user", func(t *testing.T) {
		_, refresh, err := auth.GenerateTokens(auth.Identity{UserID: 7, Email: "h@example.com", Role: RoleCustomer}, testSecret)
		require.NoError(t, err)

		mockRepo := new(MockRepository)
		mockRepo.On("FindByID", mock.Anything, 7).
			Return(&User{ID: 7, Email: "h@example.com", Role: RoleHost}, nil)

		access, u, err := NewService(mockRepo, testSecret).RefreshToken(context.Background(), refresh)
		require.NoError(t, err)
		assert.Equal(t, 7, u.ID)

		claims, err := auth.ValidateToken(access, testSecret)
		require.NoError(t, err)
		assert.Equal(t, RoleHost, claims.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid token", func(t *testing.T) {
		mockRepo := new(MockRepository)

		_, _, err := NewService(mockRepo, testSecret).RefreshToken(context.Background(), "garbage")
		assert.Equal(t, ErrInvalidRefreshToken, err)
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestService_SetKYCApproved(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("SetKYCApproved", mock.Anything, 3, true).
		Return(&User{ID: 3, IsKYCApproved: true}, nil)
	mockRepo.On("SetKYCApproved", mock.Anything, 99, true).
		Return(nil, ErrUserNotFound)

	service := NewService(mockRepo, testSecret)

	u, err := service.SetKYCApproved(context.Background(), 3, true)
	require.NoError(t, err)
	assert.True(t, u.IsKYCApproved)

	_, err = service.SetKYCApproved(context.Background(), 99, true)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}
