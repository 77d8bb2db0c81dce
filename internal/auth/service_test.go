package auth

import (
	"context"
	"testing"
	"time"

	"cinetix/internal/shared/config"
	"cinetix/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockRepository is a func-field mock of Repository.
type MockRepository struct {
	CreateUserFunc         func(ctx context.Context, user *users.User) error
	GetUserByEmailFunc     func(ctx context.Context, email string) (*users.User, error)
	GetUserByIDFunc        func(ctx context.Context, id string) (*users.User, error)
	UpdateUserPasswordFunc func(ctx context.Context, userID string, hashedPassword string) error
	EmailExistsFunc        func(ctx context.Context, email string) (bool, error)
}

func (m *MockRepository) CreateUser(ctx context.Context, user *users.User) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user)
	}
	user.ID = uuid.New()
	return nil
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) UpdateUserPassword(ctx context.Context, userID string, hashedPassword string) error {
	if m.UpdateUserPasswordFunc != nil {
		return m.UpdateUserPasswordFunc(ctx, userID, hashedPassword)
	}
	return nil
}

func (m *MockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.EmailExistsFunc != nil {
		return m.EmailExistsFunc(ctx, email)
	}
	return false, nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 7 * 24 * time.Hour,
		},
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the user role", func(t *testing.T) {
		var created *users.User
		repo := &MockRepository{
			CreateUserFunc: func(ctx context.Context, user *users.User) error {
				user.ID = uuid.New()
				created = user
				return nil
			},
		}
		svc := NewService(repo, testAuthConfig())

		resp, err := svc.Register(ctx, &RegisterRequest{
			FirstName: "Ava",
			LastName:  "Martin",
			Email:     "ava@cinetix.dev",
			Password:  "qwerty",
		})
		require.NoError(t, err)

		assert.Equal(t, users.RoleUser, created.Role)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("unknown role falls back to user", func(t *testing.T) {
		var created *users.User
		repo := &MockRepository{
			CreateUserFunc: func(ctx context.Context, user *users.User) error {
				user.ID = uuid.New()
				created = user
				return nil
			},
		}
		svc := NewService(repo, testAuthConfig())

		_, err := svc.Register(ctx, &RegisterRequest{
			FirstName: "Ava",
			LastName:  "Martin",
			Email:     "ava@cinetix.dev",
			Password:  "qwerty",
			Role:      "superuser",
		})
		require.NoError(t, err)
		assert.Equal(t, users.RoleUser, created.Role)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		var created *users.User
		repo := &MockRepository{
			CreateUserFunc: func(ctx context.Context, user *users.User) error {
				user.ID = uuid.New()
				created = user
				return nil
			},
		}
		svc := NewService(repo, testAuthConfig())

		_, err := svc.Register(ctx, &RegisterRequest{
			FirstName: "Ava",
			LastName:  "Martin",
			Email:     "ava@cinetix.dev",
			Password:  "qwerty",
		})
		require.NoError(t, err)

		assert.NotEqual(t, "qwerty", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("qwerty")))
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := &MockRepository{
			EmailExistsFunc: func(ctx context.Context, email string) (bool, error) { return true, nil },
		}
		svc := NewService(repo, testAuthConfig())

		_, err := svc.Register(ctx, &RegisterRequest{
			FirstName: "Ava",
			LastName:  "Martin",
			Email:     "ava@cinetix.dev",
			Password:  "qwerty",
		})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := &MockRepository{
		GetUserByEmailFunc: func(ctx context.Context, email string) (*users.User, error) {
			return &users.User{
				ID:       uuid.New(),
				Email:    email,
				Password: string(hashed),
				Role:     users.RoleUser,
			}, nil
		},
	}
	svc := NewService(repo, testAuthConfig())

	_, err = svc.Login(ctx, &LoginRequest{Email: "ava@cinetix.dev", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := &MockRepository{
		CreateUserFunc: func(ctx context.Context, user *users.User) error {
			user.ID = userID
			return nil
		},
	}
	svc := NewService(repo, testAuthConfig())

	resp, err := svc.Register(ctx, &RegisterRequest{
		FirstName: "Ava",
		LastName:  "Martin",
		Email:     "ava@cinetix.dev",
		Password:  "qwerty",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "access", claims.Type)

	refreshClaims, err := svc.ValidateToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.Type)
}
