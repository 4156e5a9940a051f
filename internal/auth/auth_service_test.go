package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/VISWAJIT-PS/fieldtrack-pro/internal/auth"
	autherrors "github.com/VISWAJIT-PS/fieldtrack-pro/internal/auth/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, user *auth.User) error
	getByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (f *fakeRepo) Create(ctx context.Context, user *auth.User) error {
	return f.createFn(ctx, user)
}
func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return f.getByEmailFn(ctx, email)
}
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return f.getByIDFn(ctx, id)
}

func testUser(t *testing.T, password string) *auth.User {
	t.Helper()
	pw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	return &auth.User{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		Email:      "field@example.com",
		Password:   string(pw),
		Role:       "employee",
		IsActive:   true,
	}
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	user := testUser(t, "password123")
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, errors.New("record not found")
		},
	}
	service := auth.NewService(repo)

	t.Run("success", func(t *testing.T) {
		token, refreshToken, resp, err := service.Login(ctx, user.Email, "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, user.Email, resp.Email)
		assert.Equal(t, user.EmployeeID.String(), resp.EmployeeID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := service.Login(ctx, user.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, err := service.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestService_RefreshToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	user := testUser(t, "password123")
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		},
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, errors.New("record not found")
		},
	}
	service := auth.NewService(repo)

	_, refreshToken, _, err := service.Login(ctx, user.Email, "password123")
	assert.NoError(t, err)

	t.Run("rotates both tokens", func(t *testing.T) {
		newAccess, newRefresh, resp, err := service.RefreshToken(ctx, refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, user.ID.String(), resp.ID)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, _, _, err := service.RefreshToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestService_Register(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	admin := auth.Session{UserID: uuid.NewString(), EmployeeID: uuid.NewString(), Role: "admin"}
	req := auth.RegisterRequest{
		EmployeeID: uuid.NewString(),
		Email:      "new@example.com",
		Password:   "password123",
	}

	t.Run("defaults role to employee and hashes password", func(t *testing.T) {
		var created *auth.User
		repo := &fakeRepo{
			createFn: func(ctx context.Context, user *auth.User) error {
				created = user
				return nil
			},
		}
		service := auth.NewService(repo)

		resp, err := service.Register(ctx, admin, req)

		assert.NoError(t, err)
		assert.Equal(t, "employee", resp.Role)
		assert.NotEqual(t, req.Password, created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte(req.Password)))
	})

	t.Run("non-admin rejected", func(t *testing.T) {
		repo := &fakeRepo{
			createFn: func(ctx context.Context, user *auth.User) error {
				t.Fatal("create must not run for a non-admin caller")
				return nil
			},
		}
		service := auth.NewService(repo)

		_, err := service.Register(ctx, auth.Session{Role: "employee"}, req)
		assert.ErrorIs(t, err, autherrors.ErrForbidden)
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		repo := &fakeRepo{
			createFn: func(ctx context.Context, user *auth.User) error {
				return errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`)
			},
		}
		service := auth.NewService(repo)

		_, err := service.Register(ctx, admin, req)
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestService_GetMe(t *testing.T) {
	ctx := context.Background()

	user := testUser(t, "password123")
	repo := &fakeRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, errors.New("record not found")
		},
	}
	service := auth.NewService(repo)

	t.Run("success", func(t *testing.T) {
		resp, err := service.GetMe(ctx, user.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, user.Email, resp.Email)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := service.GetMe(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.GetMe(ctx, uuid.NewString())
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
