package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/returns-api/internal/application/auth"
	"github.com/jhoicas/returns-api/internal/application/dto"
	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/returns-api/pkg/jwt"
)

const secret = "auth-test-secret"

func newAuth() (*auth.AuthUseCase, *memory.Store) {
	store := memory.New()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"}), store
}

func TestRegisterYLogin(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Local ", Password: "clave-segura", Name: "Ana", Role: entity.RoleBodeguero})
	require.NoError(t, err)
	assert.Equal(t, "ana@local", u.Email)
	assert.Equal(t, entity.RoleBodeguero, u.Role)
	assert.Equal(t, "active", u.Status)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@local", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	userID, name, role, err := pkgjwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, "Ana", name, "el token lleva la etiqueta que se estampa en returned_by")
	assert.Equal(t, entity.RoleBodeguero, role)
}

func TestRegister_RolPorDefectoYEmailDuplicado(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "b@local", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, u.Role)
	assert.Equal(t, "b@local", u.Name)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "B@local", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_Rechazos(t *testing.T) {
	uc, store := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "c@local", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "c@local", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@local", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u, err := store.Users().GetByEmail(ctx, "c@local")
	require.NoError(t, err)
	u.Status = "suspended"
	store.AddUser(*u)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "c@local", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
