package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/gestion-comercial/internal/application/apptest"
	"github.com/tu-usuario/gestion-comercial/internal/application/auth"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/domain"
	"github.com/tu-usuario/gestion-comercial/internal/domain/entity"
	"github.com/tu-usuario/gestion-comercial/pkg/jwt"
)

const testSecret = "secret-para-tests"

func newAuthUC(store *apptest.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(
		apptest.NewUserRepo(store),
		apptest.NewCompanyRepo(store),
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "gestion-comercial-test"},
	)
}

func TestRegisterUser_HasheaPasswordYAsignaRolPorDefecto(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Empresa Test")
	uc := newAuthUC(store)

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyID,
		Email:     "ana@test.com",
		Password:  "secreto123",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, resp.Role, "rol por defecto")
	assert.Equal(t, "active", resp.Status)

	// El hash persiste, nunca el password plano.
	user := store.Users[resp.ID]
	assert.NotEqual(t, "secreto123", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestRegisterUser_EmailDuplicadoEnLaEmpresa_RetornaError(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Empresa Test")
	uc := newAuthUC(store)

	_, err := uc.RegisterUser(dto.RegisterRequest{CompanyID: companyID, Email: "ana@test.com", Password: "x"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(dto.RegisterRequest{CompanyID: companyID, Email: "ana@test.com", Password: "y"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_EmpresaInexistente_RetornaErrNotFound(t *testing.T) {
	store := apptest.NewStore()
	uc := newAuthUC(store)

	_, err := uc.RegisterUser(dto.RegisterRequest{CompanyID: "no-existe", Email: "ana@test.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_CredencialesValidas_EmiteTokenConClaims(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Empresa Test")
	uc := newAuthUC(store)

	registered, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyID,
		Email:     "admin@test.com",
		Password:  "secreto123",
		Role:      entity.RoleAdmin,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "admin@test.com", Password: "secreto123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, tokenCompanyID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, companyID, tokenCompanyID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_PasswordIncorrecto_RetornaErrUnauthorized(t *testing.T) {
	store := apptest.NewStore()
	companyID := store.SeedCompany("Empresa Test")
	uc := newAuthUC(store)

	_, err := uc.RegisterUser(dto.RegisterRequest{CompanyID: companyID, Email: "ana@test.com", Password: "correcto"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@test.com", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente_RetornaErrUserNotFound(t *testing.T) {
	store := apptest.NewStore()
	uc := newAuthUC(store)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@test.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
