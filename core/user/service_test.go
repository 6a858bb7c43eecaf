package user_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/core/user"
	emailsvc "github.com/chamadaweb/chamada/services/email"
	logsvc "github.com/chamadaweb/chamada/services/logger"
	"github.com/chamadaweb/chamada/storage/database/docrepos"
	dummydb "github.com/chamadaweb/chamada/storage/database/dummy"
	testutil "github.com/chamadaweb/chamada/tests"
)

type fixture struct {
	svc     *user.Service
	repo    user.Repository
	schools school.Repository
	db      *dummydb.DB
	mail    *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T, scheme string) fixture {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	db := dummydb.Open(testutil.OpenDB())
	repo := docrepos.NewUserRepository(db)
	schools := docrepos.NewSchoolRepository(db)
	mail := emailsvc.NewConsoleServiceMock(conf, logger)
	svc := user.NewService(repo, school.NewService(schools), user.NewCredentialVerifier(scheme), mail)
	return fixture{svc: svc, repo: repo, schools: schools, db: db, mail: mail}
}

func TestService_bcrypt(t *testing.T) {
	f := setup(t, core.PasswordSchemeBcrypt)
	ctx := context.Background()

	usr, err := f.svc.Create(ctx, user.NewUser{Name: "Ana", Email: "ana@x.com", CPF: "1", Password: "123456", Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.NotEqual(t, "123456", usr.Password)

	_, err = f.svc.Login(ctx, user.LoginCredentials{Email: "ana@x.com", Password: "123456"})
	require.NoError(t, err)

	tmp, err := f.svc.ResetPassword(ctx, "ana@x.com")
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, user.LoginCredentials{Email: "ana@x.com", Password: tmp})
	require.NoError(t, err)

	stored, err := f.repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.True(t, stored.PasswordReset)
	assert.NotEqual(t, tmp, stored.Password)
}

func TestService_Login(t *testing.T) {
	f := setup(t, core.PasswordSchemePlain)
	ctx := context.Background()
	testutil.CreateUser(t, f.repo, "Ana", "ana@x.com", "1", "p", user.RoleAdmin, user.StatusApproved)

	_, err := f.svc.Login(ctx, user.LoginCredentials{Email: "ana@x.com", Password: "x"})
	var authErr *core.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, user.ErrInvalidCredentials, authErr.Err)

	f.db.FailOn(dummydb.OpFindOne, core.CollUsers, errors.New("boom"))
	_, err = f.svc.Login(ctx, user.LoginCredentials{Email: "ana@x.com", Password: "p"})
	assert.False(t, errors.As(err, &authErr), "storage failures are not auth failures")
}

func TestService_create(t *testing.T) {
	f := setup(t, core.PasswordSchemePlain)
	ctx := context.Background()
	unit := testutil.CreateUnit(t, f.schools, "Unidade Sul")

	usr, err := f.svc.Register(ctx, user.NewUser{Name: "Ana", Email: "ana@x.com", CPF: "1", Password: "p", Role: user.RoleMonitor, UnitID: unit.ID})
	require.NoError(t, err)
	assert.Equal(t, user.StatusPending, usr.Status)
	require.NotNil(t, usr.UnitID)
	assert.Equal(t, unit.ID, *usr.UnitID)
	require.NotNil(t, usr.Unit)
	assert.Equal(t, "Unidade Sul", *usr.Unit)

	usr, err = f.svc.Create(ctx, user.NewUser{Name: "Bia", Email: "bia@x.com", CPF: "2", Password: "p", Role: user.RoleMonitor})
	require.NoError(t, err)
	assert.Equal(t, user.StatusApproved, usr.Status)
	assert.Nil(t, usr.UnitID)
	assert.Nil(t, usr.Unit)

	tests := []struct {
		name  string
		email string
		cpf   string
	}{
		{name: "email taken", email: "ana@x.com", cpf: "9"},
		{name: "cpf taken", email: "caio@x.com", cpf: "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, user.NewUser{Name: "X", Email: tt.email, CPF: tt.cpf, Password: "p", Role: user.RoleAdmin})
			var conflict *core.ConflictError
			require.True(t, errors.As(err, &conflict), "err = %v", err)
			assert.Equal(t, user.ErrExists, conflict.Err)
		})
	}
}

func TestService_Approve(t *testing.T) {
	f := setup(t, core.PasswordSchemePlain)
	ctx := context.Background()
	f.mail.Reset()
	usr := testutil.CreateUser(t, f.repo, "Ana", "ana@x.com", "1", "p", user.RoleAdmin, user.StatusPending)

	require.NoError(t, f.svc.Approve(ctx, usr.ID))
	require.NoError(t, f.svc.Approve(ctx, usr.ID))
	assert.Len(t, f.mail.Sent(), 1)

	err := f.svc.Approve(ctx, "nope")
	assert.True(t, core.IsNotFound(err))
	assert.EqualError(t, err, user.ErrNotFound.Error())
}

func TestService_Update(t *testing.T) {
	f := setup(t, core.PasswordSchemePlain)
	ctx := context.Background()
	usr := testutil.CreateUser(t, f.repo, "Ana", "ana@x.com", "1", "p", user.RoleAdmin, user.StatusApproved)

	// unit_id omitted: unit untouched
	require.NoError(t, f.svc.Update(ctx, usr.ID, user.UpdateUser{Name: "Ana C", Email: "ana@x.com", Role: user.RoleMonitor}))
	got, err := f.repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ana C", got.Name)
	assert.Nil(t, got.UnitID)

	// unknown unit: id kept, name snapshot empty
	nope := "nope"
	require.NoError(t, f.svc.Update(ctx, usr.ID, user.UpdateUser{Name: "Ana C", Email: "ana@x.com", Role: user.RoleMonitor, UnitID: &nope}))
	got, err = f.repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	require.NotNil(t, got.UnitID)
	assert.Equal(t, "nope", *got.UnitID)
	assert.Nil(t, got.Unit)
}

func TestNewUser_Validate(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	tests := []struct {
		name    string
		nu      user.NewUser
		wantErr string
	}{
		{name: "ok", nu: user.NewUser{Name: " Ana ", Email: " ana@x.com ", CPF: "1", Password: "p", Role: " admin "}},
		{name: "missing", nu: user.NewUser{Name: "Ana"}, wantErr: "Todos os campos são obrigatórios"},
		{name: "blank", nu: user.NewUser{Name: "  ", Email: "a", CPF: "1", Password: "p", Role: "admin"}, wantErr: "Todos os campos são obrigatórios"},
		{
			name:    "unknown role",
			nu:      user.NewUser{Name: "Ana", Email: "a", CPF: "1", Password: "p", Role: "boss"},
			wantErr: "role deve ser admin, instrutor, pedagogo ou monitor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := tt.nu
			err := nu.Validate(validate, translator)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Ana", nu.Name)
				assert.Equal(t, "ana@x.com", nu.Email)
				assert.Equal(t, user.RoleAdmin, nu.Role)
				return
			}
			var vErr *core.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantErr, vErr.Error())
		})
	}
}

func TestLoginCredentials_Validate(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	f := setup(t, core.PasswordSchemePlain)
	ctx := context.Background()
	testutil.CreateUser(t, f.repo, "Ana", "ana@x.com", "1", "p", user.RoleAdmin, user.StatusApproved)

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "exact", email: "ana@x.com"},
		{name: "surrounding spaces", email: "  ana@x.com\t"},
		{name: "case is kept", email: "Ana@x.com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := user.LoginCredentials{Email: tt.email, Password: "p"}
			require.NoError(t, lc.Validate(validate, translator))
			_, err := f.svc.Login(ctx, lc)
			if tt.wantErr {
				var authErr *core.AuthError
				assert.True(t, errors.As(err, &authErr))
				return
			}
			assert.NoError(t, err)
		})
	}
}
