package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/chamadaweb/chamada/apps/api/echo"
	"github.com/chamadaweb/chamada/core/user"
	testutil "github.com/chamadaweb/chamada/tests"
)

func Test_userApi_query(t *testing.T) {
	testutil.ResetDB(t, db)

	ana := testutil.CreateUser(t, usrRepo, "Ana", "ana@x.com", "1", "p", user.RoleAdmin, user.StatusApproved)
	bia := testutil.CreateUser(t, usrRepo, "Bia", "bia@x.com", "2", "p", user.RoleMonitor, user.StatusPending)
	caio := testutil.CreateUser(t, usrRepo, "Caio", "caio@x.com", "3", "p", user.RoleInstructor, user.StatusApproved)

	runTests(t, []httpTest{
		{
			name: "approved", method: http.MethodGet, path: "/api/users",
			wantData: marchallObj(t, echoapi.UsersResponse{Users: []user.User{ana, caio}}),
		},
		{
			name: "pending", method: http.MethodGet, path: "/api/users/pending",
			wantData: marchallObj(t, echoapi.UsersResponse{Users: []user.User{bia}}),
		},
	})

	testutil.ResetDB(t, db)
	runTests(t, []httpTest{
		{name: "empty", method: http.MethodGet, path: "/api/users", wantData: []byte(`{"users":[]}`)},
	})
}

func Test_userApi_approve(t *testing.T) {
	testutil.ResetDB(t, db)
	mailSvc.Reset()

	pending := testutil.CreateUser(t, usrRepo, "Bia", "bia@x.com", "2", "p", user.RoleMonitor, user.StatusPending)

	runTests(t, []httpTest{
		{
			name: "unknown user", method: http.MethodPost, path: "/api/users/approve/nope",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Usuário não encontrado"}),
		},
		{
			name: "pending user", method: http.MethodPost, path: "/api/users/approve/" + pending.ID,
			wantData: marchallObj(t, echoapi.MessageResponse{Message: "Usuário aprovado com sucesso"}),
		},
		{
			name: "twice", method: http.MethodPost, path: "/api/users/approve/" + pending.ID,
			wantData: marchallObj(t, echoapi.MessageResponse{Message: "Usuário aprovado com sucesso"}),
		},
	})

	usr, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: pending.ID})
	require.NoError(t, err)
	assert.Equal(t, user.StatusApproved, usr.Status)
	assert.NotNil(t, usr.ApprovedAt)

	// only the first approval is notified
	sent := mailSvc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "account_approved", sent[0].TemplateName)

	rec := serve(httpTest{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   marchallObj(t, user.LoginCredentials{Email: pending.Email, Password: "p"}),
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_userApi_reject(t *testing.T) {
	testutil.ResetDB(t, db)

	usr := testutil.CreateUser(t, usrRepo, "Bia", "bia@x.com", "2", "p", user.RoleMonitor, user.StatusApproved)

	runTests(t, []httpTest{
		{
			name: "unknown user", method: http.MethodPost, path: "/api/users/reject/nope",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Usuário não encontrado"}),
		},
		{
			name: "user removed", method: http.MethodPost, path: "/api/users/reject/" + usr.ID,
			wantData: marchallObj(t, echoapi.MessageResponse{Message: "Usuário rejeitado e removido do sistema"}),
		},
		{
			name: "cannot log in anymore", method: http.MethodPost, path: "/api/auth/login",
			body:     marchallObj(t, user.LoginCredentials{Email: usr.Email, Password: "p"}),
			wantCode: http.StatusUnauthorized, wantErr: "Credenciais inválidas ou usuário não aprovado",
		},
	})

	n, err := usrRepo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func Test_userApi_create(t *testing.T) {
	testutil.ResetDB(t, db)
	_ = testutil.CreateUser(t, usrRepo, "Ana", "ana@x.com", "1", "p", user.RoleAdmin, user.StatusApproved)

	runTests(t, []httpTest{
		{name: "required fields", method: http.MethodPost, path: "/api/users", wantCode: http.StatusBadRequest, wantErr: "Todos os campos são obrigatórios"},
		{
			name: "email taken", method: http.MethodPost, path: "/api/users",
			body:     marchallObj(t, user.NewUser{Name: "Ana 2", Email: "ana@x.com", CPF: "5", Password: "p", Role: user.RoleMonitor}),
			wantCode: http.StatusConflict, wantErr: "Usuário já existe com este email ou CPF",
		},
	})

	rec := serve(httpTest{
		method: http.MethodPost,
		path:   "/api/users",
		body:   marchallObj(t, user.NewUser{Name: "Caio", Email: "caio@x.com", CPF: "3", Password: "p", Role: user.RolePedagogue}),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp echoapi.UserResponse
	unmarchall(t, rec, &resp)
	assert.Equal(t, "Usuário criado com sucesso", resp.Message)
	assert.Equal(t, user.StatusApproved, resp.User.Status)
	assert.Equal(t, user.RolePedagogue, resp.User.Role)

	// created by an admin: may log in right away
	rec = serve(httpTest{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   marchallObj(t, user.LoginCredentials{Email: "caio@x.com", Password: "p"}),
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_userApi_update(t *testing.T) {
	testutil.ResetDB(t, db)
	unit := testutil.CreateUnit(t, schoolRepo, "Unidade Norte")
	usr := testutil.CreateUser(t, usrRepo, "Bia", "bia@x.com", "2", "p", user.RoleMonitor, user.StatusApproved)

	unitID := unit.ID
	data := user.UpdateUser{Name: "Beatriz", Email: "beatriz@x.com", Role: user.RoleInstructor, UnitID: &unitID}

	runTests(t, []httpTest{
		{
			name: "required fields", method: http.MethodPut, path: "/api/users/" + usr.ID,
			body:     marchallObj(t, user.UpdateUser{Name: "Beatriz"}),
			wantCode: http.StatusBadRequest, wantErr: "Nome, email e role são obrigatórios",
		},
		{
			name: "unknown user", method: http.MethodPut, path: "/api/users/nope", body: marchallObj(t, data),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Usuário não encontrado"}),
		},
		{
			name: "updated", method: http.MethodPut, path: "/api/users/" + usr.ID, body: marchallObj(t, data),
			wantData: marchallObj(t, echoapi.MessageResponse{Message: "Usuário atualizado com sucesso"}),
		},
	})

	got, err := usrRepo.GetUser(context.Background(), user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", got.Name)
	assert.Equal(t, "beatriz@x.com", got.Email)
	assert.Equal(t, user.RoleInstructor, got.Role)
	require.NotNil(t, got.Unit)
	assert.Equal(t, unit.Name, *got.Unit)
	assert.Equal(t, usr.CPF, got.CPF)
	assert.Equal(t, usr.Password, got.Password)
	assert.NotNil(t, got.UpdatedAt)
}

func Test_userApi_destroy(t *testing.T) {
	testutil.ResetDB(t, db)
	usr := testutil.CreateUser(t, usrRepo, "Bia", "bia@x.com", "2", "p", user.RoleMonitor, user.StatusApproved)

	runTests(t, []httpTest{
		{
			name: "deleted", method: http.MethodDelete, path: "/api/users/" + usr.ID,
			wantData: marchallObj(t, echoapi.MessageResponse{Message: "Usuário excluído com sucesso"}),
		},
		{
			name: "already deleted", method: http.MethodDelete, path: "/api/users/" + usr.ID,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Usuário não encontrado"}),
		},
	})
}
