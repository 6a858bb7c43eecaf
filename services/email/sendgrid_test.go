package emailsvc

import (
	"encoding/json"
	"net/mail"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamadaweb/chamada/core"
)

type loggedError struct {
	msg  string
	args []interface{}
}

type errorLogger struct {
	errs chan loggedError
}

func (l errorLogger) Debug(string, ...interface{}) {}
func (l errorLogger) Info(string, ...interface{})  {}
func (l errorLogger) Warn(string, ...interface{})  {}
func (l errorLogger) Fatal(string, ...interface{}) {}

func (l errorLogger) Error(msg string, args ...interface{}) {
	l.errs <- loggedError{msg: msg, args: args}
}

type fakeAPI struct {
	reqs []rest.Request
	res  *rest.Response
	err  error
}

func (f *fakeAPI) call(req rest.Request) (*rest.Response, error) {
	f.reqs = append(f.reqs, req)
	return f.res, f.err
}

func resetMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: "Ana", Address: "ana@x.com"}},
		Subject:      "Senha temporária",
		TemplateName: "password_reset",
		TemplateData: map[string]interface{}{"Name": "Ana", "Email": "ana@x.com", "TempPassword": "abc12345"},
	}
}

func Test_sendgridService_sendMessage(t *testing.T) {
	conf := core.NewTestConfig()

	tests := []struct {
		name    string
		api     *fakeAPI
		msg     *core.EmailMessage
		wantErr string
		wantReq bool
	}{
		{name: "sent", api: &fakeAPI{res: &rest.Response{StatusCode: 202}}, msg: resetMessage(), wantReq: true},
		{
			name:    "rejected",
			api:     &fakeAPI{res: &rest.Response{StatusCode: 401, Body: "bad key\n"}},
			msg:     resetMessage(),
			wantErr: "sendgrid status 401: bad key",
			wantReq: true,
		},
		{
			name:    "unreachable",
			api:     &fakeAPI{err: errors.New("dial tcp: timeout")},
			msg:     resetMessage(),
			wantErr: "calling sendgrid: dial tcp: timeout",
			wantReq: true,
		},
		{
			name:    "unknown template",
			api:     &fakeAPI{},
			msg:     &core.EmailMessage{To: []mail.Address{{Address: "ana@x.com"}}, TemplateName: "nope"},
			wantErr: `rendering email: email template "nope" not found`,
		},
		{name: "no recipients", api: &fakeAPI{}, msg: &core.EmailMessage{BodyStr: "oi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newSendgridService(conf, errorLogger{}, tt.api.call)
			err := svc.sendMessage(tt.msg)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if !tt.wantReq {
				assert.Empty(t, tt.api.reqs)
				return
			}
			require.Len(t, tt.api.reqs, 1)
			assert.Equal(t, "POST", string(tt.api.reqs[0].Method))
			assert.Equal(t, "https://api.sendgrid.com/v3/mail/send", tt.api.reqs[0].BaseURL)
		})
	}
}

func Test_sendgridService_prepare(t *testing.T) {
	api := &fakeAPI{res: &rest.Response{StatusCode: 202}}
	svc := newSendgridService(core.NewTestConfig(), errorLogger{}, api.call)
	require.NoError(t, svc.sendMessage(resetMessage()))
	require.Len(t, api.reqs, 1)

	var body struct {
		From             struct{ Email string } `json:"from"`
		Categories       []string               `json:"categories"`
		Personalizations []struct {
			Subject string `json:"subject"`
			To      []struct {
				Email string `json:"email"`
			} `json:"to"`
		} `json:"personalizations"`
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(api.reqs[0].Body, &body))
	assert.Equal(t, "noreply@localhost", body.From.Email)
	assert.Equal(t, []string{"password_reset"}, body.Categories)
	require.Len(t, body.Personalizations, 1)
	assert.Equal(t, "[Sistema de Chamada - IOS] Senha temporária", body.Personalizations[0].Subject)
	require.Len(t, body.Personalizations[0].To, 1)
	assert.Equal(t, "ana@x.com", body.Personalizations[0].To[0].Email)
	require.Len(t, body.Content, 2)
	assert.Equal(t, "text/plain", body.Content[0].Type)
	assert.Contains(t, body.Content[0].Value, "abc12345")
	assert.Equal(t, "text/html", body.Content[1].Type)
}

func Test_sendgridService_SendMessages_logsFailures(t *testing.T) {
	logger := errorLogger{errs: make(chan loggedError, 1)}
	api := &fakeAPI{res: &rest.Response{StatusCode: 500, Body: "oops"}}
	svc := newSendgridService(core.NewTestConfig(), logger, api.call)

	svc.SendMessages(resetMessage())

	select {
	case got := <-logger.errs:
		assert.Equal(t, "sending email", got.msg)
		require.Len(t, got.args, 2)
		assert.EqualError(t, got.args[0].(error), "sendgrid status 500: oops")
		assert.Equal(t, map[string]interface{}{"template": "password_reset", "to": `"Ana" <ana@x.com>`}, got.args[1])
	case <-time.After(5 * time.Second):
		t.Fatal("send failure was not logged")
	}
}
