package user

import (
	"context"
	"crypto/rand"
	"math/big"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core"
)

var (
	// errors
	ErrNotFound           = errors.New("Usuário não encontrado")
	ErrNotApproved        = errors.New("Usuário não encontrado ou não aprovado")
	ErrExists             = errors.New("Usuário já existe com este email ou CPF")
	ErrInvalidCredentials = errors.New("Credenciais inválidas ou usuário não aprovado")

	// validation messages
	msgAllFieldsRequired = "Todos os campos são obrigatórios"
	msgUpdateRequired    = "Nome, email e role são obrigatórios"
	msgLoginRequired     = "Email e senha são obrigatórios"
	msgEmailRequired     = "Email é obrigatório"

	tempPasswordLen     = 8
	tempPasswordCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) error
		// GetUser returns ErrNotFound when no User matches the filter.
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		QueryUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		// UpdateUser returns ErrNotFound when id matches no User.
		UpdateUser(ctx context.Context, id string, changes core.Changes) error
		// DeleteUser returns ErrNotFound when id matches no User.
		DeleteUser(ctx context.Context, id string) error
		CountUsers(ctx context.Context) (int64, error)
	}

	// UnitNamer resolves the display name of a Unit for the User's name snapshot.
	UnitNamer interface {
		// UnitName returns "" when the Unit does not exist.
		UnitName(ctx context.Context, id string) (string, error)
	}

	Service struct {
		repo    Repository
		units   UnitNamer
		creds   CredentialVerifier
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, units UnitNamer, creds CredentialVerifier, mailSvc core.EmailService) *Service {
	return &Service{
		repo:    repo,
		units:   units,
		creds:   creds,
		mailSvc: mailSvc,
	}
}

func (svc *Service) notFound(err error, notFoundErr error) error {
	if errors.Cause(err) == ErrNotFound {
		return core.NewNotFoundError(notFoundErr)
	}
	return err
}

// Login returns the approved User matching the credentials.
func (svc *Service) Login(ctx context.Context, lc LoginCredentials) (User, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{Email: lc.Email, Status: StatusApproved})
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, core.NewAuthError(ErrInvalidCredentials)
		}
		return User{}, errors.Wrap(err, "getting user by email")
	}
	if !svc.creds.Verify(usr.Password, lc.Password) {
		return User{}, core.NewAuthError(ErrInvalidCredentials)
	}
	return usr, nil
}

func (svc *Service) checkUniqueness(ctx context.Context, email, cpf string) error {
	for _, filter := range []GetFilter{{Email: email}, {CPF: cpf}} {
		_, err := svc.repo.GetUser(ctx, filter)
		if err == nil {
			return core.NewConflictError(ErrExists)
		}
		if errors.Cause(err) != ErrNotFound {
			return errors.Wrap(err, "checking user uniqueness")
		}
	}
	return nil
}

func (svc *Service) unitSnapshot(ctx context.Context, unitID string) (*string, *string, error) {
	id := core.StringPtr(unitID)
	if id == nil {
		return nil, nil, nil
	}
	name, err := svc.units.UnitName(ctx, *id)
	if err != nil {
		return nil, nil, errors.Wrap(err, "getting unit name")
	}
	return id, core.StringPtr(name), nil
}

func (svc *Service) create(ctx context.Context, nu NewUser, status string) (User, error) {
	if err := svc.checkUniqueness(ctx, nu.Email, nu.CPF); err != nil {
		return User{}, err
	}
	unitID, unit, err := svc.unitSnapshot(ctx, nu.UnitID)
	if err != nil {
		return User{}, err
	}
	pwd, err := svc.creds.Encode(nu.Password)
	if err != nil {
		return User{}, errors.Wrap(err, "encoding password")
	}

	usr := User{
		ID:        core.NewID(),
		Name:      nu.Name,
		Email:     nu.Email,
		CPF:       nu.CPF,
		Password:  pwd,
		Role:      nu.Role,
		UnitID:    unitID,
		Unit:      unit,
		Status:    status,
		CreatedAt: core.Now(),
	}
	if err := svc.repo.CreateUser(ctx, usr); err != nil {
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

// Register creates a pending User that must be approved before logging in.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	return svc.create(ctx, nu, StatusPending)
}

// Create creates an approved User.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	return svc.create(ctx, nu, StatusApproved)
}

// ResetPassword replaces the password of an approved User with a random temporary one,
// emails it to them and returns it.
func (svc *Service) ResetPassword(ctx context.Context, email string) (string, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{Email: email, Status: StatusApproved})
	if err != nil {
		return "", svc.notFound(errors.Wrap(err, "getting user by email"), ErrNotApproved)
	}

	tmpPwd, err := generateTempPassword()
	if err != nil {
		return "", errors.Wrap(err, "generating temporary password")
	}
	pwd, err := svc.creds.Encode(tmpPwd)
	if err != nil {
		return "", errors.Wrap(err, "encoding password")
	}
	changes := core.Changes{
		"password":       pwd,
		"password_reset": true,
		"status":         StatusApproved,
		"updated_at":     core.Now(),
	}
	if err := svc.repo.UpdateUser(ctx, usr.ID, changes); err != nil {
		return "", svc.notFound(errors.Wrap(err, "updating user password"), ErrNotApproved)
	}

	svc.sendEmail(usr, "password_reset", "Senha temporária", map[string]interface{}{
		"Name":         usr.Name,
		"Email":        usr.Email,
		"TempPassword": tmpPwd,
	})
	return tmpPwd, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]User, error) {
	users, err := svc.repo.QueryUsers(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	usr, err := svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email)})
	if err != nil {
		return User{}, svc.notFound(errors.Wrap(err, "getting user by email"), ErrNotFound)
	}
	return usr, nil
}

// Approve lets a pending User log in. Approving an approved User refreshes its approval time.
func (svc *Service) Approve(ctx context.Context, id string) error {
	usr, err := svc.repo.GetUser(ctx, GetFilter{ID: id})
	if err != nil {
		return svc.notFound(errors.Wrap(err, "getting user by id"), ErrNotFound)
	}
	changes := core.Changes{
		"status":      StatusApproved,
		"approved_at": core.Now(),
	}
	if err := svc.repo.UpdateUser(ctx, id, changes); err != nil {
		return svc.notFound(errors.Wrap(err, "approving user"), ErrNotFound)
	}

	if !usr.IsApproved() {
		svc.sendEmail(usr, "account_approved", "Cadastro aprovado", map[string]interface{}{
			"Name":  usr.Name,
			"Email": usr.Email,
		})
	}
	return nil
}

// Reject deletes the User.
func (svc *Service) Reject(ctx context.Context, id string) error {
	return svc.Delete(ctx, id)
}

// Update overwrites name, email and role, and the unit when unit_id is provided.
// Uniqueness of email is not re-checked.
func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) error {
	changes := core.Changes{
		"name":       uu.Name,
		"email":      uu.Email,
		"role":       uu.Role,
		"updated_at": core.Now(),
	}
	if uu.UnitID != nil {
		unitID, unit, err := svc.unitSnapshot(ctx, *uu.UnitID)
		if err != nil {
			return err
		}
		changes["unit_id"] = unitID
		changes["unit"] = unit
	}
	if err := svc.repo.UpdateUser(ctx, id, changes); err != nil {
		return svc.notFound(errors.Wrap(err, "updating user"), ErrNotFound)
	}
	return nil
}

// SetPassword replaces the password of the User.
func (svc *Service) SetPassword(ctx context.Context, id, pwd string) error {
	enc, err := svc.creds.Encode(pwd)
	if err != nil {
		return errors.Wrap(err, "encoding password")
	}
	changes := core.Changes{
		"password":   enc,
		"updated_at": core.Now(),
	}
	if err := svc.repo.UpdateUser(ctx, id, changes); err != nil {
		return svc.notFound(errors.Wrap(err, "updating user password"), ErrNotFound)
	}
	return nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.repo.DeleteUser(ctx, id); err != nil {
		return svc.notFound(errors.Wrap(err, "deleting user"), ErrNotFound)
	}
	return nil
}

func (svc *Service) Count(ctx context.Context) (int64, error) {
	return svc.repo.CountUsers(ctx)
}

func (svc *Service) sendEmail(usr User, tmpl, subject string, data map[string]interface{}) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      subject,
		TemplateName: tmpl,
		TemplateData: data,
	})
}

func generateTempPassword() (string, error) {
	max := big.NewInt(int64(len(tempPasswordCharset)))
	pwd := make([]byte, tempPasswordLen)
	for i := range pwd {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		pwd[i] = tempPasswordCharset[n.Int64()]
	}
	return string(pwd), nil
}
