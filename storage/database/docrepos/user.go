package docrepos

import (
	"context"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/user"
)

type userRepository struct {
	store core.Store
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(store core.Store) *userRepository {
	return &userRepository{store: store}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) error {
	return repo.store.InsertOne(ctx, core.CollUsers, usr)
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	f := core.Filter{}
	if filter.ID != "" {
		f["id"] = filter.ID
	}
	if filter.Email != "" {
		f["email"] = filter.Email
	}
	if filter.CPF != "" {
		f["cpf"] = filter.CPF
	}
	if filter.Status != "" && len(f) > 0 {
		f["status"] = filter.Status
	}

	var usr user.User
	if err := getOne(ctx, repo.store, core.CollUsers, f, &usr, user.ErrNotFound); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	f := core.Filter{}
	if filter.Status != "" {
		f["status"] = filter.Status
	}
	var users []user.User
	if err := repo.store.Find(ctx, core.CollUsers, f, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, id string, changes core.Changes) error {
	return updateByID(ctx, repo.store, core.CollUsers, id, changes, user.ErrNotFound)
}

func (repo userRepository) DeleteUser(ctx context.Context, id string) error {
	return deleteByID(ctx, repo.store, core.CollUsers, id, user.ErrNotFound)
}

func (repo userRepository) CountUsers(ctx context.Context) (int64, error) {
	return repo.store.CountDocuments(ctx, core.CollUsers, nil)
}
