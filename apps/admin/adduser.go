package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/user"
)

// addUser creates an approved user.User, or sets the password of the existing one and approves it.
func (cli *commandLine) addUser(nu user.NewUser) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByEmail(ctx, nu.Email)
	switch {
	case err == nil:
		if err := cli.usrSvc.SetPassword(ctx, usr.ID, nu.Password); err != nil {
			return err
		}
		if err := cli.usrSvc.Approve(ctx, usr.ID); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "user %s updated\n", usr.Email)
		return nil
	case !core.IsNotFound(err):
		return err
	}

	if err := nu.Validate(cli.validate, cli.translator); err != nil {
		return err
	}
	if usr, err = cli.usrSvc.Create(ctx, nu); err != nil {
		return errors.Wrap(err, "creating user")
	}
	fmt.Fprintf(cli.out, "user %s created\n", usr.Email)
	return nil
}
