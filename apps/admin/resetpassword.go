package main

import (
	"context"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/user"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{Email: core.CleanString(email, true /* lower */)})
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateUser(ctx, user.User{ID: usr.ID, PasswordHash: usr.PasswordHash}, nil); err != nil {
		return err
	}
	return nil
}
