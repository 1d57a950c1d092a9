package main

import (
	"context"

	"github.com/trezcool/academia/core/user"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByUsername(ctx, uname)
	if err != nil {
		return err
	}
	cp := user.ChangePassword{Password: pwd, PasswordConfirm: pwd}
	if err = cp.Validate(cli.validate, usr); err != nil {
		return err
	}
	_, err = cli.usrSvc.SetPassword(ctx, usr.ID, pwd)
	return err
}
