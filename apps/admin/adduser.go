package main

import (
	"context"
	"fmt"

	"github.com/trezcool/academia/core/user"
)

func (cli *commandLine) addUser(uname, role, pwd string) error {
	nu := user.NewUser{
		Username:        uname,
		Role:            user.Role(role),
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := nu.Validate(cli.validate, cli.usrSvc); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Printf("created %s %q with ID %d\n", usr.Role, usr.Username, usr.ID)
	return nil
}
