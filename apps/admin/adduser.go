package main

import (
	"github.com/pkg/errors"

	"github.com/tmbraz/rotacheck/core"
	"github.com/tmbraz/rotacheck/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, uname, email, pwd string, isAdmin bool) error {
	uname = core.DigitsOnly(uname)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByUsername(uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		nu := user.NewUser{
			Name:            name,
			Username:        uname,
			Email:           email,
			Password:        pwd,
			PasswordConfirm: pwd,
		}
		if isAdmin {
			nu.Roles = user.AllRoles
		}
		_, err = cli.usrSvc.Create(nu)
		return err
	}

	uu := user.UpdateUser{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if isAdmin {
		uu.Roles = user.AllRoles
	}
	_, err = cli.usrSvc.Update(usr.ID, uu)
	return err
}
