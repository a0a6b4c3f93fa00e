package pages

import (
	"context"

	"uiHarness/internal/browser"
)

const (
	addUserEmployeeInput = `input[placeholder="Type for hints..."]`
	addUserUsernameInput = `input[name="username"]`
	addUserPasswordInput = `input[name="password"]`
	addUserConfirmInput  = `input[name="confirmPassword"]`
	addUserSaveButton    = `button[type="submit"]`
)

type NewUser struct {
	EmployeeName    string
	Username        string
	Password        string
	ConfirmPassword string
}

type AddUserPage struct {
	Base
}

func NewAddUserPage(s browser.Surface) (*AddUserPage, error) {
	b, err := newBase(s)
	if err != nil {
		return nil, err
	}
	return &AddUserPage{Base: b}, nil
}

func (p *AddUserPage) AddUser(ctx context.Context, u NewUser) error {
	fields := []struct {
		selector string
		value    string
	}{
		{addUserEmployeeInput, u.EmployeeName},
		{addUserUsernameInput, u.Username},
		{addUserPasswordInput, u.Password},
		{addUserConfirmInput, u.ConfirmPassword},
	}
	for _, f := range fields {
		if err := p.Fill(ctx, f.selector, f.value); err != nil {
			return err
		}
	}
	return p.Click(ctx, addUserSaveButton)
}
