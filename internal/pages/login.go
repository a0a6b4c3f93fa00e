package pages

import (
	"context"

	"uiHarness/internal/browser"
)

const (
	loginUsernameInput = `input[name="username"]`
	loginPasswordInput = `input[name="password"]`
	loginSubmitButton  = `button[type="submit"]`
)

type LoginPage struct {
	Base
}

func NewLoginPage(s browser.Surface) (*LoginPage, error) {
	b, err := newBase(s)
	if err != nil {
		return nil, err
	}
	return &LoginPage{Base: b}, nil
}

// WaitLoaded blocks until the login form is on screen.
func (p *LoginPage) WaitLoaded(ctx context.Context) error {
	return p.AssertVisible(ctx, loginUsernameInput)
}

func (p *LoginPage) Login(ctx context.Context, username, password string) error {
	if err := p.Fill(ctx, loginUsernameInput, username); err != nil {
		return err
	}
	if err := p.Fill(ctx, loginPasswordInput, password); err != nil {
		return err
	}
	return p.Click(ctx, loginSubmitButton)
}
