package pages

import (
	"context"
	"fmt"

	"uiHarness/internal/browser"
)

const (
	usersAddButton = `//button[text()=" Add "]`
	usersRowByText = `//div[text()="%s"]`
)

type UsersPage struct {
	Base
}

func NewUsersPage(s browser.Surface) (*UsersPage, error) {
	b, err := newBase(s)
	if err != nil {
		return nil, err
	}
	return &UsersPage{Base: b}, nil
}

func (p *UsersPage) ClickAddUser(ctx context.Context) error {
	return p.Click(ctx, usersAddButton)
}

func (p *UsersPage) IsUserPresent(ctx context.Context, username string) (bool, error) {
	return p.IsVisible(ctx, fmt.Sprintf(usersRowByText, username))
}
