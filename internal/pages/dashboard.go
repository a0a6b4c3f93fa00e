package pages

import (
	"context"

	"uiHarness/internal/browser"
)

const (
	dashboardAdminTab    = `//span[text()="Admin"]`
	dashboardAssignLeave = `button[title="Assign Leave"]`
)

type DashboardPage struct {
	Base
}

func NewDashboardPage(s browser.Surface) (*DashboardPage, error) {
	b, err := newBase(s)
	if err != nil {
		return nil, err
	}
	return &DashboardPage{Base: b}, nil
}

// GoToAdminTab opens the Admin module, which lands on the users list.
func (p *DashboardPage) GoToAdminTab(ctx context.Context) error {
	return p.Click(ctx, dashboardAdminTab)
}

// ClickAssignLeave uses the Quick Launch tile.
func (p *DashboardPage) ClickAssignLeave(ctx context.Context) error {
	return p.Click(ctx, dashboardAssignLeave)
}
