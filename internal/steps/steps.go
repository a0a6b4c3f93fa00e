package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"uiHarness/internal/pages"
	"uiHarness/internal/scenario"
)

func registerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I am on the login page$`, onLoginPage)
	sc.Step(`^I login with valid credentials$`, loginWithValidCredentials)
	sc.Step(`^I navigate to the Users page$`, navigateToUsers)
	sc.Step(`^I add a new user with the following details:?$`, addNewUser)
	sc.Step(`^I should see the new user in the users list$`, newUserIsListed)
	sc.Step(`^I click on Assign Leave from Quick Launch$`, openAssignLeave)
	sc.Step(`^I assign leave to "([^"]*)"$`, assignLeave)
	sc.Step(`^the leave should be assigned successfully$`, leaveAssigned)
}

// page resolves the world and the scenario's page object in one call.
func page[P any](ctx context.Context, newPage pages.Constructor[P]) (*world, P, error) {
	w, err := worldFrom(ctx)
	if err != nil {
		var zero P
		return nil, zero, err
	}
	p, err := scenario.Page(w.sc, newPage)
	return w, p, err
}

func onLoginPage(ctx context.Context) error {
	_, login, err := page(ctx, pages.NewLoginPage)
	if err != nil {
		return err
	}
	return login.WaitLoaded(ctx)
}

func loginWithValidCredentials(ctx context.Context) error {
	w, login, err := page(ctx, pages.NewLoginPage)
	if err != nil {
		return err
	}
	creds := w.sc.Credentials()
	if creds.Username == "" {
		return fmt.Errorf("no credentials configured for environment %q", w.sc.Env())
	}
	return login.Login(ctx, creds.Username, creds.Password)
}

func navigateToUsers(ctx context.Context) error {
	_, dashboard, err := page(ctx, pages.NewDashboardPage)
	if err != nil {
		return err
	}
	return dashboard.GoToAdminTab(ctx)
}

func addNewUser(ctx context.Context, table *godog.Table) error {
	user, err := userFromTable(table)
	if err != nil {
		return err
	}

	w, users, err := page(ctx, pages.NewUsersPage)
	if err != nil {
		return err
	}
	if err := users.ClickAddUser(ctx); err != nil {
		return err
	}

	_, form, err := page(ctx, pages.NewAddUserPage)
	if err != nil {
		return err
	}
	if err := form.AddUser(ctx, user); err != nil {
		return err
	}
	w.user = user
	return nil
}

func newUserIsListed(ctx context.Context) error {
	w, users, err := page(ctx, pages.NewUsersPage)
	if err != nil {
		return err
	}
	if w.user.Username == "" {
		return fmt.Errorf("no user was added in this scenario")
	}
	ok, err := users.IsUserPresent(ctx, w.user.Username)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("new user %q was not found in the users list", w.user.Username)
	}
	return nil
}

func openAssignLeave(ctx context.Context) error {
	_, dashboard, err := page(ctx, pages.NewDashboardPage)
	if err != nil {
		return err
	}
	return dashboard.ClickAssignLeave(ctx)
}

func assignLeave(ctx context.Context, employee string) error {
	w, form, err := page(ctx, pages.NewAssignLeavePage)
	if err != nil {
		return err
	}
	if err := form.AssignLeave(ctx, pages.DefaultLeave(employee)); err != nil {
		return err
	}
	w.employee = employee
	return nil
}

func leaveAssigned(ctx context.Context) error {
	w, form, err := page(ctx, pages.NewAssignLeavePage)
	if err != nil {
		return err
	}
	ok, err := form.IsSuccessMessageDisplayed(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("leave for %q was not confirmed", w.employee)
	}
	return nil
}
