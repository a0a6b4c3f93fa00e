package pages

import (
	"context"
	"fmt"
	"time"

	"uiHarness/internal/browser"
)

const (
	leaveEmployeeInput  = `input[placeholder='Type for hints...']`
	leaveTypeDropdown   = `div.oxd-select-text >> nth=0`
	leaveTypeOption     = `span:has-text('%s')`
	leaveFromDate       = `input[placeholder='yyyy-mm-dd'] >> nth=0`
	leaveToDate         = `input[placeholder='yyyy-mm-dd'] >> nth=1`
	leaveAssignButton   = `button:has-text('Assign')`
	leaveConfirmButton  = `button:has-text('Ok')`
	leaveSuccessMessage = `p:has-text('Successfully Assigned')`

	// autocompleteDelay gives the employee suggestions time to render.
	autocompleteDelay = time.Second
)

type Leave struct {
	Employee string
	Type     string
	From     string
	To       string
}

// DefaultLeave fills everything but the employee.
func DefaultLeave(employee string) Leave {
	return Leave{
		Employee: employee,
		Type:     "CAN - Vacation",
		From:     "2025-01-15",
		To:       "2025-01-16",
	}
}

type AssignLeavePage struct {
	Base
}

func NewAssignLeavePage(s browser.Surface) (*AssignLeavePage, error) {
	b, err := newBase(s)
	if err != nil {
		return nil, err
	}
	return &AssignLeavePage{Base: b}, nil
}

func (p *AssignLeavePage) AssignLeave(ctx context.Context, l Leave) error {
	if err := p.Fill(ctx, leaveEmployeeInput, l.Employee); err != nil {
		return err
	}
	if err := p.Pause(ctx, autocompleteDelay); err != nil {
		return err
	}
	for _, key := range []string{"ArrowDown", "Enter"} {
		if err := p.Press(ctx, key); err != nil {
			return fmt.Errorf("pick employee: %w", err)
		}
	}

	if err := p.Click(ctx, leaveTypeDropdown); err != nil {
		return err
	}
	if err := p.Click(ctx, fmt.Sprintf(leaveTypeOption, l.Type)); err != nil {
		return err
	}
	if err := p.Fill(ctx, leaveFromDate, l.From); err != nil {
		return err
	}
	if err := p.Fill(ctx, leaveToDate, l.To); err != nil {
		return err
	}
	if err := p.Click(ctx, leaveAssignButton); err != nil {
		return err
	}
	return p.Click(ctx, leaveConfirmButton)
}

func (p *AssignLeavePage) IsSuccessMessageDisplayed(ctx context.Context) (bool, error) {
	err := p.WaitForVisible(ctx, leaveSuccessMessage)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	return err == nil, nil
}
