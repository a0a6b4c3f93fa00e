package steps

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"uiHarness/internal/pages"
)

func defaultUser() pages.NewUser {
	return pages.NewUser{
		EmployeeName: "John Smith",
		Username:     "john123",
		Password:     "Pass@123",
	}
}

func normalizeField(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "").Replace(s)
}

var userFields = map[string]bool{
	"employeename":    true,
	"employee":        true,
	"username":        true,
	"password":        true,
	"confirmpassword": true,
}

// isHeader reports whether every cell of row names a user field.
func isHeader(row *messages.PickleTableRow) bool {
	if len(row.Cells) == 0 {
		return false
	}
	for _, c := range row.Cells {
		if !userFields[normalizeField(c.Value)] {
			return false
		}
	}
	return true
}

// userFromTable accepts either a header row of field names followed by one
// data row, or two-column field/value rows. Missing fields keep their
// defaults and the confirmation defaults to the password.
func userFromTable(table *godog.Table) (pages.NewUser, error) {
	u := defaultUser()
	if table == nil || len(table.Rows) == 0 {
		u.ConfirmPassword = u.Password
		return u, nil
	}

	fields := map[string]string{}
	switch {
	case len(table.Rows) > 1 && isHeader(table.Rows[0]):
		if len(table.Rows) != 2 {
			return u, fmt.Errorf("user table: expected one data row, got %d", len(table.Rows)-1)
		}
		header, values := table.Rows[0].Cells, table.Rows[1].Cells
		if len(header) != len(values) {
			return u, fmt.Errorf("user table: header has %d columns, row has %d", len(header), len(values))
		}
		for i, c := range header {
			fields[normalizeField(c.Value)] = values[i].Value
		}
	default:
		for _, row := range table.Rows {
			if len(row.Cells) != 2 {
				return u, fmt.Errorf("user table: expected field/value rows, got %d cells", len(row.Cells))
			}
			fields[normalizeField(row.Cells[0].Value)] = row.Cells[1].Value
		}
	}

	for key, value := range fields {
		value = strings.TrimSpace(value)
		switch key {
		case "employeename", "employee":
			u.EmployeeName = value
		case "username":
			u.Username = value
		case "password":
			u.Password = value
		case "confirmpassword":
			u.ConfirmPassword = value
		case "field", "":
		default:
			return u, fmt.Errorf("user table: unknown field %q", key)
		}
	}
	if u.ConfirmPassword == "" {
		u.ConfirmPassword = u.Password
	}
	return u, nil
}
