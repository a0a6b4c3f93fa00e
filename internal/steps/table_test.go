package steps

import (
	"testing"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uiHarness/internal/pages"
)

func table(rows ...[]string) *godog.Table {
	t := &godog.Table{}
	for _, r := range rows {
		row := &messages.PickleTableRow{}
		for _, v := range r {
			row.Cells = append(row.Cells, &messages.PickleTableCell{Value: v})
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestUserFromTable(t *testing.T) {
	tests := []struct {
		name  string
		table *godog.Table
		want  pages.NewUser
	}{
		{
			name:  "no table uses defaults",
			table: nil,
			want:  pages.NewUser{EmployeeName: "John Smith", Username: "john123", Password: "Pass@123", ConfirmPassword: "Pass@123"},
		},
		{
			name: "header and row",
			table: table(
				[]string{"Employee Name", "Username", "Password", "Confirm Password"},
				[]string{"Joy Smith", "joy01", "S3cret!", "S3cret!"},
			),
			want: pages.NewUser{EmployeeName: "Joy Smith", Username: "joy01", Password: "S3cret!", ConfirmPassword: "S3cret!"},
		},
		{
			name: "two column header",
			table: table(
				[]string{"Username", "Password"},
				[]string{"jdoe", "Secret#1"},
			),
			want: pages.NewUser{EmployeeName: "John Smith", Username: "jdoe", Password: "Secret#1", ConfirmPassword: "Secret#1"},
		},
		{
			name: "field value rows with defaults",
			table: table(
				[]string{"username", "anna"},
				[]string{"password", "pw"},
			),
			want: pages.NewUser{EmployeeName: "John Smith", Username: "anna", Password: "pw", ConfirmPassword: "pw"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := userFromTable(tt.table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserFromTable_Errors(t *testing.T) {
	_, err := userFromTable(table([]string{"nickname", "bob"}))
	assert.ErrorContains(t, err, "unknown field")

	_, err = userFromTable(table([]string{"Username", "Password", "Confirm Password"}, []string{"1", "2"}))
	assert.ErrorContains(t, err, "columns")

	_, err = userFromTable(table([]string{"Username", "Password"}, []string{"a", "b"}, []string{"c", "d"}))
	assert.ErrorContains(t, err, "one data row")

	_, err = userFromTable(table([]string{"a", "b", "c"}, []string{"1", "2"}))
	assert.ErrorContains(t, err, "field/value rows")
}
