package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSelector(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantChanged bool
	}{
		{name: "empty", input: "", want: "", wantChanged: false},
		{name: "plain css", input: `input[name="username"]`, want: `input[name="username"]`, wantChanged: false},
		{name: "has-text untouched", input: "button:has-text('Assign')", want: "button:has-text('Assign')", wantChanged: false},
		{name: "double quoted contains", input: `button:contains("Save")`, want: `button:has-text("Save")`, wantChanged: true},
		{name: "single quoted contains", input: `span:contains('CAN - Vacation')`, want: `span:has-text('CAN - Vacation')`, wantChanged: true},
		{name: "bare contains", input: `p:contains(Successfully Assigned)`, want: `p:has-text("Successfully Assigned")`, wantChanged: true},
		{name: "xpath untouched", input: `//span[text()="Admin"]`, want: `//span[text()="Admin"]`, wantChanged: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := NormalizeSelector(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestValidateSelector(t *testing.T) {
	assert.NoError(t, ValidateSelector("button[type=submit]"))
	assert.Error(t, ValidateSelector(""))
	assert.Error(t, ValidateSelector("   "))
	assert.Error(t, ValidateSelector("https://example.com/login"))
}

func TestParseKind(t *testing.T) {
	for _, k := range []string{"chromium", "firefox", "webkit"} {
		kind, err := ParseKind(k)
		assert.NoError(t, err)
		assert.Equal(t, Kind(k), kind)
	}

	_, err := ParseKind("safari")
	assert.ErrorIs(t, err, ErrUnsupportedBrowser)
	assert.Contains(t, err.Error(), `"safari"`)
}
