package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	data := NewWelcomeData("Tasks", "Alice", "a@x.com",
		WithAppURL("https://tasks.example.com"),
		WithTime(time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)),
	)
	assert.Equal(t, Welcome, data["Type"])

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Tasks", subject)
	assert.Contains(t, text, "Hi Alice")
	assert.Contains(t, text, "https://tasks.example.com")
	assert.Contains(t, html, "<strong>a@x.com</strong>")
	assert.Contains(t, html, "02 January 2025, 03:04")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", map[string]any{})
	assert.Error(t, err)
}
