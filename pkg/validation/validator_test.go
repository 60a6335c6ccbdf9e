package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

type taskInput struct {
	Title  string `json:"title" validate:"required,tasktitle"`
	Status string `json:"status" validate:"omitempty,taskstatus"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(signup{Name: "Alice", Email: "a@x.com", Password: "secret1"}))
	assert.NoError(t, Struct(taskInput{Title: "Buy milk"}))
	assert.NoError(t, Struct(taskInput{Title: "Buy milk", Status: "in-progress"}))
}

func TestStruct_FieldMessages(t *testing.T) {
	err := Struct(signup{Name: "", Email: "nope", Password: "12345"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"name":     "is required",
		"email":    "must be a valid email",
		"password": "must be at least 6 characters long",
	}, verr.Details)
	assert.Contains(t, err.Error(), "email must be a valid email")
}

func TestStruct_TaskAliases(t *testing.T) {
	err := Struct(taskInput{Title: "ab", Status: "blocked"})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be at least 3 characters long", verr.Details["title"])
	assert.Equal(t, "must be one of: todo, in-progress, done", verr.Details["status"])
}

func TestToDetails_Fallbacks(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("EOF")))
}

func TestStruct_PasswordByteLimit(t *testing.T) {
	ok := signup{Name: "A", Email: "a@x.com", Password: strings.Repeat("p", MaxPasswordBytes)}
	assert.NoError(t, Struct(ok))

	cases := map[string]string{
		"ascii over limit":     strings.Repeat("p", MaxPasswordBytes+1),
		"multibyte over limit": strings.Repeat("é", 40), // 40 runes, 80 bytes
	}
	for name, pwd := range cases {
		t.Run(name, func(t *testing.T) {
			err := Struct(signup{Name: "A", Email: "a@x.com", Password: pwd})
			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "must be at most 72 bytes long", verr.Details["password"])
		})
	}
}
