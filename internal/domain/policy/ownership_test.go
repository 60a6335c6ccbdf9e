package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type doc struct{ owner string }

func ownerOf(d *doc) string { return d.owner }

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		resource *doc
		caller   string
		want     error
	}{
		{name: "owner", resource: &doc{owner: "alice"}, caller: "alice", want: nil},
		{name: "other user", resource: &doc{owner: "alice"}, caller: "bob", want: ErrForbidden},
		{name: "missing resource, any caller", resource: nil, caller: "bob", want: ErrNotFound},
		{name: "missing resource, would-be owner", resource: nil, caller: "alice", want: ErrNotFound},
		{name: "empty caller", resource: &doc{owner: ""}, caller: "", want: ErrForbidden},
		{name: "case sensitive", resource: &doc{owner: "Alice"}, caller: "alice", want: ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.resource, tt.caller, ownerOf)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
