package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantNil bool
		wantErr bool
	}{
		{name: "empty", in: "  ", wantNil: true},
		{name: "date input", in: "2025-10-20", want: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)},
		{name: "datetime-local", in: "2025-10-20T08:30", want: time.Date(2025, 10, 20, 8, 30, 0, 0, time.UTC)},
		{name: "rfc3339 offset", in: "2025-10-20T10:00:00+02:00", want: time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)},
		{name: "garbage", in: "next tuesday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v want %v", got, tt.want)
		})
	}
}
