package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrftime(t *testing.T) {
	when := time.Date(2024, 2, 9, 7, 5, 3, 0, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"default layout", "", "Fri 09 February 2024"},
		{"iso date", "%Y-%m-%d", "2024-02-09"},
		{"time of day", "%H:%M:%S", "07:05:03"},
		{"literal text", "posted %d/%m", "posted 09/02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Strftime(when, tt.layout)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
