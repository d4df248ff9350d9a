package fstime

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	require.NoError(t, os.WriteFile(path, []byte("Title: x\n"), 0644))

	got, err := ChangeTime(path)
	require.NoError(t, err)
	assert.False(t, got.IsZero())
	assert.WithinDuration(t, time.Now(), got, time.Minute)
}

func TestChangeTime_MissingFile(t *testing.T) {
	_, err := ChangeTime(filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAttach(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	raw := time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		loc  *time.Location
		want time.Time
	}{
		{"system zone when unset", nil, raw},
		{"configured zone keeps wall clock", tokyo, time.Date(2024, 3, 1, 12, 30, 0, 0, tokyo)},
		{"utc", time.UTC, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Attach(raw, tt.loc)
			assert.True(t, tt.want.Equal(got), "Attach() = %v, want %v", got, tt.want)
			if tt.loc != nil {
				assert.Equal(t, tt.loc, got.Location())
			}
		})
	}
}

func TestConvert(t *testing.T) {
	commit := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	assert.Equal(t, commit, Convert(commit, nil))

	got := Convert(commit, time.UTC)
	assert.True(t, commit.Equal(got))
	assert.Equal(t, 11, got.Hour())
}
