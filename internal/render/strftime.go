package render

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"
)

const DefaultDateFormat = "%a %d %B %Y"

// Strftime renders t with a %-style layout. An empty layout uses
// DefaultDateFormat.
func Strftime(t time.Time, layout string) (string, error) {
	if layout == "" {
		layout = DefaultDateFormat
	}

	s, err := strftime.Format(layout, t)
	if err != nil {
		return "", fmt.Errorf("failed to render date with format %q: %w", layout, err)
	}
	return s, nil
}
