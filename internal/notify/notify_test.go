package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCheckIn(t *testing.T) {
	title, msg := FormatCheckIn(false, 0)
	assert.Equal(t, "Energy check-in", title)
	assert.Contains(t, msg, "1-5")

	_, msg = FormatCheckIn(false, 4)
	assert.Contains(t, msg, "4-day streak")

	_, msg = FormatCheckIn(true, 4)
	assert.Contains(t, msg, "Today's score is in")
}
