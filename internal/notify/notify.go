package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

const appTitle = "KatFlow"

func Info(title, message string) error {
	return beeep.Notify(title, message, "")
}

func Alert(message string) error {
	return beeep.Alert(appTitle, message, "")
}

// FormatCheckIn builds the daily reminder. loggedToday reports whether an
// entry for today already exists; streak is the count of consecutive days
// with an entry up to yesterday.
func FormatCheckIn(loggedToday bool, streak int) (string, string) {
	title := "Energy check-in"
	if loggedToday {
		return title, "Today's score is in. See you tomorrow."
	}
	if streak > 0 {
		return title, fmt.Sprintf("How was your energy today (1-5)? Keep your %d-day streak going.", streak)
	}
	return title, "How was your energy today (1-5)? Jot down a score and a thought."
}
