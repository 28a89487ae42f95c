package signal

import (
	"fmt"
	"time"
)

// WindowLength is the settlement cadence of the traded markets.
const WindowLength = 15 * time.Minute

// NextWindowOpen returns the next quarter-hour boundary (UTC) after now.
// Markets open at :00, :15, :30, and :45.
func NextWindowOpen(now time.Time) time.Time {
	now = now.UTC()
	truncated := now.Truncate(WindowLength)
	return truncated.Add(WindowLength)
}

// EntryWindow formats the window starting at open as "HH:MM–HH:MM".
func EntryWindow(open time.Time) string {
	open = open.UTC()
	return fmt.Sprintf("%s–%s", open.Format("15:04"), open.Add(WindowLength).Format("15:04"))
}
