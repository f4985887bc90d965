// internal/maintenance/window.go
package maintenance

import "time"

// Window is a snapshot of the maintenance flag. When Active is false, Start
// and End are nil.
type Window struct {
	Active bool       `json:"active"`
	Start  *time.Time `json:"start,omitempty"`
	End    *time.Time `json:"end,omitempty"`
}

// Inactive is the zero window.
var Inactive = Window{}

func activeWindow(start, end time.Time) Window {
	s, e := start, end
	return Window{Active: true, Start: &s, End: &e}
}
