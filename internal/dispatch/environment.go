package dispatch

import (
	"context"
	"time"
)

// Clipboard is the modern clipboard write primitive.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// SelectionTechnique names the manual select-and-copy variant.
type SelectionTechnique string

const (
	// TechniqueTouchRange selects through a document range, required on iOS.
	TechniqueTouchRange SelectionTechnique = "touch_range"
	// TechniqueSelectAll selects the whole field contents.
	TechniqueSelectAll SelectionTechnique = "select_all"
)

// TechniqueFor picks the selection fallback for a platform.
func TechniqueFor(p Platform) SelectionTechnique {
	if p == PlatformIOS {
		return TechniqueTouchRange
	}
	return TechniqueSelectAll
}

// SelectionCopier copies text by selecting it in a hidden field.
type SelectionCopier interface {
	CopyBySelection(ctx context.Context, text string, technique SelectionTechnique) error
}

// Navigator moves the browsing context.
type Navigator interface {
	// Navigate replaces the current location.
	Navigate(target string)
	// OpenHidden starts a navigation in a hidden handle. The returned func removes it.
	OpenHidden(target string) (closeHandle func())
}

// Timer schedules a function after a delay.
type Timer interface {
	AfterFunc(d time.Duration, f func())
}

// Environment is everything the dispatcher may touch on the customer's device.
// Clipboard and Selection may be nil when the capability is missing.
type Environment struct {
	UserAgent string
	Clipboard Clipboard
	Selection SelectionCopier
	Navigator Navigator
	// Timer overrides the dispatcher's timer for this hand-off.
	Timer Timer
}

type wallTimer struct{}

func (wallTimer) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
