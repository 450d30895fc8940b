package dispatch

import (
	"context"
	"errors"
	"log"
	"time"
)

// DefaultFallbackDelay is how long a deep link gets before the web URL is opened.
const DefaultFallbackDelay = 300 * time.Millisecond

var errNoCopyCapability = errors.New("no clipboard capability")

// CopyMethod records how the comment reached the clipboard.
type CopyMethod string

const (
	CopySkipped      CopyMethod = "skipped"
	CopyClipboardAPI CopyMethod = "clipboard_api"
	CopySelection    CopyMethod = "selection"
	CopyFailed       CopyMethod = "failed"
)

// Result describes what the dispatcher attempted. Callers may log it; nothing in it is an error.
type Result struct {
	Platform   Platform
	CopyMethod CopyMethod
	DeepLink   string
	WebURL     string
	Delay      time.Duration
}

// Metrics receives hand-off counters.
type Metrics interface {
	Handoff(platform string)
	Clipboard(method, outcome string)
}

// Config wires a Dispatcher.
type Config struct {
	Logger  *log.Logger
	Delay   time.Duration
	Timer   Timer
	Metrics Metrics
}

// Dispatcher sends a customer to the external review platform.
//
// On touch platforms it tries the maps app first and then, after Delay, opens the
// web URL unconditionally: a hidden deep link gives no success signal, so the
// fallback races a timer rather than waiting for an event.
type Dispatcher struct {
	logger  *log.Logger
	delay   time.Duration
	timer   Timer
	metrics Metrics
}

// New returns a Dispatcher with defaults filled in.
func New(cfg Config) *Dispatcher {
	d := &Dispatcher{
		logger:  cfg.Logger,
		delay:   cfg.Delay,
		timer:   cfg.Timer,
		metrics: cfg.Metrics,
	}
	if d.delay <= 0 {
		d.delay = DefaultFallbackDelay
	}
	if d.timer == nil {
		d.timer = wallTimer{}
	}
	return d
}

// Delay returns the configured fallback delay.
func (d *Dispatcher) Delay() time.Duration {
	return d.delay
}

// Redirect copies comment to the clipboard when possible and navigates to link.
// Every step is best effort; failures are logged and never stop navigation.
func (d *Dispatcher) Redirect(ctx context.Context, env Environment, link, comment string) Result {
	platform := DetectPlatform(env.UserAgent)
	result := Result{Platform: platform, WebURL: link, CopyMethod: CopySkipped}

	if comment != "" {
		result.CopyMethod = d.copyComment(ctx, env, platform, comment)
	}

	if d.metrics != nil {
		d.metrics.Handoff(string(platform))
	}

	nav := env.Navigator
	if nav == nil {
		d.logf("redirect to %s skipped: no navigator", link)
		return result
	}

	if !platform.Mobile() {
		nav.Navigate(link)
		return result
	}

	timer := env.Timer
	if timer == nil {
		timer = d.timer
	}

	deepLink := DeepLink(platform, link)
	result.DeepLink = deepLink
	result.Delay = d.delay

	switch platform {
	case PlatformAndroid:
		closeHandle := nav.OpenHidden(deepLink)
		timer.AfterFunc(d.delay, func() {
			if closeHandle != nil {
				closeHandle()
			}
			nav.Navigate(link)
		})
	case PlatformIOS:
		nav.Navigate(deepLink)
		timer.AfterFunc(d.delay, func() {
			nav.Navigate(link)
		})
	}
	return result
}

func (d *Dispatcher) copyComment(ctx context.Context, env Environment, platform Platform, text string) CopyMethod {
	if env.Clipboard != nil {
		err := env.Clipboard.WriteText(ctx, text)
		if err == nil {
			d.recordCopy(CopyClipboardAPI, "ok")
			return CopyClipboardAPI
		}
		d.logf("clipboard write failed, trying selection copy: %v", err)
		d.recordCopy(CopyClipboardAPI, "error")
	}

	err := errNoCopyCapability
	if env.Selection != nil {
		err = env.Selection.CopyBySelection(ctx, text, TechniqueFor(platform))
	}
	if err != nil {
		d.logf("selection copy failed: %v", err)
		d.recordCopy(CopySelection, "error")
		return CopyFailed
	}
	d.recordCopy(CopySelection, "ok")
	return CopySelection
}

func (d *Dispatcher) recordCopy(method CopyMethod, outcome string) {
	if d.metrics != nil {
		d.metrics.Clipboard(string(method), outcome)
	}
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}
