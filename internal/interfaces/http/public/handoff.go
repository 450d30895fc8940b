package public

import (
	"context"
	"time"

	"github.com/hykleas/Review-Guard/internal/dispatch"
)

type handoffStep struct {
	Action  string `json:"action"`
	URL     string `json:"url"`
	DelayMs int64  `json:"delayMs"`
}

type clipboardPlan struct {
	Text   string `json:"text"`
	Method string `json:"method"`
	// Technique is the selection fallback the client uses if its clipboard call fails.
	Technique string `json:"technique"`
}

// handoffPlan is the dispatcher's work replayed on the customer's device.
type handoffPlan struct {
	Platform  string         `json:"platform"`
	Clipboard *clipboardPlan `json:"clipboard,omitempty"`
	Steps     []handoffStep  `json:"steps"`
}

// handoffRecorder stands in for the browser: it records every clipboard and
// navigation call together with the timer offset it would run at.
type handoffRecorder struct {
	platform dispatch.Platform
	offset   time.Duration
	plan     handoffPlan
}

func newHandoffRecorder(userAgent string) *handoffRecorder {
	platform := dispatch.DetectPlatform(userAgent)
	return &handoffRecorder{
		platform: platform,
		plan:     handoffPlan{Platform: string(platform), Steps: []handoffStep{}},
	}
}

// environment exposes the recorder as the dispatcher's device. The clipboard
// primitive is only offered when the client reported it.
func (r *handoffRecorder) environment(userAgent string, clipboardAPI bool) dispatch.Environment {
	env := dispatch.Environment{
		UserAgent: userAgent,
		Selection: r,
		Navigator: r,
		Timer:     r,
	}
	if clipboardAPI {
		env.Clipboard = r
	}
	return env
}

func (r *handoffRecorder) WriteText(_ context.Context, text string) error {
	r.plan.Clipboard = &clipboardPlan{
		Text:      text,
		Method:    string(dispatch.CopyClipboardAPI),
		Technique: string(dispatch.TechniqueFor(r.platform)),
	}
	return nil
}

func (r *handoffRecorder) CopyBySelection(_ context.Context, text string, technique dispatch.SelectionTechnique) error {
	r.plan.Clipboard = &clipboardPlan{
		Text:      text,
		Method:    string(dispatch.CopySelection),
		Technique: string(technique),
	}
	return nil
}

func (r *handoffRecorder) Navigate(target string) {
	r.step("navigate", target)
}

func (r *handoffRecorder) OpenHidden(target string) func() {
	r.step("open_hidden", target)
	return func() { r.step("close_hidden", target) }
}

// AfterFunc runs f immediately, shifting the recorded offset by d.
func (r *handoffRecorder) AfterFunc(d time.Duration, f func()) {
	prev := r.offset
	r.offset += d
	f()
	r.offset = prev
}

func (r *handoffRecorder) step(action, target string) {
	r.plan.Steps = append(r.plan.Steps, handoffStep{
		Action:  action,
		URL:     target,
		DelayMs: r.offset.Milliseconds(),
	})
}

// result returns the recorded plan, or nil when the dispatcher never ran.
func (r *handoffRecorder) result(ran bool) *handoffPlan {
	if !ran {
		return nil
	}
	plan := r.plan
	return &plan
}
