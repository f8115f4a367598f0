package notify

import (
	"context"
	"log/slog"
)

// Permission is the platform notification permission state.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// BrowserNotification is one native notification to display.
type BrowserNotification struct {
	Title string
	Body  string

	// Tag is a stable identity for the notification so repeated shows
	// replace rather than stack. The scheduler uses the task id.
	Tag string

	// RequireInteraction keeps the notification visible until the user
	// acts on it. Set for high-priority tasks only.
	RequireInteraction bool

	// OnClick, when non-nil, is invoked if the user clicks the
	// notification. The provider is expected to focus the application
	// before invoking it.
	OnClick func()
}

// BrowserProvider abstracts the platform notification surface. All methods
// are capability-gated: callers check Supported and Permission before Show.
type BrowserProvider interface {
	// Supported reports whether the platform can display notifications.
	Supported() bool

	// Permission returns the current permission state.
	Permission() Permission

	// RequestPermission asks the user to grant notification permission
	// and returns the resulting state.
	RequestPermission(ctx context.Context) (Permission, error)

	// Show displays a native notification. Failures are non-fatal to
	// callers; they log and continue.
	Show(ctx context.Context, n BrowserNotification) error
}

// LogProvider is a BrowserProvider that writes notifications to the log.
// It stands in when no platform surface is wired, e.g. in the headless
// scheduler binary.
type LogProvider struct{}

func (LogProvider) Supported() bool        { return true }
func (LogProvider) Permission() Permission { return PermissionGranted }

func (LogProvider) RequestPermission(ctx context.Context) (Permission, error) {
	return PermissionGranted, nil
}

func (LogProvider) Show(ctx context.Context, n BrowserNotification) error {
	slog.InfoContext(ctx, "notification",
		"title", n.Title,
		"body", n.Body,
		"tag", n.Tag,
		"require_interaction", n.RequireInteraction,
	)
	return nil
}

// AudioPlayer plays the short notification cue when sound is enabled.
type AudioPlayer interface {
	Play(ctx context.Context) error
}

// NoopAudio is the default AudioPlayer for hosts without an audio surface.
type NoopAudio struct{}

func (NoopAudio) Play(ctx context.Context) error { return nil }
