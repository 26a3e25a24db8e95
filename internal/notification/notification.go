// Package notification sends desktop notifications through beeep.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/zhubert/ecehelper/internal/logger"
)

// AppName is the notification title.
const AppName = "ECE Helper"

type notifyFunc func(title, message string, icon any) error

var notifier notifyFunc = beeep.Notify

// SetNotifier replaces the notification function. Tests only.
func SetNotifier(fn notifyFunc) {
	notifier = fn
}

// ResetNotifier restores beeep.Notify.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send shows a desktop notification. Failures are logged and returned.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title)

	err := notifier(title, message, "")
	if err != nil {
		log.Warn("notification failed", "error", err)
	}
	return err
}

// ReplyReady tells the user a chat reply arrived for the titled session.
func ReplyReady(sessionTitle string) error {
	return Send(AppName, "Reply ready in "+sessionTitle)
}

// PracticalReady tells the user a practical finished generating.
func PracticalReady(topic string, ok bool) error {
	if !ok {
		return Send(AppName, "Practical failed: "+topic)
	}
	return Send(AppName, "Practical ready: "+topic)
}
