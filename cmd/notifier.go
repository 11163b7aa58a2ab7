package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matchbox-hr/matchbox/board/alert"
	"github.com/matchbox-hr/matchbox/pkg/logx"
)

// newNotificationGateway picks the delivery backend from the
// environment. Without SMTP settings, deliveries go to the console.
func newNotificationGateway() alert.NotificationGateway {
	if os.Getenv("SMTP_HOST") != "" {
		logx.Warn("SMTP delivery is not wired yet, falling back to console notifier")
	}
	return NewConsoleNotifier()
}

// ConsoleNotifier implements alert.NotificationGateway by printing
// notifications to the terminal. Useful for local development.
type ConsoleNotifier struct{}

// NewConsoleNotifier creates a new console-based notifier
func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

// Send prints the notification to the terminal
func (n *ConsoleNotifier) Send(ctx context.Context, notification alert.Notification) error {
	fmt.Println("==================================================")
	fmt.Printf("ALERT NOTIFICATION\n")
	fmt.Printf("To: %s\n", notification.Recipient)
	fmt.Printf("Template: %s\n", notification.TemplateKind)
	fmt.Printf("Subject: %s\n", notification.SubjectID)
	for k, v := range notification.Metadata {
		fmt.Printf("  %s: %s\n", k, v)
	}
	fmt.Println("==================================================")

	logx.Infof("Notification sent to %s (%s)", notification.Recipient, notification.TemplateKind)
	return nil
}
