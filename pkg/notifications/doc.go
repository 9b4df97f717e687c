// Package notifications stores and delivers user notifications, including
// the toasts raised by usage checks.
//
// A Manager persists each notification in a Storage and then hands it to a
// Deliverer. BroadcastDeliverer feeds live streams, EmailDeliverer mails
// selected types, and MultiDeliverer combines them.
//
// QuotaNotifier adapts the Manager to usage events:
//
//	notifier := notifications.NewQuotaNotifier(manager, notifications.WithLinks(cfg.Links()))
//	client := usage.NewClient(source, usage.WithNotifier(notifier))
//
//	ctx = notifications.WithRecipient(ctx, notifications.Recipient{ID: userID, Email: addr})
//	client.CheckDefault(ctx) // may raise "Usage Limit Reached" for userID
//
// The builders LimitReached, Warning and UpgradePrompt produce the toast
// content: an 8s error, a 5s warning, and a persistent dismissible prompt
// recommending the next plan.
package notifications
