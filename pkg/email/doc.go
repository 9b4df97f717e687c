// Package email sends transactional emails through Postmark, or writes
// them to disk in development.
//
//	sender, err := email.NewSender(cfg)
//	if err != nil {
//		return err
//	}
//	html, err := templates.Render(ctx, templates.Notice(templates.NoticeData{...}))
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "owner@example.com",
//		Subject:  "Usage Limit Reached",
//		BodyHTML: html,
//		Tag:      "usage-limit",
//	})
//
// All senders validate parameters first and report ErrInvalidParams,
// ErrInvalidConfig or ErrFailedToSendEmail.
package email
