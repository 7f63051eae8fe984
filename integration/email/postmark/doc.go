// Package postmark implements email.EmailSender with Postmark's transactional API.
//
//	var cfg postmark.Config
//	config.MustLoad(&cfg)
//
//	sender, err := postmark.New(cfg)
//	if err != nil {
//		return err
//	}
//	params, err := email.NewDesignParams(root, "user@example.com", "Spring sale", "promo")
//	if err != nil {
//		return err
//	}
//	err = sender.SendEmail(ctx, params)
//
// Both the HTML body and the plain-text alternative are sent. Postmark API
// errors are reported as email.ErrFailedToSendEmail joined with the code and
// message returned by the service.
package postmark
