// Package email delivers rendered designs.
//
// EmailSender is implemented by the Postmark and SMTP clients in
// integration/email and by DevSender, which writes messages to disk for local
// preview. NewDesignParams renders a layout tree into the HTML body and its
// plain-text alternative:
//
//	params, err := email.NewDesignParams(root, "user@example.com", "Spring sale", "promo")
//	if err != nil {
//		return err
//	}
//	if err := sender.SendEmail(ctx, params); err != nil {
//		switch {
//		case errors.Is(err, email.ErrInvalidParams):
//			// fix the input
//		case errors.Is(err, email.ErrFailedToSendEmail):
//			// provider or network failure
//		}
//	}
//
// DevSender names files after a timestamp and the tag:
//
//	./dev_emails/2024_01_15_143052_promo.html
//	./dev_emails/2024_01_15_143052_promo.txt
//	./dev_emails/2024_01_15_143052_promo.json
package email
