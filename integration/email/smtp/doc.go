// Package smtp implements email.EmailSender over SMTP.
//
// Messages with a text body are sent as multipart/alternative with a
// quoted-printable text/plain part followed by the text/html part; messages
// without one carry the HTML alone. STARTTLS, implicit TLS and plain
// connections are supported.
//
//	sender, err := smtp.New(smtp.Config{
//		Host:         "smtp.example.com",
//		Port:         587,
//		Username:     "apikey",
//		Password:     secret,
//		TLSMode:      smtp.TLSModeSTARTTLS,
//		SenderEmail:  "noreply@example.com",
//		SupportEmail: "support@example.com",
//	})
//	if err != nil {
//		return err
//	}
//	err = sender.SendEmail(ctx, params)
package smtp
