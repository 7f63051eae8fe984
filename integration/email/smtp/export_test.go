package smtp

import (
	"time"

	"github.com/dmitrymomot/mailcraft/core/email"
)

func BuildMessage(c *Client, params email.SendEmailParams, now time.Time) ([]byte, error) {
	return c.buildMessage(params, now)
}
