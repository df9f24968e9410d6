// Package mail is the outbound notification boundary. The server hands a
// destination, a purpose, and the plaintext token to a Mailer; it never
// inspects message content and tolerates delivery failure.
package mail

import "context"

// Purpose selects the message template and link target.
type Purpose string

const (
	PurposeVerify Purpose = "verify"
	PurposeReset  Purpose = "reset"
)

// Mailer delivers a token to its destination. Implementations must not
// retain the plaintext token after the call returns.
type Mailer interface {
	Send(ctx context.Context, destination string, purpose Purpose, token string) error
}
