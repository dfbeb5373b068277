package token

import "context"

// Issuer выдает API-токен по email и паролю.
type Issuer interface {
	IssueToken(ctx context.Context, email, password string) (string, error)
}
