package customer

import "context"

type AccountRepository interface {
	// Create inserts the account and fills in AccountID and CreatedAt.
	// A duplicate phone or ID number yields apperrors.ErrAlreadyExists.
	Create(ctx context.Context, account *Account) error

	FindByPhone(ctx context.Context, phone string) (*Account, error)
}
