package repository

import "context"

// PrincipalRepository checks the acting admin before a mutation is
// allowed. Exists returns (false, nil) when the principal is simply
// absent; a non-nil error means the lookup itself failed and must surface
// as an internal fault, never as forbidden.
type PrincipalRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}
