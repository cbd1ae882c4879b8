package users

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// SAP IDs are exactly eight digits; anything else is rejected before
// the store is touched.
var sapidPattern = regexp.MustCompile(`^[0-9]{8}$`)

type Service struct {
	store Store
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func newServiceWithStore(store Store) *Service {
	return &Service{store: store}
}

// Lookup resolves a SAP ID to the identity projection used by the loan
// and assignment forms. A miss is a distinct NOT_FOUND, never a 500.
func (s *Service) Lookup(ctx context.Context, sapid string) (UserResponse, error) {
	u, err := s.Resolve(ctx, sapid)
	if err != nil {
		return UserResponse{}, err
	}
	return u.toResponse(), nil
}

// Resolve returns the full stored row. Other packages consume this via
// their own directory interfaces.
func (s *Service) Resolve(ctx context.Context, sapid string) (*User, error) {
	sapid = strings.TrimSpace(sapid)
	if !sapidPattern.MatchString(sapid) {
		return nil, ErrInvalid("sapid must be exactly 8 digits")
	}

	u, err := s.store.GetBySAPID(ctx, sapid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound(fmt.Sprintf("user %s not found", sapid))
	}
	return u, nil
}
