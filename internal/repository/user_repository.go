package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/travel-marketplace/internal/model"
)

// UserRepo is the users CRUD plus lookups used by login.
type UserRepo struct {
	*CRUD[model.User, uuid.UUID, *model.User]
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{CRUD: NewCRUD[model.User, uuid.UUID](db, UsersTable)}
}

// Create normalizes the email before inserting.  Duplicate email or
// nickname yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Nickname = strings.TrimSpace(u.Nickname)
	return r.CRUD.Create(ctx, u)
}

// GetByIdentifier finds the user whose email or nickname equals identifier.
// An exact email match wins over a nickname match; no match is ErrNotFound.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	email := strings.ToLower(identifier)
	q := fmt.Sprintf("SELECT %s FROM users WHERE email = ? OR nickname = ? LIMIT 2", UsersTable.selectList())

	var found []model.User
	if err := r.DB().SelectContext(ctx, &found, q, email, identifier); err != nil {
		return nil, fmt.Errorf("get user by identifier: %w", err)
	}
	switch len(found) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &found[0], nil
	}
	for i := range found {
		if found[i].Email == email {
			return &found[i], nil
		}
	}
	return &found[0], nil
}
