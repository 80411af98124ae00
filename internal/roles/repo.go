package roles

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/osegura/ventapos-backend/pkg/db"
	"github.com/osegura/ventapos-backend/pkg/db/models"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
)

// Repository exposes role and role-assignment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// NamesForUser returns the role names currently assigned to the user,
// ordered by assignment age so the first granted role stays first.
func (r *Repository) NamesForUser(ctx context.Context, userID uint) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Select("roles.name").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ?", userID).
		Order("user_roles.created_at ASC, user_roles.id ASC").
		Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// FindRoleByName loads the role record for the given name.
func (r *Repository) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// Assign grants a role to a user. A repeated grant surfaces as CONFLICT.
func (r *Repository) Assign(ctx context.Context, userID, roleID uint) (*models.UserRole, error) {
	assignment := &models.UserRole{UserID: userID, RoleID: roleID}
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "role already assigned")
		}
		return nil, err
	}
	return assignment, nil
}

// Revoke removes a role grant. Missing grants surface as NOT_FOUND.
func (r *Repository) Revoke(ctx context.Context, userID, roleID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRole{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "role assignment not found")
	}
	return nil
}

// IsNotFound reports whether the error is GORM's missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
