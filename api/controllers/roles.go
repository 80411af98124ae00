package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osegura/ventapos-backend/api/responses"
	"github.com/osegura/ventapos-backend/api/validators"
	"github.com/osegura/ventapos-backend/internal/roles"
	"github.com/osegura/ventapos-backend/pkg/db/models"
	pkgerrors "github.com/osegura/ventapos-backend/pkg/errors"
	"github.com/osegura/ventapos-backend/pkg/logger"
)

type roleAdminRepo interface {
	NamesForUser(ctx context.Context, userID uint) ([]string, error)
	FindRoleByName(ctx context.Context, name string) (*models.Role, error)
	Assign(ctx context.Context, userID, roleID uint) (*models.UserRole, error)
	Revoke(ctx context.Context, userID, roleID uint) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

type grantRoleBody struct {
	Role string `json:"role" validate:"required"`
}

// ListUserRoles returns the role names granted to a user.
func ListUserRoles(repo roleAdminRepo, userRepo userFinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolveUser(r, userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		names, err := repo.NamesForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "roles retrieved", map[string]any{
			"user_id": userID,
			"roles":   names,
		})
	}
}

// GrantUserRole assigns a named role to a user. Takes effect on the user's
// next request; already-issued tokens keep their original role list.
func GrantUserRole(repo roleAdminRepo, userRepo userFinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolveUser(r, userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body grantRoleBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := repo.FindRoleByName(r.Context(), body.Role)
		if err != nil {
			if roles.IsNotFound(err) {
				err = pkgerrors.New(pkgerrors.CodeNotFound, "role not found").
					WithDetails(map[string]any{"role": body.Role})
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := repo.Assign(r.Context(), userID, role.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "role granted", map[string]any{
			"user_id": userID,
			"role":    role.Name,
		})
	}
}

// RevokeUserRole removes a role grant from a user.
func RevokeUserRole(repo roleAdminRepo, userRepo userFinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolveUser(r, userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		roleName := chi.URLParam(r, "role")
		role, err := repo.FindRoleByName(r.Context(), roleName)
		if err != nil {
			if roles.IsNotFound(err) {
				err = pkgerrors.New(pkgerrors.CodeNotFound, "role not found").
					WithDetails(map[string]any{"role": roleName})
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.Revoke(r.Context(), userID, role.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "role revoked", map[string]any{
			"user_id": userID,
			"role":    role.Name,
		})
	}
}

func resolveUser(r *http.Request, userRepo userFinder) (uint, error) {
	userID, err := validators.ParsePathID(r, "userID")
	if err != nil {
		return 0, err
	}
	if _, err := userRepo.FindByID(r.Context(), userID); err != nil {
		if roles.IsNotFound(err) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "user not found").
				WithDetails(map[string]any{"user_id": userID})
		}
		return 0, err
	}
	return userID, nil
}
