package users

import (
	"fmt"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type UserRepository interface {
	PersistUser(req models.CreateUserRequest, hashedPassword []byte) (int, error)
	GetUser(id int) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(id int, changes *models.UserChanges) error
	DeleteUser(id int) error
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

func (r *userRepositoryImpl) PersistUser(req models.CreateUserRequest, hashedPassword []byte) (int, error) {
	query := r.repository.GoquDBWrapper.Insert("users").
		Rows(goqu.Record{
			"password_hash": string(hashedPassword),
			"username":      req.Username,
			"fullname":      req.Fullname,
			"role":          req.Role,
			"team_id":       req.TeamID,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return 0, custom_error.WrapDBError("Username already taken", string(pqErr.Code))
			case "23503":
				return 0, custom_error.WrapDBError("Team does not exist", string(pqErr.Code))
			}
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	return id, nil
}

func (r *userRepositoryImpl) GetUsers() ([]models.User, error) {
	users := []models.User{}
	query := r.repository.GoquDBWrapper.
		From(goqu.T("users").As("u")).
		Select(
			goqu.I("u.id"),
			goqu.I("u.username"),
			goqu.I("u.fullname"),
			goqu.I("u.role"),
			goqu.I("u.team_id"),
			goqu.COALESCE(goqu.I("t.name"), "").As("team_name"),
		).
		LeftJoin(
			goqu.T("teams").As("t"),
			goqu.On(goqu.Ex{"u.team_id": goqu.I("t.id")}),
		).
		Order(goqu.I("u.username").Asc())

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return users, nil
}

func (r *userRepositoryImpl) GetUser(id int) (*models.User, error) {
	var user models.User
	query := r.repository.GoquDBWrapper.
		From(goqu.T("users").As("u")).
		Select(
			goqu.I("u.id"),
			goqu.I("u.username"),
			goqu.I("u.fullname"),
			goqu.I("u.password_hash"),
			goqu.I("u.role"),
			goqu.I("u.team_id"),
			goqu.COALESCE(goqu.I("t.name"), "").As("team_name"),
		).
		LeftJoin(
			goqu.T("teams").As("t"),
			goqu.On(goqu.Ex{"u.team_id": goqu.I("t.id")}),
		).
		Where(goqu.Ex{"u.id": id})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "user", ID: id}
	}

	return &user, nil
}

func (r *userRepositoryImpl) UpdateUser(id int, changes *models.UserChanges) error {
	updates := make(map[string]interface{})

	if changes.Fullname != nil {
		updates["fullname"] = *changes.Fullname
	}
	if changes.PasswordHash != nil {
		updates["password_hash"] = *changes.PasswordHash
	}
	if changes.Role != nil {
		updates["role"] = *changes.Role
	}
	if changes.TeamID != nil {
		if *changes.TeamID == 0 {
			updates["team_id"] = nil
		} else {
			updates["team_id"] = *changes.TeamID
		}
	}
	if len(updates) == 0 {
		return nil
	}

	query := r.repository.GoquDBWrapper.
		Update("users").
		Set(updates).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("Team does not exist", string(pqErr.Code))
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "user", ID: id}
	}

	return nil
}

func (r *userRepositoryImpl) DeleteUser(id int) error {
	result, err := r.repository.GoquDBWrapper.
		Delete("users").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("User still has usage logs or reports", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "user", ID: id}
	}

	return nil
}
