package teams

import (
	"fmt"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"
	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type TeamRepository struct {
	Repository *repository.Repository
}

func NewTeamRepository(r *repository.Repository) *TeamRepository {
	return &TeamRepository{Repository: r}
}

func (r *TeamRepository) GetTeams() ([]models.Team, error) {
	teams := []models.Team{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "description", "created_at").
		From("teams").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&teams); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return teams, nil
}

func (r *TeamRepository) GetTeam(teamID int) (*models.Team, error) {
	var team models.Team
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "description", "created_at").
		From("teams").
		Where(goqu.Ex{"id": teamID})

	found, err := query.Executor().ScanStruct(&team)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "team", ID: teamID}
	}

	return &team, nil
}

func (r *TeamRepository) PersistTeam(team *models.Team) error {
	query := r.Repository.GoquDBWrapper.Insert("teams").
		Rows(goqu.Record{
			"name":        team.Name,
			"description": team.Description,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&team.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return custom_error.WrapDBError("Team name already taken", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert team record: %w", err)
	}

	return nil
}

func (r *TeamRepository) UpdateTeam(teamID int, req UpdateTeamRequest) (*models.Team, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	query := r.Repository.GoquDBWrapper.
		Update("teams").
		Set(updates).
		Where(goqu.Ex{"id": teamID}).
		Returning("id", "name", "description", "created_at")

	var team models.Team
	found, err := query.Executor().ScanStruct(&team)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Team name already taken", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "team", ID: teamID}
	}

	return &team, nil
}

func (r *TeamRepository) RemoveTeam(teamID int) error {
	result, err := r.Repository.GoquDBWrapper.
		Delete("teams").
		Where(goqu.Ex{"id": teamID}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Team still has members or reports", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return &custom_error.NotFoundError{Resource: "team", ID: teamID}
	}

	return nil
}

func (r *TeamRepository) GetTeamMembers(teamID int) ([]models.User, error) {
	members := []models.User{}
	query := r.Repository.GoquDBWrapper.
		From(goqu.T("users").As("u")).
		Select(
			goqu.I("u.id"),
			goqu.I("u.username"),
			goqu.I("u.fullname"),
			goqu.I("u.role"),
			goqu.I("u.team_id"),
		).
		Where(goqu.Ex{"u.team_id": teamID}).
		Order(goqu.I("u.username").Asc())

	if err := query.Executor().ScanStructs(&members); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return members, nil
}
