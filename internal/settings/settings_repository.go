package settings

import (
	"encoding/json"
	"fmt"

	"github.com/GabeCabrera/crewkit-sub001/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

// Settings are a flat key to JSON-value map backed by a single jsonb
// column per key.
type Settings map[string]json.RawMessage

type SettingsRepository struct {
	repo *repository.Repository
}

func NewRepository(r *repository.Repository) *SettingsRepository {
	return &SettingsRepository{repo: r}
}

func (r *SettingsRepository) GetSettings() (Settings, error) {
	type row struct {
		Key   string `db:"key"`
		Value []byte `db:"value"`
	}

	var rows []row
	query := r.repo.GoquDBWrapper.
		Select("key", "value").
		From("settings")
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	settings := make(Settings, len(rows))
	for _, row := range rows {
		settings[row.Key] = json.RawMessage(row.Value)
	}

	return settings, nil
}

// PutSettings upserts every given key; keys absent from the payload are
// left untouched.
func (r *SettingsRepository) PutSettings(settings Settings) error {
	for key, value := range settings {
		query := r.repo.GoquDBWrapper.Insert("settings").
			Rows(goqu.Record{
				"key":   key,
				"value": []byte(value),
			}).
			OnConflict(goqu.DoUpdate("key", goqu.Record{
				"value": []byte(value),
			}))

		if _, err := query.Executor().Exec(); err != nil {
			return fmt.Errorf("failed to store setting %q: %w", key, err)
		}
	}

	return nil
}
