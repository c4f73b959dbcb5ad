package postgres

import (
	"context"
	"sort"

	"portfolio-cms/internal/domain/setting"

	"github.com/jackc/pgx/v5"
)

type SettingRepository struct {
	db *DB
}

func NewSettingRepository(db *DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) List(ctx context.Context) ([]*setting.Setting, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT key, value, updated_by, updated_at FROM site_settings ORDER BY key`)
	if err != nil {
		return nil, errFailedListSettings(err)
	}
	defer rows.Close()

	settings := []*setting.Setting{}
	for rows.Next() {
		s := &setting.Setting{}
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, errFailedScanSetting(err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Upsert writes every value in one transaction. An empty value deletes the
// key.
func (r *SettingRepository) Upsert(ctx context.Context, values map[string]string, updatedBy string) ([]*setting.Setting, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var written []*setting.Setting
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		written = written[:0]
		for _, key := range keys {
			value := values[key]
			if value == "" {
				if _, err := tx.Exec(ctx, `DELETE FROM site_settings WHERE key = $1`, key); err != nil {
					return errFailedUpsertSetting(err)
				}
				continue
			}

			s := &setting.Setting{}
			err := tx.QueryRow(ctx, `
				INSERT INTO site_settings (key, value, updated_by, updated_at)
				VALUES ($1, $2, $3, NOW())
				ON CONFLICT (key) DO UPDATE
				SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = NOW()
				RETURNING key, value, updated_by, updated_at
			`, key, value, updatedBy).Scan(&s.Key, &s.Value, &s.UpdatedBy, &s.UpdatedAt)
			if err != nil {
				return errFailedUpsertSetting(err)
			}
			written = append(written, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}
