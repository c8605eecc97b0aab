package kvstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres stores pairs in the device_preferences table.
func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) Load(ctx context.Context, ns string) (map[string]string, error) {
	const q = `
SELECT key, value
FROM device_preferences
WHERE device_id = $1
`
	rows, err := s.pool.Query(ctx, q, ns)
	if err != nil {
		return nil, errors.Wrap(err, "query preferences")
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, errors.Wrap(err, "scan preference")
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate preferences")
	}
	return out, nil
}

func (s *postgresStore) Apply(ctx context.Context, ns string, set map[string]string, del []string) error {
	const upsert = `
INSERT INTO device_preferences (device_id, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (device_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`
	const remove = `DELETE FROM device_preferences WHERE device_id = $1 AND key = ANY($2)`

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if len(del) > 0 {
			if _, err := tx.Exec(ctx, remove, ns, del); err != nil {
				return errors.Wrap(err, "delete preferences")
			}
		}
		batch := &pgx.Batch{}
		for k, v := range set {
			batch.Queue(upsert, ns, k, v)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return errors.Wrap(err, "upsert preferences")
		}
		return nil
	})
}
