package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// KV is a persistent string key-value cell. Every read goes to the database
// so a write is immediately visible to any other reader of the same store.
type KV interface {
	// Get returns the value for key, or ("", nil) when the key is absent.
	Get(key string) (string, error)

	// GetMany returns the values for keys in order; absent keys yield "".
	GetMany(keys ...string) ([]string, error)

	// Put stores value under key, overwriting any previous value.
	Put(key, value string) error

	// PutMany stores all pairs in a single transaction.
	PutMany(pairs map[string]string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// DeleteMany removes all keys in a single transaction.
	DeleteMany(keys ...string) error
}

type kvRepo struct {
	db *sql.DB
}

func (r *kvRepo) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, nil
}

func (r *kvRepo) GetMany(keys ...string) ([]string, error) {
	values := make([]string, len(keys))
	for i, key := range keys {
		v, err := r.Get(key)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (r *kvRepo) Put(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) PutMany(pairs map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("kv put many: %w", err)
	}
	defer tx.Rollback()

	for key, value := range pairs {
		if _, err := tx.Exec(
			`INSERT INTO kv (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			return fmt.Errorf("kv put %q: %w", key, err)
		}
	}

	return tx.Commit()
}

func (r *kvRepo) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) DeleteMany(keys ...string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("kv delete many: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
			return fmt.Errorf("kv delete %q: %w", key, err)
		}
	}

	return tx.Commit()
}
