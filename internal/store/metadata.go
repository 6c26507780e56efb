package store

import "database/sql"

const keyTitle = "title"

// SetMetadata upserts a key-value pair in the pool_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO pool_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM pool_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetTitle stores the examination title used when none is configured.
func (s *Store) SetTitle(title string) error {
	return s.SetMetadata(keyTitle, title)
}

// Title returns the stored examination title, or "".
func (s *Store) Title() (string, error) {
	return s.GetMetadata(keyTitle)
}
