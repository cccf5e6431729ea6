package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("not found")

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("config key %s: %w", key, ErrNotFound)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// GetLastPeriod 获取最近一次导入的年月
func (s *Store) GetLastPeriod() (year, month int, err error) {
	y, err := s.GetConfig("last_year")
	if err != nil {
		return 0, 0, err
	}
	m, err := s.GetConfig("last_month")
	if err != nil {
		return 0, 0, err
	}
	if year, err = strconv.Atoi(y); err != nil {
		return 0, 0, fmt.Errorf("invalid last_year %q: %w", y, err)
	}
	if month, err = strconv.Atoi(m); err != nil {
		return 0, 0, fmt.Errorf("invalid last_month %q: %w", m, err)
	}
	return year, month, nil
}

// SetLastPeriod 记录最近一次导入的年月
func (s *Store) SetLastPeriod(year, month int) error {
	if err := s.SetConfig("last_year", strconv.Itoa(year)); err != nil {
		return err
	}
	return s.SetConfig("last_month", strconv.Itoa(month))
}
