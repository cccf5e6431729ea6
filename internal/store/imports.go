package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timesheet/internal/model"
)

const importColumns = `id, template_name, log_name, output_path, year, month, status,
	total_rows, members, written_days, error_rows, error_message, created_at, completed_at`

// CreateImport 创建导入记录（状态 processing）
func (s *Store) CreateImport(id, templateName, logName string) error {
	_, err := s.db.Exec(`
		INSERT INTO imports (id, template_name, log_name, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, templateName, logName, model.ImportProcessing, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to create import: %w", err)
	}
	return nil
}

// CompleteImport 导入成功：写入统计与诊断
func (s *Store) CompleteImport(summary *model.ImportSummary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		UPDATE imports SET
			output_path = ?,
			year = ?,
			month = ?,
			status = ?,
			total_rows = ?,
			members = ?,
			written_days = ?,
			error_rows = ?,
			completed_at = ?
		WHERE id = ?
	`, summary.OutputPath, summary.Year, summary.Month, model.ImportSucceeded, summary.TotalRows,
		len(summary.Members), summary.WrittenDays, len(summary.Diagnostics), time.Now().UTC(), summary.ImportID)
	if err != nil {
		return fmt.Errorf("failed to update import: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("import %s: %w", summary.ImportID, ErrNotFound)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO import_diagnostics (import_id, line, user, kind, message)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range summary.Diagnostics {
		if _, err := stmt.Exec(summary.ImportID, d.Line, d.User, string(d.Kind), d.Message); err != nil {
			return fmt.Errorf("failed to insert diagnostic: %w", err)
		}
	}

	return tx.Commit()
}

// FailImport 导入失败
func (s *Store) FailImport(id, message string) error {
	_, err := s.db.Exec(`
		UPDATE imports SET status = ?, error_message = ?, completed_at = ?
		WHERE id = ?
	`, model.ImportFailed, message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update import: %w", err)
	}
	return nil
}

// GetImport 查询单条导入记录
func (s *Store) GetImport(id string) (*model.ImportRecord, error) {
	row := s.db.QueryRow(`SELECT `+importColumns+` FROM imports WHERE id = ?`, id)
	rec, err := scanImport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("import %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return rec, nil
}

// ListImports 按时间倒序列出导入记录
func (s *Store) ListImports(limit int) ([]*model.ImportRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT `+importColumns+` FROM imports ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*model.ImportRecord{}
	for rows.Next() {
		rec, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListDiagnostics 查询某次导入的行级诊断
func (s *Store) ListDiagnostics(importID string) ([]model.Diagnostic, error) {
	rows, err := s.db.Query(`
		SELECT line, user, kind, message FROM import_diagnostics
		WHERE import_id = ? ORDER BY id
	`, importID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	diags := []model.Diagnostic{}
	for rows.Next() {
		var d model.Diagnostic
		var kind string
		if err := rows.Scan(&d.Line, &d.User, &kind, &d.Message); err != nil {
			return nil, err
		}
		d.Kind = model.DiagnosticKind(kind)
		diags = append(diags, d)
	}
	return diags, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImport(row rowScanner) (*model.ImportRecord, error) {
	var rec model.ImportRecord
	var status string
	var completed sql.NullTime
	err := row.Scan(&rec.ID, &rec.TemplateName, &rec.LogName, &rec.OutputPath, &rec.Year, &rec.Month, &status,
		&rec.TotalRows, &rec.Members, &rec.WrittenDays, &rec.ErrorRows, &rec.ErrorMessage, &rec.CreatedAt, &completed)
	if err != nil {
		return nil, err
	}
	rec.Status = model.ImportStatus(status)
	if completed.Valid {
		t := completed.Time
		rec.CompletedAt = &t
	}
	return &rec, nil
}
