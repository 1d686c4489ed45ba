package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cert-tracker/internal/models"
)

const recordColumns = `employees_cert_id,
	COALESCE(employee_id, ''), COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(eid, ''),
	COALESCE(management_level, ''), COALESCE(capability, ''), COALESCE(project_name, ''),
	COALESCE(manager_eid, ''), COALESCE(employee_status, ''), COALESCE(target_certification, ''),
	COALESCE(first_target_certification_date, ''), COALESCE(current_progress, ''),
	COALESCE(with_voucher, ''), COALESCE(first_take_result, ''), COALESCE(retake_exam_date, ''),
	COALESCE(retake_result, ''), COALESCE(expiration_date, ''), COALESCE(fiscal_year, ''),
	COALESCE(month, ''), COALESCE(quarter, '')`

// EmployeeStore reads and writes employees_certs and the certification catalog.
type EmployeeStore struct {
	db *sql.DB
}

func NewEmployeeStore(db *sql.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

func scanRecord(s scanner, extra ...interface{}) (*models.EmployeeCertification, error) {
	var r models.EmployeeCertification
	dest := []interface{}{
		&r.EmployeesCertID, &r.EmployeeID, &r.FirstName, &r.LastName, &r.EID,
		&r.ManagementLevel, &r.Capability, &r.ProjectName, &r.ManagerEID, &r.EmployeeStatus,
		&r.TargetCertification, &r.FirstTargetCertificationDate, &r.CurrentProgress,
		&r.WithVoucher, &r.FirstTakeResult, &r.RetakeExamDate, &r.RetakeResult,
		&r.ExpirationDate, &r.FiscalYear, &r.Month, &r.Quarter,
	}
	if len(extra) > 0 {
		dest = append(dest, extra...)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *EmployeeStore) queryRecords(ctx context.Context, query string, args ...interface{}) ([]models.EmployeeCertification, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.EmployeeCertification{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// ListDirectory returns one entry per distinct employee, ordered by eid.
func (s *EmployeeStore) ListDirectory(ctx context.Context) ([]models.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT
			COALESCE(employee_id, ''), COALESCE(first_name, ''), COALESCE(last_name, ''),
			COALESCE(eid, ''), COALESCE(management_level, ''), COALESCE(capability, ''),
			COALESCE(project_name, ''), COALESCE(manager_eid, ''), COALESCE(employee_status, '')
		FROM employees_certs
		ORDER BY 4`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.EmployeeID, &e.FirstName, &e.LastName, &e.EID,
			&e.ManagementLevel, &e.Capability, &e.ProjectName, &e.ManagerEID, &e.EmployeeStatus); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetByEID returns the first record for eid.
func (s *EmployeeStore) GetByEID(ctx context.Context, eid string) (*models.EmployeeCertification, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM employees_certs WHERE eid = $1 ORDER BY employees_cert_id LIMIT 1`, eid)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *EmployeeStore) ListRecords(ctx context.Context) ([]models.EmployeeCertification, error) {
	return s.queryRecords(ctx, `SELECT `+recordColumns+` FROM employees_certs ORDER BY employees_cert_id`)
}

// ListWithLevels joins every record with the catalog level of its target certification.
func (s *EmployeeStore) ListWithLevels(ctx context.Context) ([]models.EmployeeCertification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixed("ec.", recordColumns)+`, COALESCE(ce.certification_level, '')
		FROM employees_certs AS ec
		INNER JOIN certifications AS ce ON ec.target_certification = ce.certification_name
		ORDER BY ec.employees_cert_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.EmployeeCertification{}
	for rows.Next() {
		var level string
		r, err := scanRecord(rows, &level)
		if err != nil {
			return nil, err
		}
		r.CertificationLevel = level
		records = append(records, *r)
	}
	return records, rows.Err()
}

// Create inserts a record and returns its id.
func (s *EmployeeStore) Create(ctx context.Context, r *models.EmployeeCertification) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO employees_certs (
			employee_id, first_name, last_name, eid, management_level, capability, project_name,
			manager_eid, employee_status, target_certification, first_target_certification_date,
			current_progress, with_voucher, first_take_result, retake_exam_date, retake_result,
			expiration_date, fiscal_year, month, quarter
		) VALUES (
			NULLIF($1, ''), $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''),
			NULLIF($12, ''), NULLIF($13, ''), NULLIF($14, ''), NULLIF($15, ''), NULLIF($16, ''),
			NULLIF($17, ''), NULLIF($18, ''), NULLIF($19, ''), NULLIF($20, '')
		) RETURNING employees_cert_id`,
		r.EmployeeID, r.FirstName, r.LastName, r.EID, r.ManagementLevel, r.Capability, r.ProjectName,
		r.ManagerEID, r.EmployeeStatus, r.TargetCertification, r.FirstTargetCertificationDate,
		r.CurrentProgress, r.WithVoucher, r.FirstTakeResult, r.RetakeExamDate, r.RetakeResult,
		r.ExpirationDate, r.FiscalYear, r.Month, r.Quarter,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites the editable fields of record id.
func (s *EmployeeStore) Update(ctx context.Context, id int64, r *models.EmployeeCertification) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE employees_certs SET
			first_name = $1, last_name = $2, eid = $3, target_certification = $4,
			first_target_certification_date = NULLIF($5, ''), retake_exam_date = NULLIF($6, ''),
			expiration_date = NULLIF($7, ''), project_name = NULLIF($8, '')
		WHERE employees_cert_id = $9`,
		r.FirstName, r.LastName, r.EID, r.TargetCertification,
		r.FirstTargetCertificationDate, r.RetakeExamDate, r.ExpirationDate, r.ProjectName, id)
	return expectAffected(res, err)
}

// Patch updates only the allow-listed fields present in fields. Keys are
// the upper-case JSON names from models.EditableColumns.
func (s *EmployeeStore) Patch(ctx context.Context, id int64, fields map[string]interface{}) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := models.EditableColumns[k]; ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ErrNoFields
	}
	sort.Strings(keys)

	sets := make([]string, len(keys))
	args := make([]interface{}, 0, len(keys)+1)
	for i, k := range keys {
		sets[i] = fmt.Sprintf("%s = $%d", models.EditableColumns[k], i+1)
		args = append(args, fields[k])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE employees_certs SET %s WHERE employees_cert_id = $%d",
		strings.Join(sets, ", "), len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	return expectAffected(res, err)
}

func (s *EmployeeStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees_certs WHERE employees_cert_id = $1`, id)
	return expectAffected(res, err)
}

// MarkPassed sets current_progress to Passed for eid's target certification.
func (s *EmployeeStore) MarkPassed(ctx context.Context, eid, certification string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE employees_certs SET current_progress = $1 WHERE eid = $2 AND target_certification = $3`,
		models.ProgressPassed, eid, certification)
	return expectAffected(res, err)
}

// ListCatalog returns the certification catalog.
func (s *EmployeeStore) ListCatalog(ctx context.Context) ([]models.Certification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT certification_id, certification_name,
			COALESCE(certification_level, ''), COALESCE(provider, '')
		FROM certifications ORDER BY certification_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certs := []models.Certification{}
	for rows.Next() {
		var c models.Certification
		if err := rows.Scan(&c.ID, &c.Name, &c.Level, &c.Provider); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

func expectAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// prefixed qualifies every bare column in a recordColumns-style list.
func prefixed(prefix, columns string) string {
	r := strings.NewReplacer(
		"employees_cert_id,", prefix+"employees_cert_id,",
		"COALESCE(", "COALESCE("+prefix,
	)
	return r.Replace(columns)
}
