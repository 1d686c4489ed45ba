// Package schema describes the table the assistant may query. The same value
// feeds the generation prompt and the execution guard.
package schema

import "strings"

type Schema struct {
	Table   string
	Columns []string
}

// EmployeeCertifications mirrors the employees_certs migration.
var EmployeeCertifications = Schema{
	Table: "employees_certs",
	Columns: []string{
		"EMPLOYEES_CERT_ID",
		"EMPLOYEE_ID",
		"FIRST_NAME",
		"LAST_NAME",
		"EID",
		"MANAGEMENT_LEVEL",
		"CAPABILITY",
		"PROJECT_NAME",
		"MANAGER_EID",
		"EMPLOYEE_STATUS",
		"TARGET_CERTIFICATION",
		"FIRST_TARGET_CERTIFICATION_DATE",
		"CURRENT_PROGRESS",
		"WITH_VOUCHER",
		"FIRST_TAKE_RESULT",
		"RETAKE_EXAM_DATE",
		"RETAKE_RESULT",
		"EXPIRATION_DATE",
		"FISCAL_YEAR",
		"MONTH",
		"QUARTER",
	},
}

// HasColumn matches case-insensitively, like unquoted Postgres identifiers.
func (s Schema) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

func (s Schema) IsTable(name string) bool {
	return strings.EqualFold(s.Table, name)
}

// ColumnList renders the columns as a comma separated list.
func (s Schema) ColumnList() string {
	return strings.Join(s.Columns, ", ")
}
