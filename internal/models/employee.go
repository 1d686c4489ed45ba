// internal/models/employee.go
package models

const (
	ProgressPassed = "Passed"
)

// EmployeeCertification is one row of employees_certs. JSON keys follow the
// upper-case column names the dashboard and the assistant prompt use.
type EmployeeCertification struct {
	EmployeesCertID              int64  `json:"EMPLOYEES_CERT_ID"`
	EmployeeID                   string `json:"EMPLOYEE_ID"`
	FirstName                    string `json:"FIRST_NAME"`
	LastName                     string `json:"LAST_NAME"`
	EID                          string `json:"EID"`
	ManagementLevel              string `json:"MANAGEMENT_LEVEL"`
	Capability                   string `json:"CAPABILITY"`
	ProjectName                  string `json:"PROJECT_NAME"`
	ManagerEID                   string `json:"MANAGER_EID"`
	EmployeeStatus               string `json:"EMPLOYEE_STATUS"`
	TargetCertification          string `json:"TARGET_CERTIFICATION"`
	FirstTargetCertificationDate string `json:"FIRST_TARGET_CERTIFICATION_DATE"`
	CurrentProgress              string `json:"CURRENT_PROGRESS"`
	WithVoucher                  string `json:"WITH_VOUCHER"`
	FirstTakeResult              string `json:"FIRST_TAKE_RESULT"`
	RetakeExamDate               string `json:"RETAKE_EXAM_DATE"`
	RetakeResult                 string `json:"RETAKE_RESULT"`
	ExpirationDate               string `json:"EXPIRATION_DATE"`
	FiscalYear                   string `json:"FISCAL_YEAR"`
	Month                        string `json:"MONTH"`
	Quarter                      string `json:"QUARTER"`
	CertificationLevel           string `json:"CERTIFICATION_LEVEL,omitempty"`
}

// Employee is the directory view: one entry per distinct employee.
type Employee struct {
	EmployeeID      string `json:"EMPLOYEE_ID"`
	FirstName       string `json:"FIRST_NAME"`
	LastName        string `json:"LAST_NAME"`
	EID             string `json:"EID"`
	ManagementLevel string `json:"MANAGEMENT_LEVEL"`
	Capability      string `json:"CAPABILITY"`
	ProjectName     string `json:"PROJECT_NAME"`
	ManagerEID      string `json:"MANAGER_EID"`
	EmployeeStatus  string `json:"EMPLOYEE_STATUS"`
}

// EditableColumns maps the JSON keys a partial record update may carry to
// their column names. Keys outside this map are ignored.
var EditableColumns = map[string]string{
	"FIRST_NAME":                      "first_name",
	"LAST_NAME":                       "last_name",
	"EID":                             "eid",
	"EMPLOYEE_ID":                     "employee_id",
	"MANAGER_EID":                     "manager_eid",
	"MANAGEMENT_LEVEL":                "management_level",
	"CAPABILITY":                      "capability",
	"EMPLOYEE_STATUS":                 "employee_status",
	"WITH_VOUCHER":                    "with_voucher",
	"CURRENT_PROGRESS":                "current_progress",
	"TARGET_CERTIFICATION":            "target_certification",
	"FIRST_TARGET_CERTIFICATION_DATE": "first_target_certification_date",
	"FIRST_TAKE_RESULT":               "first_take_result",
	"RETAKE_EXAM_DATE":                "retake_exam_date",
	"RETAKE_RESULT":                   "retake_result",
	"EXPIRATION_DATE":                 "expiration_date",
	"FISCAL_YEAR":                     "fiscal_year",
	"QUARTER":                         "quarter",
	"MONTH":                           "month",
	"PROJECT_NAME":                    "project_name",
}

// Certification is an entry of the certification catalog.
type Certification struct {
	ID       int64  `json:"certification_id"`
	Name     string `json:"certification_name"`
	Level    string `json:"certification_level"`
	Provider string `json:"provider"`
}
