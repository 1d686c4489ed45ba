// internal/assistant/execute-query/models.go
package executequery

import "cert-tracker/internal/assistant/record"

type Input struct {
	Statement string `json:"statement"`
}

type Output struct {
	Records            []record.Record `json:"records"`
	Columns            []string        `json:"columns"`
	RowCount           int             `json:"rowCount"`
	Truncated          bool            `json:"truncated,omitempty"`
	QueryExecutionTime int64           `json:"queryExecutionTime"`
}
