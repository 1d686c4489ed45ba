// internal/assistant/execute-query/config.go
package executequery

import (
	"time"

	"cert-tracker/internal/assistant/schema"
)

type Config struct {
	Schema   schema.Schema
	Sentinel string
	// MaxRows caps fetched rows; 0 means unlimited.
	MaxRows int
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Schema:   schema.EmployeeCertifications,
		Sentinel: "FAILED",
		Timeout:  30 * time.Second,
	}
}
