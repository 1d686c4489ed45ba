// internal/assistant/generate-sql/config.go
package generatesql

import "cert-tracker/internal/assistant/schema"

// DefaultSentinel is what the model is told to reply when a question cannot be translated.
const DefaultSentinel = "FAILED"

type Config struct {
	Schema   schema.Schema
	Sentinel string
}

func LoadConfig() *Config {
	return &Config{
		Schema:   schema.EmployeeCertifications,
		Sentinel: DefaultSentinel,
	}
}
