package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMQuery(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
		field string
		code  string
	}{
		{"valid", `{"question": "how many employees?"}`, true, "", ""},
		{"empty question is allowed", `{"question": ""}`, true, "", ""},
		{"missing question", `{}`, false, "question", "REQUIRED_FIELD_MISSING"},
		{"question not a string", `{"question": 42}`, false, "question", "INVALID_TYPE"},
		{"not json", `question=hi`, false, "(root)", "INVALID_JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := LLMQuery.Validate([]byte(tt.body))
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				require.NotEmpty(t, res.Errors)
				assert.Equal(t, tt.field, res.Errors[0].Field)
				assert.Equal(t, tt.code, res.Errors[0].Code)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	valid := `{"eid":"ann.lee","first_name":"Ann","last_name":"Lee","password":"pw","role":"MANAGER"}`
	assert.True(t, CreateUser.Validate([]byte(valid)).Valid)

	res := CreateUser.Validate([]byte(`{"eid":"ann.lee","first_name":"Ann","last_name":"Lee","password":"pw","role":"PROJECT_MANAGER"}`))
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("role"))

	res = CreateUser.Validate([]byte(`{"eid":"ann.lee"}`))
	assert.False(t, res.Valid)
	for _, f := range []string{"first_name", "last_name", "password", "role"} {
		assert.True(t, res.HasErrors(f), f)
	}
}

func TestLogin_EmptyFields(t *testing.T) {
	res := Login.Validate([]byte(`{"username":"","password":"x"}`))
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("username"))
	assert.Contains(t, res.Summary(), "username")
}

func TestApproveSubmission(t *testing.T) {
	assert.True(t, ApproveSubmission.Validate([]byte(`{"employees_cert_id": 7}`)).Valid)
	assert.False(t, ApproveSubmission.Validate([]byte(`{"employees_cert_id": "7"}`)).Valid)
	assert.False(t, ApproveSubmission.Validate([]byte(`{"employees_cert_id": 0}`)).Valid)
}

func TestPatchRecord(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"string value", `{"PROJECT_NAME": "Zeus"}`, true},
		{"null and number values", `{"WITH_VOUCHER": null, "FISCAL_YEAR": 2025}`, true},
		{"empty object", `{}`, false},
		{"nested object", `{"PROJECT_NAME": {"name": "Zeus"}}`, false},
		{"array", `{"PROJECT_NAME": ["Zeus"]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, PatchRecord.Validate([]byte(tt.body)).Valid)
		})
	}
}

func TestValidateGo(t *testing.T) {
	res := CreateEvent.ValidateGo(map[string]interface{}{"event_name": "Kickoff"})
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("start_date"))
}

func TestMustCompile_PanicsOnBadSchema(t *testing.T) {
	assert.Panics(t, func() { MustCompile("bad", `{"type": 12}`) })
}
