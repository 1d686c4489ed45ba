package validation

// Request body schemas for the JSON endpoints.
var (
	LLMQuery = MustCompile("llm_query", `{
		"type": "object",
		"properties": {"question": {"type": "string"}},
		"required": ["question"]
	}`)

	Login = MustCompile("login", `{
		"type": "object",
		"properties": {
			"username": {"type": "string", "minLength": 1},
			"password": {"type": "string", "minLength": 1}
		},
		"required": ["username", "password"]
	}`)

	CreateUser = MustCompile("create_user", `{
		"type": "object",
		"properties": {
			"eid":        {"type": "string", "minLength": 1},
			"first_name": {"type": "string", "minLength": 1},
			"last_name":  {"type": "string", "minLength": 1},
			"password":   {"type": "string", "minLength": 1},
			"role":       {"type": "string", "enum": ["ADMIN", "MANAGER", "EMPLOYEE"]}
		},
		"required": ["eid", "first_name", "last_name", "password", "role"]
	}`)

	UpdateUser = MustCompile("update_user", `{
		"type": "object",
		"properties": {
			"first_name": {"type": "string"},
			"last_name":  {"type": "string"},
			"password":   {"type": "string"},
			"role":       {"type": "string", "enum": ["ADMIN", "MANAGER", "EMPLOYEE"]}
		}
	}`)

	CreateSession = MustCompile("create_session", `{
		"type": "object",
		"properties": {
			"eid":  {"type": "string", "minLength": 1},
			"role": {"type": "string", "minLength": 1}
		},
		"required": ["eid", "role"]
	}`)

	CreateEvent = MustCompile("create_event", `{
		"type": "object",
		"properties": {
			"event_name":  {"type": "string", "minLength": 1},
			"start_date":  {"type": "string", "minLength": 1},
			"start_time":  {"type": "string", "minLength": 1},
			"end_date":    {"type": "string", "minLength": 1},
			"end_time":    {"type": "string", "minLength": 1},
			"description": {"type": "string"},
			"color":       {"type": "string"}
		},
		"required": ["event_name", "start_date", "start_time", "end_date", "end_time"]
	}`)

	UpdateProgress = MustCompile("update_progress", `{
		"type": "object",
		"properties": {
			"eid":           {"type": "string", "minLength": 1},
			"certification": {"type": "string", "minLength": 1}
		},
		"required": ["eid", "certification"]
	}`)

	ApproveSubmission = MustCompile("approve_submission", `{
		"type": "object",
		"properties": {"employees_cert_id": {"type": "integer", "minimum": 1}},
		"required": ["employees_cert_id"]
	}`)

	UpdateEvent = MustCompile("update_event", `{
		"type": "object",
		"properties": {
			"event_name": {"type": "string"},
			"start_date": {"type": "string"},
			"start_time": {"type": "string"},
			"end_date":   {"type": "string"},
			"end_time":   {"type": "string"},
			"color":      {"type": "string"}
		}
	}`)

	CreateEmployee = MustCompile("create_employee", `{
		"type": "object",
		"properties": {
			"FIRST_NAME": {"type": "string", "minLength": 1},
			"LAST_NAME":  {"type": "string", "minLength": 1},
			"EID":        {"type": "string", "minLength": 1}
		},
		"required": ["FIRST_NAME", "LAST_NAME", "EID"]
	}`)

	CreateRecord = MustCompile("create_record", `{
		"type": "object",
		"properties": {
			"FIRST_NAME":           {"type": "string", "minLength": 1},
			"LAST_NAME":            {"type": "string", "minLength": 1},
			"EID":                  {"type": "string", "minLength": 1},
			"TARGET_CERTIFICATION": {"type": "string", "minLength": 1}
		},
		"required": ["FIRST_NAME", "LAST_NAME", "EID", "TARGET_CERTIFICATION"]
	}`)

	UpdateRecord = MustCompile("update_record", `{
		"type": "object",
		"properties": {
			"FIRST_NAME":           {"type": "string", "minLength": 1},
			"LAST_NAME":            {"type": "string", "minLength": 1},
			"EID":                  {"type": "string", "minLength": 1},
			"TARGET_CERTIFICATION": {"type": "string"}
		},
		"required": ["FIRST_NAME", "LAST_NAME", "EID"]
	}`)

	PatchRecord = MustCompile("patch_record", `{
		"type": "object",
		"minProperties": 1,
		"additionalProperties": {"type": ["string", "number", "boolean", "null"]}
	}`)
)
