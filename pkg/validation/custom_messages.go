package validation

var customValidationMessages = map[string]map[string]string{
	"email": {
		"required": "email is required",
		"email":    "email is not a valid address",
	},
	"password": {
		"required": "password is required",
		"max":      "password must be at most 72 bytes",
	},
	"confirm_password": {
		"required": "confirm_password is required",
	},
	"is_active": {
		"required": "is_active query parameter is required",
	},
}

// CustomMessage returns field-specific overrides keyed by validation tag.
func CustomMessage(field string) map[string]string {
	return customValidationMessages[field]
}
