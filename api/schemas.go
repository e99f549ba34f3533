package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qri-io/jsonschema"
)

// signupSchemaJSON constrains the signup payload shape at the boundary, in
// particular the role and department enums, before any store calls happen.
const signupSchemaJSON = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["email", "password", "full_name", "role", "department"],
	"properties": {
		"email": {"type": "string", "minLength": 3},
		"password": {"type": "string", "minLength": 6},
		"full_name": {"type": "string", "minLength": 1},
		"role": {"type": "string", "enum": ["student", "faculty"]},
		"department": {"type": "string", "enum": ["computer_engineering", "ai_ml", "data_science"]},
		"student_id": {"type": "string"}
	}
}`

var signupSchema = mustSchema(signupSchemaJSON)

func mustSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return rs
}

// validateSignup checks the raw signup body against the schema and returns a
// human-readable reason on failure.
func validateSignup(ctx context.Context, body []byte) error {
	keyErrs, err := signupSchema.ValidateBytes(ctx, body)
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if len(keyErrs) > 0 {
		return fmt.Errorf("%s: %s", keyErrs[0].PropertyPath, keyErrs[0].Message)
	}
	return nil
}
