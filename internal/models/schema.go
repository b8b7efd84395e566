package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const todoRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"task": {"type": "string"}
	}
}`

var requestSchema = jsonschema.MustCompileString("todo_request.json", todoRequestSchema)

// CheckRequestShape validates a raw JSON request body against the todo
// request schema. It checks shape only: the body must be an object and
// task, when present, must be a string. Presence rules live in the request
// types' Validate methods.
func CheckRequestShape(body []byte) error {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return &ValidationError{Message: "invalid json"}
	}

	if err := requestSchema.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return fmt.Errorf("failed to validate request: %w", err)
		}
		return schemaError(ve)
	}

	return nil
}

// schemaError flattens a schema failure into the first leaf cause.
func schemaError(err *jsonschema.ValidationError) *ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}

	field := strings.TrimPrefix(err.InstanceLocation, "/")
	msg := err.Message
	if field != "" {
		msg = fmt.Sprintf("%s: %s", field, err.Message)
	}
	return &ValidationError{Field: field, Message: msg}
}
