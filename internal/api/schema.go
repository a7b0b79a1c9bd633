package api

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tgienger/todo/internal/models"
)

//go:embed task.schema.json
var taskSchemaJSON string

const taskSchemaURL = "task.schema.json"

var (
	schemaOnce sync.Once
	taskSchema *jsonschema.Schema
	schemaErr  error
)

func compiledTaskSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		taskSchema, schemaErr = compiler.Compile(taskSchemaURL)
	})
	return taskSchema, schemaErr
}

// decodeTask validates a single task document and decodes it.
func decodeTask(body []byte) (models.Task, error) {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := validateTask(doc); err != nil {
		return models.Task{}, err
	}

	var task models.Task
	if err := json.Unmarshal(body, &task); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return task, nil
}

// decodeTasks validates a task array and decodes it.
func decodeTasks(body []byte) ([]models.Task, error) {
	var docs []interface{}
	if err := json.Unmarshal(body, &docs); err != nil {
		return nil, fmt.Errorf("%w: expected an array: %v", ErrInvalidPayload, err)
	}
	if docs == nil {
		return nil, fmt.Errorf("%w: expected an array, got null", ErrInvalidPayload)
	}
	for i, doc := range docs {
		if err := validateTask(doc); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	tasks := make([]models.Task, 0, len(docs))
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return tasks, nil
}

func validateTask(doc interface{}) error {
	schema, err := compiledTaskSchema()
	if err != nil {
		return fmt.Errorf("compile task schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("%w: %s", ErrInvalidPayload, firstCause(ve))
		}
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// firstCause walks to the deepest validation error for a readable message.
func firstCause(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}
