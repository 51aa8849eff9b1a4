package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// runDocumentSchema describes the serialized BenchmarkRun document shape
// accepted by Import. It checks structure, not values: the engine already
// guarantees internal consistency of anything it exported.
const runDocumentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "createdAt", "hardware", "runs"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string"},
    "createdAt": {"type": "string"},
    "hardware": {
      "type": "object",
      "required": ["os", "cpu", "memoryMB", "runtime"],
      "properties": {
        "os": {"type": "string"},
        "cpu": {"type": "string"},
        "memoryMB": {"type": "number"},
        "runtime": {"type": "string"}
      }
    },
    "runs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["endpoint", "variant", "scenario", "config", "results"],
        "properties": {
          "endpoint": {"type": "string"},
          "variant": {"type": "string"},
          "scenario": {"type": "string"},
          "config": {
            "type": "object",
            "required": ["duration", "concurrency"],
            "properties": {
              "duration": {"type": "string"},
              "concurrency": {"type": "integer"},
              "warmupRequests": {"type": "integer"},
              "httpTimeoutSeconds": {"type": "integer"}
            }
          },
          "results": {
            "type": "object",
            "required": ["totalRequests", "requestsPerSecond", "errors", "durationMs"],
            "properties": {
              "totalRequests": {"type": "integer"},
              "requestsPerSecond": {"type": "number"},
              "latencyP50": {"type": "number"},
              "latencyP95": {"type": "number"},
              "latencyP99": {"type": "number"},
              "errors": {"type": "integer"},
              "durationMs": {"type": "number"},
              "avgCpuPercent": {"type": "number"},
              "avgMemoryMB": {"type": "number"},
              "peakMemoryMB": {"type": "number"}
            }
          }
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// ValidateDocument checks a serialized run document against the schema.
func ValidateDocument(doc []byte) error {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("benchmarkrun.schema.json", runDocumentSchema)
	})
	if schemaErr != nil {
		return schemaErr
	}

	var value interface{}
	if err := json.Unmarshal(doc, &value); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return schema.Validate(value)
}
