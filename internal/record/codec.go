package record

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

//go:embed schema/payload.json
var payloadSchemaJSON []byte

const payloadSchemaURL = "schema://advancer/payload.json"

var (
	compileOnce      sync.Once
	compiledSchema   *jsonschema.Schema
	compileSchemaErr error
)

// ErrUnsupportedVersion is returned for payloads from an incompatible build.
var ErrUnsupportedVersion = errors.New("unsupported payload schema version")

// ErrInvalidPayload wraps a payload that failed decoding or validation.
type ErrInvalidPayload struct {
	Content []byte
	Err     error
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid session payload: %v", e.Err)
}

func (e *ErrInvalidPayload) Unwrap() error {
	return e.Err
}

// Encode serializes p.
func Encode(p Payload) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return raw, nil
}

// Decode parses and validates a payload produced by Encode.
func Decode(raw []byte) (Payload, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Payload{}, &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := payloadSchema()
	if err != nil {
		return Payload{}, &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("compile schema: %w", err)}
	}
	if err := compiled.Validate(parsed); err != nil {
		return Payload{}, &ErrInvalidPayload{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, &ErrInvalidPayload{Content: raw, Err: err}
	}
	if err := CheckVersion(p.SchemaVersion); err != nil {
		return Payload{}, &ErrInvalidPayload{Content: raw, Err: err}
	}
	return p, nil
}

// CheckVersion accepts any version with the same major as SchemaVersion.
func CheckVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, v)
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return fmt.Errorf("%w: %s (want %s.x)", ErrUnsupportedVersion, v, semver.Major(SchemaVersion))
	}
	return nil
}

func payloadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(payloadSchemaJSON))
		if err != nil {
			compileSchemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(payloadSchemaURL, doc); err != nil {
			compileSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileSchemaErr = c.Compile(payloadSchemaURL)
	})
	return compiledSchema, compileSchemaErr
}
