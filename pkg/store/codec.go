package store

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

//go:embed board.schema.json
var boardSchemaJSON []byte

const boardSchemaURL = "board.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func boardSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(boardSchemaURL, bytes.NewReader(boardSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("loading board schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(boardSchemaURL)
	})
	return schema, schemaErr
}

// ValidationError describes one problem in a stored board blob.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// EncodeBoard serializes the board as indented JSON. Nil task lists are
// written as empty arrays.
func EncodeBoard(b model.Board) ([]byte, error) {
	out := make(model.Board, len(b))
	for i, c := range b {
		out[i] = c
		if c.Tasks == nil {
			out[i].Tasks = []model.Task{}
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding board: %w", err)
	}
	return data, nil
}

// DecodeBoard parses a stored blob. The blob must match the board schema
// and the decoded board must pass model.Board.Validate.
func DecodeBoard(data []byte) (model.Board, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing board: %w", err)
	}

	sch, err := boardSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var b model.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing board: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}
	return b, nil
}

// schemaError flattens a jsonschema error tree into its first leaf, which
// names the offending location.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &ValidationError{
		Path: jsonPointerToPath(ve.InstanceLocation),
		Err:  errors.New(ve.Message),
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	parts := strings.Split(ptr, "/")
	var sb strings.Builder
	for _, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			sb.WriteString("[" + p + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(p)
	}
	return sb.String()
}
