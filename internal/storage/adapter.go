package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"tudu/internal/task"
)

// DefaultKey is the key the task list is stored under.
const DefaultKey = "todos"

//go:embed tasks.schema.json
var tasksSchemaJSON string

const tasksSchemaURL = "tasks.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func tasksSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(tasksSchemaURL, strings.NewReader(tasksSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(tasksSchemaURL)
	})
	return schema, schemaErr
}

// Adapter reads and writes the whole task list under one key.
type Adapter struct {
	kv     KV
	key    string
	logger *log.Logger
}

func NewAdapter(kv KV, key string, logger *log.Logger) *Adapter {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Adapter{kv: kv, key: key, logger: logger}
}

// Load returns the stored list. Anything missing, unreadable or malformed
// yields an empty list.
func (a *Adapter) Load() []task.Task {
	raw, ok, err := a.kv.Get(a.key)
	if err != nil {
		a.logger.Warn("read stored tasks", "key", a.key, "err", err)
		return []task.Task{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []task.Task{}
	}
	tasks, err := Decode([]byte(raw))
	if err != nil {
		a.logger.Warn("discarding stored tasks", "key", a.key, "err", err)
		return []task.Task{}
	}
	return tasks
}

// Save overwrites the stored list with tasks.
func (a *Adapter) Save(tasks []task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := a.kv.Set(a.key, string(data)); err != nil {
		a.logger.Error("save tasks", "key", a.key, "count", len(tasks), "err", err)
		return fmt.Errorf("save tasks: %w", err)
	}
	a.logger.Debug("saved tasks", "key", a.key, "count", len(tasks))
	return nil
}

func (a *Adapter) Close() error {
	return a.kv.Close()
}

// Encode serializes tasks as a JSON array. An empty list encodes as [].
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// Decode parses and validates a stored task array.
func Decode(data []byte) ([]task.Task, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	sch, err := tasksSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, schemaError(err)
	}
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Errorf("invalid tasks at %s: %s", loc, ve.Message)
}
