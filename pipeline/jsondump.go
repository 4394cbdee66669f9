package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nao1215/antcrawl/thing"
)

// JSONDump appends Items to a file as JSON Lines. The file is opened in
// OnOpen and closed in OnClose; Items pass through unchanged so further
// stages still see them.
type JSONDump struct {
	Base

	path string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewJSONDump creates a JSONDump writing to path. Parent directories are
// created on open.
func NewJSONDump(path string) *JSONDump {
	return &JSONDump{path: path}
}

// Name implements Pipeline.
func (*JSONDump) Name() string { return "jsondump" }

// OnOpen opens the dump file for appending.
func (j *JSONDump) OnOpen(context.Context) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0750); err != nil {
		return fmt.Errorf("create dump directory: %w", err)
	}
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open dump file: %w", err)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.file = f
	j.enc = json.NewEncoder(f)
	return nil
}

// OnClose closes the dump file.
func (j *JSONDump) OnClose(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	j.enc = nil
	return err
}

// Process implements Pipeline.
func (j *JSONDump) Process(_ context.Context, t thing.Thing) (thing.Thing, error) {
	item, ok := t.(*thing.Item)
	if !ok {
		return t, nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.enc == nil {
		return nil, fmt.Errorf("dump file %s is not open", j.path)
	}
	if err := j.enc.Encode(item); err != nil {
		return nil, fmt.Errorf("write item: %w", err)
	}
	return item, nil
}
