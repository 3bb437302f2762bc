package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
)

// JSON export files. Same wire shape the API speaks, pretty-printed so they
// diff well.

func Write(w io.Writer, todos []model.Todo) error {
	items := make([]api.WireTodo, 0, len(todos))
	for _, t := range todos {
		items = append(items, api.TodoToWire(t))
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Read parses an export file. Ids are optional; import assigns new ones.
func Read(r io.Reader) ([]model.Todo, error) {
	var items []api.WireTodo
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Todo{}, nil
		}
		return nil, fmt.Errorf("json decode: %w", err)
	}
	todos := make([]model.Todo, 0, len(items))
	for _, it := range items {
		t, err := it.Model()
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, nil
}

func Save(path string, todos []model.Todo) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	if err := Write(f, todos); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

func Load(path string) ([]model.Todo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Read(f)
}
