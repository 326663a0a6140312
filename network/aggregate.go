package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PropertiesKey is the resource name whose rows are folded into a
// name/value map by LoadAll.
const PropertiesKey = "properties"

// Data is the result of LoadAll, keyed like its input. The value for
// PropertiesKey is a map[string]any; every other value is the []any row
// list of the resource.
type Data map[string]any

// Properties returns the folded properties map, or nil.
func (d Data) Properties() map[string]any {
	props, _ := d[PropertiesKey].(map[string]any)
	return props
}

// Rows returns the row list loaded for key, or nil.
func (d Data) Rows(key string) []any {
	rows, _ := d[key].([]any)
	return rows
}

var (
	// ErrMissingData is returned when a response body has no "data" array.
	ErrMissingData = errors.New("response has no data array")

	// ErrBadRow is returned when a properties row is not an object with
	// a name.
	ErrBadRow = errors.New("properties row without name")
)

// StatusError reports a non-2xx HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// LoadAll fetches every entry of paths concurrently and decodes each body
// as JSON of the form {"data": [...]}. The first failure cancels the other
// fetches and is returned, wrapped with the key it belongs to. An empty
// paths map yields an empty Data.
func (l *Loader) LoadAll(ctx context.Context, paths map[string]string) (Data, error) {
	result := make(Data, len(paths))
	if len(paths) == 0 {
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	for key, path := range paths {
		key, path := key, path
		g.Go(func() error {
			value, err := l.loadEntry(gctx, key, path)
			if err != nil {
				return fmt.Errorf("loading %q: %w", key, err)
			}
			mu.Lock()
			result[key] = value
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracer().Errorf("loadAll: %v", err)
		return nil, err
	}
	tracer().Debugf("loadAll: %d resources loaded", len(result))
	return result, nil
}

func (l *Loader) loadEntry(ctx context.Context, key, path string) (any, error) {
	res, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, &StatusError{URL: res.URL, StatusCode: res.StatusCode}
	}
	rows, err := decodeRows(res.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.URL, err)
	}
	if key == PropertiesKey {
		return foldProperties(rows)
	}
	return rows, nil
}

// decodeRows extracts the "data" array from a JSON body.
func decodeRows(body []byte) ([]any, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	raw, ok := envelope["data"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ErrMissingData
	}
	var rows []any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingData, err)
	}
	if rows == nil {
		rows = []any{}
	}
	return rows, nil
}

// foldProperties turns [{name, value}, ...] into {name: value, ...}.
// Later rows win on duplicate names.
func foldProperties(rows []any) (map[string]any, error) {
	props := make(map[string]any, len(rows))
	for i, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: row %d is not an object", ErrBadRow, i)
		}
		name, ok := obj["name"]
		if !ok || name == nil {
			return nil, fmt.Errorf("%w: row %d", ErrBadRow, i)
		}
		key, isString := name.(string)
		if !isString {
			key = fmt.Sprint(name)
		}
		props[key] = obj["value"]
	}
	return props, nil
}
