package chainspec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// object is a JSON object that keeps its key order and leaves values as
// raw bytes, so untouched values are written back exactly as read.
type object struct {
	keys   []string
	values map[string]json.RawMessage
}

func decodeObject(data []byte) (*object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected a JSON object")
	}

	o := &object{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		if _, dup := o.values[key]; !dup {
			o.keys = append(o.keys, key)
		}
		o.values[key] = raw
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON object")
	}
	return o, nil
}

func (o *object) get(key string) (json.RawMessage, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *object) set(key string, value any) error {
	raw, err := marshal(value)
	if err != nil {
		return err
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
	return nil
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(o.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SetGenesisExtraData rewrites genesis.extraData in the chainspec at path.
// Key order and all other values are preserved; output uses 2-space indent
// and a trailing newline. The file is replaced atomically.
func SetGenesisExtraData(path, extraData string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read chainspec: %w", err)
	}

	spec, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("failed to parse chainspec: %w", err)
	}

	rawGenesis, ok := spec.get("genesis")
	if !ok {
		return fmt.Errorf("chainspec %s has no genesis section", path)
	}
	genesis, err := decodeObject(rawGenesis)
	if err != nil {
		return fmt.Errorf("failed to parse chainspec genesis: %w", err)
	}

	if err := genesis.set("extraData", extraData); err != nil {
		return err
	}
	if err := spec.set("genesis", genesis); err != nil {
		return err
	}

	compact, err := spec.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return fmt.Errorf("failed to format chainspec: %w", err)
	}
	out.WriteByte('\n')

	return writeFileAtomic(path, out.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".spec-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write chainspec: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write chainspec: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write chainspec: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace chainspec: %w", err)
	}
	return nil
}
