package template

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"

	"photoframe/internal/pkg/errors"
	"photoframe/internal/ports"
)

// Load reads the template file at path, parses it and validates it.
// Validation failures are returned as *ValidationError unchanged; read and
// parse failures are returned as *errors.Error.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapWithCode(err, errors.CodeNotFound, "template.load", "template file not found").
				WithField("path", path)
		}
		return nil, errors.Wrap(err, "template.load", "failed to read template file").
			WithField("path", path)
	}
	return Decode(bytes.NewReader(data))
}

// LoadObject is Load for a template stored behind a storage provider.
func LoadObject(ctx context.Context, sp ports.StorageProvider, objectKey string) (Document, error) {
	rc, _, _, err := sp.GetObject(ctx, objectKey)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapWithCode(err, errors.CodeNotFound, "template.load", "template object not found").
				WithField("object_key", objectKey)
		}
		return nil, errors.Wrap(err, "template.load", "failed to read template object").
			WithField("object_key", objectKey)
	}
	defer rc.Close()
	return Decode(rc)
}

// Decode parses a single JSON object from r and validates it. Numbers are
// kept as json.Number so integer values survive unchanged.
func Decode(r io.Reader) (Document, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse reads a single JSON object from r without validating it.
func Parse(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeBadRequest, "template.parse", "malformed template json")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.WrapWithCode(fmt.Errorf("unexpected data after top-level value"), errors.CodeBadRequest, "template.parse", "malformed template json")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.WrapWithCode(fmt.Errorf("top-level value is %s", jsonKind(raw)), errors.CodeBadRequest, "template.parse", "template json must be an object")
	}
	return Document(obj), nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
