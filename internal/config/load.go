package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

// Load error codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeParse       = "E004" // Document could not be parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE evaluation or decoding failed
	ErrCodeUnsupported = "E008" // Unsupported file extension
)

// LoadError represents an error that occurred while reading a definition file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads a definition file, choosing the decoder by extension:
// .yaml, .yml and .json use strict YAML decoding, .cue is evaluated with CUE.
// Load does not validate; call Validate on the result.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading config file: %v", err)}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		return DecodeYAML(bytes.NewReader(data))
	case ".cue":
		return DecodeCUE(data, path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported config extension %q: use .yaml, .yml, .json or .cue", ext),
		}
	}
}

// DecodeYAML decodes a YAML (or JSON) document, rejecting unknown fields.
func DecodeYAML(r io.Reader) (*File, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var f File
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parsing config: %v", err)}
	}
	return &f, nil
}

// DecodeCUE evaluates a CUE document and decodes it into a File.
// filename is used for error positions only.
func DecodeCUE(data []byte, filename string) (*File, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeParse, err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, err)
	}

	var f File
	if err := value.Decode(&f); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, err)
	}
	return &f, nil
}

// cueLoadError converts a CUE error to a LoadError carrying its first position.
func cueLoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error()}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	first := errs[0]
	le.Message = first.Error()
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
