package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/idsgo/internal/compiler"
	"github.com/roach88/idsgo/internal/ids"
	"github.com/roach88/idsgo/internal/metadata"
)

// LoadError represents an error that occurred while loading a dictionary
// or a document file.
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

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNoDictionary = "E002" // No dictionary path given
	ErrCodeBadDocument  = "E003" // Document file malformed
	ErrCodeStore        = "E004" // Store open or query failed
	ErrCodeNotFound     = "E005" // Path, IDS or occurrence not found
	ErrCodeExists       = "E006" // Occurrence already stored
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeVersion      = "E008" // Data dictionary version mismatch
	ErrCodeIntegrity    = "E009" // Stored data failed its hash check
	ErrCodeQuery        = "E010" // Malformed ls filter

	// Dictionary compile errors
	ErrCodeCUE         = "E120" // CUE syntax or schema error
	ErrCodeDDVersion   = "E121" // Invalid data dictionary version
	ErrCodeIDSFields   = "E122" // IDS without fields
	ErrCodeIDSInvalid  = "E123" // Duplicate or malformed IDS
	ErrCodeInvalidType = "E124" // Missing or unknown field type
	ErrCodeNodeInvalid = "E125" // Node rejected by the tree builder

	// Coordinate validation failure
	ErrCodeInvalidCoordinates = "E130"
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "cue":
		return ErrCodeCUE
	case field == "version":
		return ErrCodeDDVersion
	case field == "dictionary", field == "ids":
		return ErrCodeIDSInvalid
	case strings.HasSuffix(field, ".fields"):
		return ErrCodeIDSFields
	case strings.HasSuffix(field, ".type"):
		return ErrCodeInvalidType
	case strings.Contains(field, "/"):
		return ErrCodeNodeInvalid
	case field != "":
		return ErrCodeIDSInvalid
	default:
		return ErrCodeGeneric
	}
}

// LoadDictionary compiles the Data Dictionary at path into a LoadError on
// failure.
func LoadDictionary(path string) (*metadata.Dictionary, error) {
	if path == "" {
		return nil, &LoadError{Code: ErrCodeNoDictionary, Message: "no dictionary given (use --dictionary or IDSGO_DICTIONARY)"}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("dictionary not found: %s", path)}
	}

	dict, err := compiler.Load(path)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return dict, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// DocumentFile is the YAML form of one IDS occurrence.
//
//	ids: core_profiles
//	occurrence: 0
//	data:
//	  ids_properties:
//	    homogeneous_time: 1
//	  time: [0.0, 1.0]
type DocumentFile struct {
	IDS        string         `yaml:"ids"`
	Occurrence int            `yaml:"occurrence"`
	Data       map[string]any `yaml:"data"`
}

// LoadDocumentFile reads a document file. Unknown top-level keys are
// rejected.
func LoadDocumentFile(path string) (*DocumentFile, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("document not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadDocument, Message: err.Error()}
	}

	var f DocumentFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, &LoadError{Code: ErrCodeBadDocument, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	if f.IDS == "" {
		return nil, &LoadError{Code: ErrCodeBadDocument, Message: fmt.Sprintf("%s: ids is required", path)}
	}
	if f.Occurrence < 0 {
		return nil, &LoadError{Code: ErrCodeBadDocument, Message: fmt.Sprintf("%s: negative occurrence %d", path, f.Occurrence)}
	}
	return &f, nil
}

// BuildDocument fills a new document of f.IDS from dict with f.Data.
func BuildDocument(dict *metadata.Dictionary, f *DocumentFile) (*ids.IDS, error) {
	tree, err := dict.IDS(f.IDS)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}
	doc, err := ids.New(tree)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	if err := ids.Fill(doc.Root(), f.Data); err != nil {
		return nil, &LoadError{Code: ErrCodeBadDocument, Message: err.Error()}
	}
	return doc, nil
}

// loadErrorParts returns the code and message of err.
func loadErrorParts(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
