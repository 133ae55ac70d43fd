package personality

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

//go:embed bank/default.json
var defaultBankJSON []byte

// SupportedMajor is the bank format major version this build understands.
const SupportedMajor = "v1"

// ErrUnsupportedVersion is returned for banks whose version is not a
// valid semver or has a different major version.
var ErrUnsupportedVersion = errors.New("unsupported question bank version")

// Bank is a versioned set of questions.
type Bank struct {
	Version   string     `json:"version"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// bankSchema is the JSON schema every bank document must satisfy.
var bankSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version": map[string]any{"type": "string", "minLength": 1},
		"title":   map[string]any{"type": "string"},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type": []any{"string", "integer", "null"},
					},
					"text": map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":     "array",
						"minItems": 2,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"text":  map[string]any{"type": "string", "minLength": 1},
								"trait": map[string]any{"type": "string"},
							},
							"required":             []any{"text"},
							"additionalProperties": false,
						},
					},
					"maxSelect": map[string]any{"type": "integer", "minimum": 1},
				},
				"required":             []any{"text", "options"},
				"additionalProperties": false,
			},
		},
	},
	"required": []any{"version", "questions"},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledBankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants decoded JSON values, not Go literals.
		raw, err := json.Marshal(bankSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal bank schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(raw, &def); err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://question-bank.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

// ParseBank decodes, validates and normalizes a bank document.
func ParseBank(data []byte) (*Bank, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	schema, err := compiledBankSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate question bank: %w", err)
	}

	var bank Bank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	if err := checkVersion(bank.Version); err != nil {
		return nil, err
	}

	for i := range bank.Questions {
		q := &bank.Questions[i]
		if q.MaxSelect < 1 {
			q.MaxSelect = 1
		}
		if q.MaxSelect > len(q.Options) {
			q.MaxSelect = len(q.Options)
		}
	}

	return &bank, nil
}

// LoadBankFile reads and parses the bank at path.
func LoadBankFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return ParseBank(data)
}

// DefaultBank returns the bank compiled into the binary.
func DefaultBank() (*Bank, error) {
	return ParseBank(defaultBankJSON)
}

func checkVersion(v string) error {
	canonical := "v" + strings.TrimPrefix(v, "v")
	if !semver.IsValid(canonical) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if major := semver.Major(canonical); major != SupportedMajor {
		return fmt.Errorf("%w: major %s, want %s", ErrUnsupportedVersion, major, SupportedMajor)
	}
	return nil
}
