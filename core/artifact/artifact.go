// Package artifact writes generated files according to their write policy.
package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// Kind identifies the target an artifact was generated for.
type Kind string

const (
	KindClientTypes  Kind = "ClientTypes"
	KindClientAPI    Kind = "ClientApi"
	KindClientHooks  Kind = "ClientHooks"
	KindServerRoutes Kind = "ServerRoutes"
	KindServerDTO    Kind = "ServerDto"
	KindOpenAPIDoc   Kind = "OpenApiDoc"
)

// Policy decides how an artifact meets an existing file.
type Policy int

const (
	// AlwaysOverwrite replaces the file.
	AlwaysOverwrite Policy = iota
	// WriteIfAbsent never touches an existing file.
	WriteIfAbsent
	// StructuralMerge folds the content into the existing file with the artifact's Merge func.
	StructuralMerge
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case AlwaysOverwrite:
		return "always-overwrite"
	case WriteIfAbsent:
		return "write-if-absent"
	case StructuralMerge:
		return "structural-merge"
	default:
		return "unknown"
	}
}

// Outcome is what Apply did with one artifact.
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeOverwritten Outcome = "overwritten"
	OutcomeMerged      Outcome = "merged"
	OutcomePreserved   Outcome = "preserved"
	OutcomeUnchanged   Outcome = "unchanged"
)

// Artifact is one generated file.
type Artifact struct {
	Kind    Kind
	Path    string
	Content []byte
	Policy  Policy

	// Merge computes the new content from the existing file's bytes. Required for
	// StructuralMerge; Content is written when the file does not exist yet.
	Merge func(existing []byte) ([]byte, error)
}

// Result reports the outcome for one artifact.
type Result struct {
	Kind    Kind    `json:"kind" yaml:"kind"`
	Path    string  `json:"path" yaml:"path"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Bytes   int     `json:"bytes" yaml:"bytes"`
}

// ErrDuplicatePath indicates two artifacts target the same file.
var ErrDuplicatePath = errors.New("duplicate artifact path")

// ErrWrite indicates a filesystem failure while applying an artifact.
var ErrWrite = errors.New("artifact write failed")

// WriteError describes a failed artifact write.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is matches ErrWrite.
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// Apply writes the artifacts in order. Every path is touched at most once; duplicates are
// rejected before anything is written. Apply stops at the first failure and returns the
// results gathered so far.
func Apply(artifacts []Artifact, logger zerolog.Logger) ([]Result, error) {
	seen := make(map[string]bool, len(artifacts))
	for _, a := range artifacts {
		clean := filepath.Clean(a.Path)
		if seen[clean] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, a.Path)
		}
		seen[clean] = true
		if a.Policy == StructuralMerge && a.Merge == nil {
			return nil, fmt.Errorf("artifact %s: structural merge without merge function", a.Path)
		}
	}

	results := make([]Result, 0, len(artifacts))
	for _, a := range artifacts {
		r, err := apply(a)
		if err != nil {
			return results, err
		}
		logger.Debug().
			Str("kind", string(r.Kind)).
			Str("path", r.Path).
			Str("outcome", string(r.Outcome)).
			Int("bytes", r.Bytes).
			Msg("Artifact applied")
		results = append(results, r)
	}
	return results, nil
}

func apply(a Artifact) (Result, error) {
	r := Result{Kind: a.Kind, Path: a.Path}

	existing, err := os.ReadFile(a.Path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		if a.Policy != StructuralMerge {
			return r, &WriteError{Path: a.Path, Op: "read", Err: err}
		}
		// unreadable documents are replaced by the fresh content
		existing, exists = nil, true
	}

	content := a.Content
	switch a.Policy {
	case WriteIfAbsent:
		if exists {
			r.Outcome = OutcomePreserved
			r.Bytes = len(existing)
			return r, nil
		}
	case StructuralMerge:
		if exists {
			merged, err := a.Merge(existing)
			if err != nil {
				return r, &WriteError{Path: a.Path, Op: "merge", Err: err}
			}
			content = merged
		}
	}

	r.Bytes = len(content)
	switch {
	case !exists:
		r.Outcome = OutcomeCreated
	case bytes.Equal(existing, content):
		r.Outcome = OutcomeUnchanged
		return r, nil
	case a.Policy == StructuralMerge:
		r.Outcome = OutcomeMerged
	default:
		r.Outcome = OutcomeOverwritten
	}

	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		return r, &WriteError{Path: a.Path, Op: "mkdir", Err: err}
	}
	if err := writeFile(a.Path, content); err != nil {
		return r, &WriteError{Path: a.Path, Op: "write", Err: err}
	}
	return r, nil
}

// writeFile replaces path atomically through a temporary file in the same directory.
func writeFile(path string, content []byte) error {
	return renameio.WriteFile(path, content, 0o644)
}
