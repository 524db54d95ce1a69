package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/critnf/internal/compiler"
	"github.com/roach88/critnf/internal/criteria"
)

// IDPrefix prefixes the correlation ids of loaded documents. Each document
// numbers its correlated predicates from 1, so the ids in one document are
// "$q/1", "$q/2", ... in source order.
const IDPrefix = "$q/"

// LoadMode controls how errors are handled during document loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the documents loaded from a file or directory.
type LoadResult struct {
	Documents []*compiler.Document
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during document loading.
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

// LoadDocuments loads criteria documents from a .cue file or from the
// files without a package clause in a directory.
//
// The loaded value is either a single document (it has a criteria field)
// or a set of documents under "documents", keyed by name:
//
//	documents: adults: {columns: {age: "integer"}, criteria: ...}
//
// A document without a name field takes its key as name.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadDocuments(path string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}}
	}

	var dir, pkg string
	var args []string
	var cueFiles []string
	if info.IsDir() {
		dir = path
		args = []string{"."}
		// Document files carry no package clause.
		pkg = "_"
		cueFiles, err = FindCUEFiles(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		if len(cueFiles) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}}
		}
	} else {
		if filepath.Ext(path) != ".cue" {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("not a CUE file: %s", path)}}
		}
		dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
		cueFiles = []string{path}
	}

	ctx := cuecontext.New()
	instances := load.Instances(args, &load.Config{Dir: dir, Package: pkg})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	var errs []error
	if value.LookupPath(cue.ParsePath("criteria")).Exists() {
		doc, err := compileDocument(value, "")
		if err != nil {
			return result, []error{convertCompileError(err, "criteria")}
		}
		result.Documents = append(result.Documents, doc)
		return result, nil
	}

	docsVal := value.LookupPath(cue.ParsePath("documents"))
	if !docsVal.Exists() {
		return result, []error{&LoadError{Code: ErrCodeNoDocuments, Message: "no criteria or documents found"}}
	}

	iter, err := docsVal.Fields()
	if err != nil {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating documents: %v", err)}}
	}
	for iter.Next() {
		label := iter.Label()
		doc, err := compileDocument(iter.Value(), label)
		if err != nil {
			errs = append(errs, convertCompileError(err, "documents."+label))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Documents = append(result.Documents, doc)
	}

	if len(result.Documents) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoDocuments, Message: "documents is empty"})
	}

	sort.SliceStable(result.Documents, func(i, j int) bool {
		return result.Documents[i].Name < result.Documents[j].Name
	})
	return result, errs
}

// compileDocument compiles one document with its own id sequence.
func compileDocument(v cue.Value, label string) (*compiler.Document, error) {
	ids := criteria.NewCounter(IDPrefix)
	doc, err := compiler.CompileDocument(v, criteria.WithCorrelationIDs(ids))
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = label
	}
	return doc, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeCompile,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeNoDocuments = "E007" // Neither criteria nor documents present
	ErrCodeCompile     = "E008" // Criteria node failed to compile
	ErrCodeDatabase    = "E009" // Normalization cache error
	ErrCodeSQL         = "E010" // Predicate cannot be rendered as SQL
	ErrCodeBinding     = "E011" // Malformed --bind value
)
