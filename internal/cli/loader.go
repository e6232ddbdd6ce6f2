package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/roach88/specdoc/internal/capture"
)

// LoadMode controls how errors are handled during capture loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadedCapture is one decoded capture file.
type LoadedCapture struct {
	File   string
	Result *capture.Result
}

// LoadResult contains the captures loaded from the command arguments.
type LoadResult struct {
	Captures  []LoadedCapture
	FileCount int // Number of capture files found
}

// LoadError represents an error that occurred during capture loading.
type LoadError struct {
	Code    string
	Message string
	File    string
	Issues  []capture.Issue
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadCaptures loads capture files. Each path is a capture file or a
// directory searched recursively for *.yaml and *.yml files.
// A nil result means nothing could be loaded at all.
func LoadCaptures(paths []string, mode LoadMode) (*LoadResult, []error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("capture path not found: %s", p)}}
		}
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing capture path: %v", err)}}
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := FindCaptureFiles(p)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no capture files found in %v", paths)}}
	}

	result := &LoadResult{FileCount: len(files)}
	var errs []error
	for _, file := range files {
		r, err := capture.LoadResult(file)
		if err != nil {
			errs = append(errs, convertLoadError(file, err))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Captures = append(result.Captures, LoadedCapture{File: file, Result: r})
	}
	return result, errs
}

// FindCaptureFiles walks the directory and returns all YAML file paths in
// lexical order.
func FindCaptureFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	slices.Sort(files)
	return files, err
}

// convertLoadError classifies a capture loading error.
func convertLoadError(file string, err error) *LoadError {
	var schemaErr *capture.SchemaError
	if errors.As(err, &schemaErr) {
		return &LoadError{
			Code:    ErrCodeSchemaInvalid,
			Message: schemaErr.Error(),
			File:    file,
			Issues:  schemaErr.Issues,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: err.Error(),
		File:    file,
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No capture files found
	ErrCodeLoadFailed    = "E004" // Capture file unreadable or malformed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeSchemaInvalid = "E006" // Capture failed schema validation
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeConfig        = "E008" // Invalid configuration

	// Rendering errors
	ErrCodeNoRenderer     = "E101" // No renderer matched a value
	ErrCodeRenderFailed   = "E102" // A renderer failed
	ErrCodeInvalidDiagram = "E103" // Participants/messages rejected
	ErrCodeCompileFailed  = "E104" // Diagram compiler failed
	ErrCodeCanonicalize   = "E105" // Compiler output not well-formed XML

	// Archive errors
	ErrCodeArchive        = "E201" // Report archive failure
	ErrCodeReportNotFound = "E202" // Report missing from the archive
)
