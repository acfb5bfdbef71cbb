package internal

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Source loads a statement from a path and runs it through the import
// pipeline, returning a completed session. "-" as the path means stdin,
// which is what an OCR front end pipes in.
type Source interface {
	Load(path string, fallbackYear int, h Heuristics) (*ImportSession, error)
}

// SourceFunc is a function that implements Source.
type SourceFunc func(path string, fallbackYear int, h Heuristics) (*ImportSession, error)

func (f SourceFunc) Load(path string, fallbackYear int, h Heuristics) (*ImportSession, error) {
	return f(path, fallbackYear, h)
}

// sources is the registry of available statement sources.
var sources = map[string]Source{}

// RegisterSource registers a source with the given name.
func RegisterSource(name string, s Source) {
	sources[name] = s
}

// GetSource returns the source for the given type name.
func GetSource(name string) (Source, error) {
	s, ok := sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %s (available: %v)", name, AvailableSources())
	}
	return s, nil
}

// AvailableSources returns the registered source type names, sorted.
func AvailableSources() []string {
	var names []string
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnownSource returns true if the name is a registered source.
func IsKnownSource(name string) bool {
	_, ok := sources[name]
	return ok
}

// ParseFileArg parses a file argument that may have a source prefix.
// Returns (source, path). If no valid prefix, source is empty.
// Example: "xlsx:export.xlsx" → ("xlsx", "export.xlsx")
// Example: "statement.txt" → ("", "statement.txt")
// Example: "C:\path\file.xlsx" → ("", "C:\path\file.xlsx") // Windows path
func ParseFileArg(arg string) (source, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownSource(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg // Not a known source, treat whole thing as path
}

// loadTextStatement reads a raw statement blob and runs the full pipeline.
func loadTextStatement(path string, fallbackYear int, h Heuristics) (*ImportSession, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	session := NewImportSession(string(data), fallbackYear)
	session.Run(h)
	return session, nil
}

func init() {
	// Register built-in sources
	RegisterSource("text", SourceFunc(loadTextStatement))
	RegisterSource("xlsx", SourceFunc(loadXLSXStatement))
}
