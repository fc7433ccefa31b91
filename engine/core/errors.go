package core

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyScene = errors.New("scene contains no loadable objects")
)

// FormatError reports a structural problem in an input file: a required
// section that never appears, or a line that violates the format.
type FormatError struct {
	File string
	Line int // 1-based, 0 when not tied to a single line
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("format error in %s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("format error in %s: %s", e.File, e.Msg)
}

// ParseError reports a line that is shaped like triangle data but does not
// tokenize or convert cleanly.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s:%d: %s", e.File, e.Line, e.Msg)
}

// ValidationError reports a declared/parsed triangle count mismatch. Advisory
// unless strict count checking is configured.
type ValidationError struct {
	File     string
	Declared int
	Parsed   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s declares %d triangles, parsed %d", e.File, e.Declared, e.Parsed)
}

// MissingFileError reports a scene entry whose declared path does not resolve
// to an existing file.
type MissingFileError struct {
	Declared string
	Resolved string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("surf file not found: %s (resolved to %s)", e.Declared, e.Resolved)
}

// DegenerateMeshError reports a repair pass that dropped every face.
type DegenerateMeshError struct {
	Name    string
	Dropped int
}

func (e *DegenerateMeshError) Error() string {
	return fmt.Sprintf("mesh %s is fully degenerate, all %d faces dropped", e.Name, e.Dropped)
}
