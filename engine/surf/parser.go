package surf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	m "math"
	"os"
	"strconv"
	"strings"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/geometry"
	"github.com/spaghettifunk/tessera/engine/math"
)

// SectionKeyword marks the start of the triangle list. The marker line and
// the count header both use it, compared case-insensitively on trimmed lines.
const SectionKeyword = "Triangles"

const commentPrefix = "#"

// A data row is one integer id followed by nine coordinates.
const triangleTokenCount = 10

// ParserConfig selects between the tolerant default behavior and the strict
// variants. Both strict knobs exist because surf producers disagree on
// whether a count mismatch or trailing content means corruption.
type ParserConfig struct {
	// StrictCount turns a declared/parsed triangle count mismatch from an
	// advisory into an error.
	StrictCount bool
	// StrictTrailing ends the triangle section at the first blank line and
	// rejects any later non-comment content instead of ignoring it.
	StrictTrailing bool
}

// Result is the outcome of parsing one surf file.
type Result struct {
	// Triangles preserves file order; order feeds canonical-vertex
	// tie-breaking during deduplication.
	Triangles []geometry.RawTriangle
	// DeclaredCount is the triangle count from the header line, -1 when the
	// file never declares one.
	DeclaredCount int
	// Advisories carries non-fatal findings, currently count mismatches.
	Advisories []error
}

// Parsing walks a small state machine instead of breaking out of a bare scan
// loop, so every malformed-but-triangle-shaped line has a defined error
// transition.
type parseState int

const (
	stateSeekHeader parseState = iota
	stateSeekSectionMarker
	stateReadingTriangles
	stateDone
)

type Parser struct {
	config ParserConfig
}

func NewParser(config ParserConfig) *Parser {
	return &Parser{config: config}
}

// ParseFile reads path in full, closes it, then parses the content.
func (p *Parser) ParseFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return p.parse(data, path)
}

// Parse consumes the reader fully before parsing. name identifies the source
// in errors and logs.
func (p *Parser) Parse(r io.Reader, name string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return p.parse(data, name)
}

func (p *Parser) parse(data []byte, name string) (*Result, error) {
	res := &Result{DeclaredCount: -1}

	state := stateSeekHeader
	markerLine := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch state {
		case stateSeekHeader, stateSeekSectionMarker:
			if line == "" || strings.HasPrefix(line, commentPrefix) {
				continue
			}
			if n, ok := parseCountLine(line); ok {
				res.DeclaredCount = n
				state = stateSeekSectionMarker
				continue
			}
			if isSectionMarker(line) {
				state = stateReadingTriangles
				markerLine = lineNo
			}
			// Anything else ahead of the marker is some other section and
			// not ours to judge.

		case stateReadingTriangles:
			if line == "" {
				if p.config.StrictTrailing {
					state = stateDone
				}
				continue
			}
			if strings.HasPrefix(line, commentPrefix) {
				continue
			}

			tokens := strings.Fields(line)
			id, err := strconv.ParseInt(tokens[0], 10, 64)
			if err != nil {
				// Not triangle-shaped: the list is over.
				if p.config.StrictTrailing {
					ferr := &core.FormatError{File: name, Line: lineNo, Msg: fmt.Sprintf("unexpected content after triangle data: %q", line)}
					core.LogError(ferr.Error())
					return nil, ferr
				}
				state = stateDone
				continue
			}

			// A trailing "<N> triangles" header closes the section.
			if n, ok := parseCountLine(line); ok {
				res.DeclaredCount = n
				state = stateDone
				continue
			}

			tri, perr := parseTriangleLine(id, tokens, name, lineNo)
			if perr != nil {
				core.LogError(perr.Error())
				return nil, perr
			}
			res.Triangles = append(res.Triangles, tri)

		case stateDone:
			if !p.config.StrictTrailing {
				continue
			}
			if line == "" || strings.HasPrefix(line, commentPrefix) {
				continue
			}
			ferr := &core.FormatError{File: name, Line: lineNo, Msg: fmt.Sprintf("unexpected content after triangle data: %q", line)}
			core.LogError(ferr.Error())
			return nil, ferr
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	if state == stateSeekHeader || state == stateSeekSectionMarker {
		err := &core.FormatError{File: name, Msg: fmt.Sprintf("missing %q section marker", SectionKeyword)}
		core.LogError(err.Error())
		return nil, err
	}
	if len(res.Triangles) == 0 {
		err := &core.FormatError{File: name, Line: markerLine, Msg: "no triangle data after section marker"}
		core.LogError(err.Error())
		return nil, err
	}

	if res.DeclaredCount >= 0 && res.DeclaredCount != len(res.Triangles) {
		verr := &core.ValidationError{File: name, Declared: res.DeclaredCount, Parsed: len(res.Triangles)}
		if p.config.StrictCount {
			core.LogError(verr.Error())
			return nil, verr
		}
		core.LogWarn(verr.Error())
		res.Advisories = append(res.Advisories, verr)
	}

	core.LogDebug("parsed %d triangles from %s", len(res.Triangles), name)
	return res, nil
}

// parseCountLine recognizes the header form "<unsigned integer> triangles".
func parseCountLine(line string) (int, bool) {
	tokens := strings.Fields(line)
	if len(tokens) != 2 || !strings.EqualFold(tokens[1], SectionKeyword) {
		return 0, false
	}
	n, err := strconv.ParseUint(tokens[0], 10, 63)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func isSectionMarker(line string) bool {
	return strings.EqualFold(line, SectionKeyword)
}

// parseTriangleLine converts one data row. The first token has already been
// parsed as the id.
func parseTriangleLine(id int64, tokens []string, name string, lineNo int) (geometry.RawTriangle, error) {
	if len(tokens) != triangleTokenCount {
		return geometry.RawTriangle{}, &core.ParseError{
			File: name,
			Line: lineNo,
			Msg:  fmt.Sprintf("malformed triangle line: %d tokens, want %d", len(tokens), triangleTokenCount),
		}
	}

	var coords [9]float64
	for i, tok := range tokens[1:] {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return geometry.RawTriangle{}, &core.ParseError{
				File: name,
				Line: lineNo,
				Msg:  fmt.Sprintf("coordinate %d is not numeric: %q", i+1, tok),
			}
		}
		if m.IsNaN(v) || m.IsInf(v, 0) {
			return geometry.RawTriangle{}, &core.ParseError{
				File: name,
				Line: lineNo,
				Msg:  fmt.Sprintf("coordinate %d is not finite: %q", i+1, tok),
			}
		}
		coords[i] = v
	}

	return geometry.RawTriangle{
		ID: id,
		Verts: [3]math.Vec3{
			{X: coords[0], Y: coords[1], Z: coords[2]},
			{X: coords[3], Y: coords[4], Z: coords[5]},
			{X: coords[6], Y: coords[7], Z: coords[8]},
		},
	}, nil
}
