package surf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
)

func parseString(t *testing.T, content string, config ParserConfig) (*Result, error) {
	t.Helper()
	return NewParser(config).Parse(strings.NewReader(content), "test.surf")
}

func createTempSurfFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mesh.surf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestParseWellFormedFile(t *testing.T) {
	content := `# surface element file
2 triangles

Triangles
1 0 0 0 1.0 0 0 0 1.0 0
2 0 0 0 1.0e+00 0 0 0 0 -2.5e-01
`
	res, err := parseString(t, content, ParserConfig{})
	if err != nil {
		t.Fatalf("Parse returned %v; want nil", err)
	}
	if len(res.Triangles) != 2 {
		t.Fatalf("triangles = %d; want 2", len(res.Triangles))
	}
	if res.DeclaredCount != 2 {
		t.Fatalf("DeclaredCount = %d; want 2", res.DeclaredCount)
	}
	if len(res.Advisories) != 0 {
		t.Fatalf("advisories = %v; want none", res.Advisories)
	}

	tri := res.Triangles[1]
	if tri.ID != 2 {
		t.Fatalf("triangle id = %d; want 2", tri.ID)
	}
	if tri.Verts[1] != (math.Vec3{X: 1, Y: 0, Z: 0}) {
		t.Fatalf("v2 = %v; want {1 0 0}", tri.Verts[1])
	}
	if tri.Verts[2] != (math.Vec3{X: 0, Y: 0, Z: -0.25}) {
		t.Fatalf("v3 = %v; want {0 0 -0.25}", tri.Verts[2])
	}
}

func TestParseMarkerWithoutCount(t *testing.T) {
	content := `Triangles
1 0 0 0 1 0 0 0 1 0
`
	res, err := parseString(t, content, ParserConfig{})
	if err != nil {
		t.Fatalf("Parse returned %v; want nil", err)
	}
	if res.DeclaredCount != -1 {
		t.Fatalf("DeclaredCount = %d; want -1 when the file never declares one", res.DeclaredCount)
	}
}

func TestParseCountAfterData(t *testing.T) {
	content := `Triangles
1 0 0 0 1 0 0 0 1 0
2 0 0 1 1 0 1 0 1 1
2 triangles
`
	res, err := parseString(t, content, ParserConfig{})
	if err != nil {
		t.Fatalf("Parse returned %v; want nil", err)
	}
	if len(res.Triangles) != 2 {
		t.Fatalf("triangles = %d; want 2", len(res.Triangles))
	}
	if res.DeclaredCount != 2 {
		t.Fatalf("DeclaredCount = %d; want 2 from the trailing header", res.DeclaredCount)
	}
}

func TestParseMissingMarker(t *testing.T) {
	content := `2 triangles
1 0 0 0 1 0 0 0 1 0
`
	_, err := parseString(t, content, ParserConfig{})
	if err == nil {
		t.Fatal("Parse returned nil error for a file without a section marker")
	}
	var ferr *core.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("error type = %T; want *core.FormatError", err)
	}
	if !strings.Contains(err.Error(), "test.surf") || !strings.Contains(err.Error(), "section marker") {
		t.Fatalf("error = %q; want it to name the file and the missing marker", err)
	}
}

func TestParseMalformedTriangleLine(t *testing.T) {
	content := `Triangles
1 0 0 0 1 0 0 0 1 0
2 0 0 0 1 0
`
	_, err := parseString(t, content, ParserConfig{})
	if err == nil {
		t.Fatal("Parse returned nil error for a short triangle line")
	}
	var perr *core.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T; want *core.ParseError", err)
	}
	if perr.Line != 3 {
		t.Fatalf("error line = %d; want 3", perr.Line)
	}
	if !strings.Contains(err.Error(), "malformed triangle line") {
		t.Fatalf("error = %q; want a malformed triangle line message", err)
	}
}

func TestParseNonNumericCoordinate(t *testing.T) {
	content := `Triangles
1 0 0 0 one 0 0 0 1 0
`
	_, err := parseString(t, content, ParserConfig{})
	var perr *core.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v (%T); want *core.ParseError", err, err)
	}
	if perr.Line != 2 {
		t.Fatalf("error line = %d; want 2", perr.Line)
	}
	if !strings.Contains(err.Error(), "not numeric") {
		t.Fatalf("error = %q; want a non-numeric coordinate message", err)
	}
}

func TestParseNonFiniteCoordinate(t *testing.T) {
	content := `Triangles
1 0 0 0 NaN 0 0 0 1 0
`
	_, err := parseString(t, content, ParserConfig{})
	var perr *core.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v (%T); want *core.ParseError", err, err)
	}
	if !strings.Contains(err.Error(), "not finite") {
		t.Fatalf("error = %q; want a non-finite coordinate message", err)
	}
}

func TestParseTrailingProseTerminatesScan(t *testing.T) {
	content := `Triangles
1 0 0 0 1 0 0 0 1 0
Lines
10 0 0 1 1
`
	res, err := parseString(t, content, ParserConfig{})
	if err != nil {
		t.Fatalf("Parse returned %v; want nil, trailing sections end the scan quietly", err)
	}
	if len(res.Triangles) != 1 {
		t.Fatalf("triangles = %d; want 1", len(res.Triangles))
	}
}

func TestParseStrictTrailingRejectsProse(t *testing.T) {
	content := `Triangles
1 0 0 0 1 0 0 0 1 0
here be dragons
`
	_, err := parseString(t, content, ParserConfig{StrictTrailing: true})
	var ferr *core.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("error = %v (%T); want *core.FormatError", err, err)
	}
	if ferr.Line != 3 {
		t.Fatalf("error line = %d; want 3", ferr.Line)
	}
}

func TestParseBlankLinePolicy(t *testing.T) {
	// A blank between rows is skipped by default, sparse producers do that.
	content := `Triangles
1 0 0 0 1 0 0 0 1 0

2 0 0 1 1 0 1 0 1 1
`
	res, err := parseString(t, content, ParserConfig{})
	if err != nil {
		t.Fatalf("default parse returned %v; want nil", err)
	}
	if len(res.Triangles) != 2 {
		t.Fatalf("default triangles = %d; want 2", len(res.Triangles))
	}

	// Strict trailing ends the section at the blank, so the second row is
	// unexpected content.
	_, err = parseString(t, content, ParserConfig{StrictTrailing: true})
	var ferr *core.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("strict error = %v (%T); want *core.FormatError", err, err)
	}
	if ferr.Line != 4 {
		t.Fatalf("strict error line = %d; want 4", ferr.Line)
	}
}

func TestParseCommentsInsideData(t *testing.T) {
	content := `Triangles
# first face
1 0 0 0 1 0 0 0 1 0
# second face
2 0 0 1 1 0 1 0 1 1
`
	res, err := parseString(t, content, ParserConfig{})
	if err != nil {
		t.Fatalf("Parse returned %v; want nil", err)
	}
	if len(res.Triangles) != 2 {
		t.Fatalf("triangles = %d; want 2", len(res.Triangles))
	}
}

func TestParseCountMismatch(t *testing.T) {
	content := `5 triangles
Triangles
1 0 0 0 1 0 0 0 1 0
2 0 0 1 1 0 1 0 1 1
`
	res, err := parseString(t, content, ParserConfig{})
	if err != nil {
		t.Fatalf("default parse returned %v; want nil, mismatch is advisory", err)
	}
	if len(res.Advisories) != 1 {
		t.Fatalf("advisories = %d; want 1", len(res.Advisories))
	}
	var verr *core.ValidationError
	if !errors.As(res.Advisories[0], &verr) {
		t.Fatalf("advisory type = %T; want *core.ValidationError", res.Advisories[0])
	}
	if verr.Declared != 5 || verr.Parsed != 2 {
		t.Fatalf("advisory = %+v; want Declared=5 Parsed=2", verr)
	}

	_, err = parseString(t, content, ParserConfig{StrictCount: true})
	if !errors.As(err, &verr) {
		t.Fatalf("strict error = %v (%T); want *core.ValidationError", err, err)
	}
}

func TestParseEmptySection(t *testing.T) {
	content := `4 triangles
Triangles
`
	_, err := parseString(t, content, ParserConfig{})
	var ferr *core.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("error = %v (%T); want *core.FormatError", err, err)
	}
	if !strings.Contains(err.Error(), "no triangle data") {
		t.Fatalf("error = %q; want a no-data message", err)
	}
}

func TestParseFile(t *testing.T) {
	path := createTempSurfFile(t, `1 triangles
Triangles
7 0 0 0 1 0 0 0 1 0
`)
	res, err := NewParser(ParserConfig{}).ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile returned %v; want nil", err)
	}
	if len(res.Triangles) != 1 || res.Triangles[0].ID != 7 {
		t.Fatalf("parsed %+v; want one triangle with id 7", res.Triangles)
	}

	if _, err := NewParser(ParserConfig{}).ParseFile(filepath.Join(t.TempDir(), "nope.surf")); err == nil {
		t.Fatal("ParseFile on a missing file returned nil error")
	}
}
