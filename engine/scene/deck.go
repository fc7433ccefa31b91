package scene

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/math"
)

// LoadCommand is the only deck command this pipeline acts on. Every other
// command in a deck belongs to the simulator and is ignored.
const LoadCommand = "read_surf"

// TransKeyword introduces the per-object translation offsets inside a load
// command.
const TransKeyword = "trans"

const commentPrefix = "#"

// Entry is one surf load command: the declared path, its translation and the
// deck line it came from.
type Entry struct {
	Path        string
	Translation math.Vec3
	Line        int
}

// SkippedEntry records a deck line or scene entry that lenient composition
// left out, together with the reason.
type SkippedEntry struct {
	// Path is the declared surf path, empty when the line failed before one
	// could be read.
	Path string
	Line int
	Err  error
}

// ParseDeckFile reads the deck at path in full, closes it and parses the
// content.
func ParseDeckFile(path string, lenient bool) ([]Entry, []SkippedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		core.LogError(err.Error())
		return nil, nil, err
	}
	return parseDeck(data, path, lenient)
}

// ParseDeck consumes the reader fully and parses the scene description. name
// identifies the deck in errors. With lenient false the first malformed line
// fails the whole deck; with lenient true malformed lines are skipped and
// reported while the remaining entries still load.
func ParseDeck(r io.Reader, name string, lenient bool) ([]Entry, []SkippedEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}
	return parseDeck(data, name, lenient)
}

func parseDeck(data []byte, name string, lenient bool) ([]Entry, []SkippedEntry, error) {
	var entries []Entry
	var skipped []SkippedEntry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		// Comments are stripped before tokenizing, mid-line included.
		if i := strings.Index(raw, commentPrefix); i >= 0 {
			raw = raw[:i]
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		if tokens[0] != LoadCommand {
			continue
		}

		entry, err := parseLoadCommand(tokens, name, lineNo)
		if err != nil {
			if !lenient {
				core.LogError(err.Error())
				return nil, nil, err
			}
			core.LogWarn(err.Error())
			path := ""
			if len(tokens) > 1 {
				path = tokens[1]
			}
			skipped = append(skipped, SkippedEntry{Path: path, Line: lineNo, Err: err})
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}

	if len(entries) == 0 && len(skipped) == 0 {
		err := &core.FormatError{File: name, Msg: fmt.Sprintf("no %s commands found", LoadCommand)}
		core.LogError(err.Error())
		return nil, nil, err
	}

	return entries, skipped, nil
}

// parseLoadCommand decodes one read_surf line. tokens[0] is the command.
func parseLoadCommand(tokens []string, name string, lineNo int) (Entry, error) {
	if len(tokens) < 2 {
		return Entry{}, &core.FormatError{File: name, Line: lineNo, Msg: LoadCommand + " without a file path"}
	}

	entry := Entry{Path: tokens[1], Line: lineNo}

	for k := 2; k < len(tokens); k++ {
		if tokens[k] != TransKeyword {
			continue
		}
		if k+3 >= len(tokens) {
			return Entry{}, &core.FormatError{
				File: name,
				Line: lineNo,
				Msg:  fmt.Sprintf("%s needs three numeric offsets", TransKeyword),
			}
		}
		var offsets [3]float64
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(tokens[k+1+j], 64)
			if err != nil {
				return Entry{}, &core.FormatError{
					File: name,
					Line: lineNo,
					Msg:  fmt.Sprintf("%s offset %d is not numeric: %q", TransKeyword, j+1, tokens[k+1+j]),
				}
			}
			offsets[j] = v
		}
		entry.Translation = math.Vec3{X: offsets[0], Y: offsets[1], Z: offsets[2]}
		// Further keywords after the offsets belong to the simulator.
		break
	}

	return entry, nil
}
