package importer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/piwi3910/boardcut/internal/model"
)

// The text format is a piece count followed by one "height width" row per
// piece. Blank lines are allowed anywhere.
var (
	textLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Int", Pattern: `\d+`},
		{Name: "Newline", Pattern: `\n`},
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
	})

	textParser = participle.MustBuild[pieceFile](
		participle.Lexer(textLexer),
		participle.Elide("Whitespace"),
	)
)

type pieceFile struct {
	Count int         `parser:"Newline* @Int Newline+"`
	Rows  []*pieceRow `parser:"@@*"`
}

type pieceRow struct {
	Pos lexer.Position

	Height int `parser:"@Int"`
	Width  int `parser:"@Int Newline+"`
}

// ParseText parses the text format. Pieces get IDs 0..n-1 in row order.
// Rows beyond the declared count are ignored with a warning.
func ParseText(name string, src string) ImportResult {
	result := ImportResult{}

	// A final row without a line break is still a complete row.
	file, err := textParser.ParseString(name, src+"\n")
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			pos := perr.Position()
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %s", pos.Line, perr.Message()))
		} else {
			result.Errors = append(result.Errors, err.Error())
		}
		return result
	}

	if len(file.Rows) < file.Count {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Expected %d pieces, found %d", file.Count, len(file.Rows)))
		return result
	}
	if extra := len(file.Rows) - file.Count; extra > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Ignoring %d rows after the %d declared pieces (from line %d)",
				extra, file.Count, file.Rows[file.Count].Pos.Line))
	}

	result.Pieces = make([]model.Piece, file.Count)
	for i, row := range file.Rows[:file.Count] {
		result.Pieces[i] = model.NewPiece(i, row.Height, row.Width)
	}
	return result
}

// ImportText imports pieces from a file in the text format.
func ImportText(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	return ParseText(path, string(data))
}

// ImportTextFromReader imports pieces in the text format from r.
func ImportTextFromReader(r io.Reader, name string) ImportResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read %s: %v", name, err)}}
	}
	return ParseText(name, string(data))
}
