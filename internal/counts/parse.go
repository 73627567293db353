// Package counts reads flat comma-separated count dumps and reshapes them
// into fixed-width grids.
package counts

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/countmap/internal/fsutil"
)

// Delimiter separates tokens in a count dump.
const Delimiter = ","

// ErrEmptyInput is returned when the input holds no bytes at all.
var ErrEmptyInput = errors.New("empty input")

// ParseError reports a token that is not an integer literal.
type ParseError struct {
	Index int    // zero-based token position in the stream
	Token string // token as it appeared in the input, untrimmed
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("token %d %q: %v", e.Index, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads r to the end and converts every comma-separated token to an
// int. Surrounding whitespace is ignored, so a trailing newline is fine, but
// an empty token is not. The first bad token aborts the parse.
func Parse(r io.Reader) ([]int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read counts: %w", err)
	}
	return ParseString(string(data))
}

// ParseString is Parse for in-memory text.
func ParseString(text string) ([]int, error) {
	tokens := strings.Split(text, Delimiter)
	values := make([]int, 0, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			if len(text) == 0 {
				err = ErrEmptyInput
			} else {
				// strconv's message repeats the token; keep only the cause.
				var numErr *strconv.NumError
				if errors.As(err, &numErr) {
					err = numErr.Err
				}
			}
			return nil, &ParseError{Index: i, Token: tok, Err: err}
		}
		values = append(values, v)
	}
	return values, nil
}

// ReadFile opens path on fsys, parses it and closes it again on every path.
// Errors name the file.
func ReadFile(fsys fsutil.FileSystem, path string) ([]int, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open counts: %w", err)
	}
	defer f.Close()

	values, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}
