package svgpath

import (
	"errors"
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

var (
	errParamMismatch  = errors.New("param mismatch")
	errCommandUnknown = errors.New("unknown command")

	// ErrBadPathData is wrapped by the errors returned
	// when parsing invalid path data or number lists.
	ErrBadPathData = errors.New("invalid path data")
)

// scanner reads SVG numbers lists, where numbers are
// separated by white spaces and/or one comma, or not separated
// at all when the sign or the dot is unambiguous ("1-2.5.5").
type scanner struct {
	s   []byte
	pos int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// skipSeparators skips spaces and commas
func (sc *scanner) skipSeparators() {
	for sc.pos < len(sc.s) && (isSpace(sc.s[sc.pos]) || sc.s[sc.pos] == ',') {
		sc.pos++
	}
}

func (sc *scanner) eof() bool { return sc.pos >= len(sc.s) }

func (sc *scanner) number() (float64, error) {
	sc.skipSeparators()
	if sc.eof() {
		return 0, fmt.Errorf("%w: missing number at end of input", ErrBadPathData)
	}
	f, n := strconv.ParseFloat(sc.s[sc.pos:])
	if n == 0 {
		return 0, fmt.Errorf("%w: expected number at offset %d", ErrBadPathData, sc.pos)
	}
	sc.pos += n
	return f, nil
}

// flag reads an arc flag, which is a single 0 or 1 digit,
// possibly not separated from the next number.
func (sc *scanner) flag() (float64, error) {
	sc.skipSeparators()
	if sc.eof() {
		return 0, fmt.Errorf("%w: missing flag at end of input", ErrBadPathData)
	}
	switch sc.s[sc.pos] {
	case '0':
		sc.pos++
		return 0, nil
	case '1':
		sc.pos++
		return 1, nil
	}
	return 0, fmt.Errorf("%w: invalid flag at offset %d", ErrBadPathData, sc.pos)
}

// ReadNumbers parses a list of numbers separated by
// spaces and/or commas, as found in `points`, `viewBox`
// or transform arguments. The numbers read before an error are returned.
func ReadNumbers(s string) ([]float64, error) {
	sc := scanner{s: []byte(s)}
	var out []float64
	for {
		sc.skipSeparators()
		if sc.eof() {
			return out, nil
		}
		f, err := sc.number()
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
}
