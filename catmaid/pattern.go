// Package catmaid provides reading and writing of CATMAID directory tile
// stacks, where tiles are stored as individual image files whose paths come
// from a positional template.
package catmaid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/JaneliaSciComp/catmaid-tools/tile"
)

var ErrInvalidPattern = errors.New("catmaid: invalid tile pattern")

// Pattern is a tile path template relative to the stack base directory,
// without file extension. It uses fmt verbs with explicit argument indexes,
// bound in order to:
//
//	[1] scale level s
//	[2] scale 1/2^s
//	[3] x pixel coordinate
//	[4] y pixel coordinate
//	[5] z section index
//	[6] tile width at scale
//	[7] tile height at scale
//	[8] tile row
//	[9] tile column
//
// The standard CATMAID layout "z/row_col_s" is DefaultPattern.
type Pattern string

const DefaultPattern Pattern = "%[5]d/%[8]d_%[9]d_%[1]d"

// Format renders the template for one tile address.
func (p Pattern) Format(addr tile.Address) string {
	return fmt.Sprintf(string(p),
		addr.Level, addr.Scale(), addr.X, addr.Y, addr.Z,
		addr.Width, addr.Height, addr.Row, addr.Col)
}

// Validate checks that the template renders cleanly, uses only verbs whose
// output can be parsed back (see patternVerb), and references tile
// coordinates at all (a constant template would map every tile to the same
// file).
func (p Pattern) Validate() error {
	probe := p.Format(tile.Address{})
	if strings.Contains(probe, "%!") {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, p)
	}
	stripped := strings.ReplaceAll(patternVerb.ReplaceAllString(string(p), ""), "%%", "")
	if strings.Contains(stripped, "%") {
		return fmt.Errorf("%w: %q uses an unsupported verb", ErrInvalidPattern, p)
	}
	other := p.Format(tile.Address{Level: 1, Row: 1, Col: 1, Z: 1, X: 1, Y: 1, Width: 1, Height: 1})
	if probe == other {
		return fmt.Errorf("%w: %q references no tile coordinates", ErrInvalidPattern, p)
	}
	return nil
}

var patternVerb = regexp.MustCompile(`%\[([1-9])\](?:\.\d+)?[dfgv]`)

// pathRegexp compiles the template into a regexp matching rendered paths,
// with one named group per argument index. Used to recover tile addresses
// when walking a stack directory.
func (p Pattern) pathRegexp(ext string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")

	rest := string(p)
	for {
		loc := patternVerb.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		sb.WriteString(regexp.QuoteMeta(rest[:loc[0]]))
		argIndex := rest[loc[2]:loc[3]]
		switch rest[loc[1]-1] {
		case 'd':
			fmt.Fprintf(&sb, `(?P<p%s>-?\d+)`, argIndex)
		default:
			fmt.Fprintf(&sb, `(?P<p%s>[0-9.eE+-]+)`, argIndex)
		}
		rest = rest[loc[1]:]
	}
	sb.WriteString(regexp.QuoteMeta(rest))
	sb.WriteString(regexp.QuoteMeta("." + ext))
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return re, nil
}
