package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danmuck/pbdecode/internal/wire"
)

// DefaultIndent is the number of spaces added per nesting level.
const DefaultIndent = 4

// Text renders the line-oriented layout:
//
//	fieldId=1
//	fieldType=Length-delimited (...)
//	val=(hello);
//
// Every field is preceded by a blank line. Embedded messages follow the
// value they were decoded from, indented one level deeper.
type Text struct {
	Indent int
}

func (t Text) Render(w io.Writer, msg *wire.Message) error {
	if msg == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	t.fields(bw, msg.Fields, 0)
	return bw.Flush()
}

func (t Text) fields(w *bufio.Writer, fields []wire.Field, depth int) {
	indent := t.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}
	pad := strings.Repeat(" ", depth*indent)
	for _, f := range fields {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%sfieldId=%d\n", pad, f.Number)
		fmt.Fprintf(w, "%sfieldType=%s\n", pad, wire.Description(f.Type))
		if f.Value.Kind != wire.KindBytes {
			fmt.Fprintf(w, "%sval=(%s);\n", pad, Scalar(f.Value))
			continue
		}
		for _, c := range f.Value.Chunks {
			fmt.Fprintf(w, "%sval=(%s);\n", pad, c.Text())
			if c.IsMessage() {
				t.fields(w, c.Nested, depth+1)
			}
		}
	}
}

// Scalar formats a non-bytes value.
func Scalar(v wire.Value) string {
	switch v.Kind {
	case wire.KindUint:
		return strconv.FormatUint(v.Uint, 10)
	case wire.KindDouble:
		return strconv.FormatFloat(v.Double, 'g', -1, 64)
	case wire.KindFloat:
		return strconv.FormatFloat(float64(v.Float), 'g', -1, 32)
	default:
		return ""
	}
}
