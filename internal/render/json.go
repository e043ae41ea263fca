package render

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"math"
	"unicode/utf8"

	"github.com/danmuck/pbdecode/internal/wire"
)

// MessageView is the JSON shape of a decoded message.
type MessageView struct {
	Fields     []FieldView `json:"fields"`
	Incomplete int         `json:"incomplete"`
}

// FieldView is one decoded field. Value holds scalars; Chunks holds
// length-delimited sub-values.
type FieldView struct {
	Number   uint64      `json:"number"`
	WireType uint8       `json:"wire_type"`
	TypeName string      `json:"type"`
	Offset   int         `json:"offset"`
	Kind     string      `json:"kind"`
	Value    any         `json:"value,omitempty"`
	Chunks   []ChunkView `json:"chunks,omitempty"`
}

// ChunkView is one length-delimited sub-value and its nested fields, if any.
type ChunkView struct {
	Hex    string      `json:"hex"`
	Text   string      `json:"text"`
	UTF8   bool        `json:"utf8"`
	Fields []FieldView `json:"fields,omitempty"`
}

// Tree converts msg into its JSON view.
func Tree(msg *wire.Message) MessageView {
	if msg == nil {
		return MessageView{Fields: []FieldView{}}
	}
	return MessageView{Fields: fieldViews(msg.Fields), Incomplete: msg.Incomplete}
}

func fieldViews(fields []wire.Field) []FieldView {
	out := make([]FieldView, 0, len(fields))
	for _, f := range fields {
		fv := FieldView{
			Number:   f.Number,
			WireType: uint8(f.Type),
			TypeName: f.Type.String(),
			Offset:   f.Offset,
			Kind:     f.Value.Kind.String(),
		}
		switch f.Value.Kind {
		case wire.KindUint:
			fv.Value = f.Value.Uint
		case wire.KindDouble:
			fv.Value = jsonFloat(f.Value.Double, Scalar(f.Value))
		case wire.KindFloat:
			fv.Value = jsonFloat(float64(f.Value.Float), Scalar(f.Value))
		case wire.KindBytes:
			fv.Chunks = make([]ChunkView, 0, len(f.Value.Chunks))
			for _, c := range f.Value.Chunks {
				cv := ChunkView{Hex: hex.EncodeToString(c.Raw), Text: c.Text(), UTF8: utf8.Valid(c.Raw)}
				if c.IsMessage() {
					cv.Fields = fieldViews(c.Nested)
				}
				fv.Chunks = append(fv.Chunks, cv)
			}
		}
		out = append(out, fv)
	}
	return out
}

// jsonFloat keeps finite values numeric; NaN and infinities have no JSON
// number form.
func jsonFloat(v float64, text string) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return text
	}
	return v
}

// JSON renders the MessageView of a message.
type JSON struct {
	Indent string
}

// Render writes the JSON view of msg followed by a newline.
func (j JSON) Render(w io.Writer, msg *wire.Message) error {
	enc := json.NewEncoder(w)
	if j.Indent != "" {
		enc.SetIndent("", j.Indent)
	}
	return enc.Encode(Tree(msg))
}
