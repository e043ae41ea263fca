package wire

// Type is the 3-bit wire type carried in the low bits of a tag byte.
type Type uint8

const (
	Varint     Type = 0
	Fixed64    Type = 1
	Bytes      Type = 2
	StartGroup Type = 3
	EndGroup   Type = 4
	Fixed32    Type = 5
)

var descriptions = [...]string{
	Varint:     "Varint (int32, int64, uint32, uint64, sint32, sint64, bool, enum)",
	Fixed64:    "64-bit (fixed64, sfixed64, double)",
	Bytes:      "Length-delimited (string, bytes, embedded messages, packed repeated fields)",
	StartGroup: "Start group groups (deprecated)",
	EndGroup:   "End group groups  (deprecated)",
	Fixed32:    "32-bit (fixed32, sfixed32, float)",
}

var names = [...]string{
	Varint:     "varint",
	Fixed64:    "fixed64",
	Bytes:      "bytes",
	StartGroup: "start_group",
	EndGroup:   "end_group",
	Fixed32:    "fixed32",
}

// Description returns the human-readable description of t.
func Description(t Type) string {
	if int(t) < len(descriptions) {
		return descriptions[t]
	}
	return "unknown"
}

// String returns a short lowercase name, suitable for labels.
func (t Type) String() string {
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// Supported reports whether payloads of t can be framed and decoded.
func (t Type) Supported() bool {
	switch t {
	case Varint, Fixed64, Bytes, Fixed32:
		return true
	default:
		return false
	}
}

// RawField is one framed record.
//
// For Bytes records the payload starts with the length byte.
type RawField struct {
	Type    Type
	Number  uint64
	Offset  int
	Payload []byte
}

// Kind tags the active member of a Value.
type Kind uint8

const (
	KindUint Kind = iota + 1
	KindDouble
	KindFloat
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindDouble:
		return "double"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// Value is a decoded payload. Only the member selected by Kind is set.
type Value struct {
	Kind   Kind
	Uint   uint64
	Double float64
	Float  float32
	Chunks []Chunk
}

// Chunk is one value extracted from a length-delimited payload.
type Chunk struct {
	Raw []byte
	// Nested holds the fields of Raw when it decoded as an embedded message
	// with at least one field. It is nil otherwise.
	Nested []Field
}

// Text returns Raw as UTF-8, replacing invalid sequences with U+FFFD.
func (c Chunk) Text() string {
	return toText(c.Raw)
}

// IsMessage reports whether the chunk decoded as an embedded message.
func (c Chunk) IsMessage() bool {
	return len(c.Nested) > 0
}

// Field is a decoded record.
type Field struct {
	Number uint64
	Type   Type
	Offset int
	Value  Value
}

// Message is the result of a top-level decode.
type Message struct {
	Fields []Field
	// Incomplete is the number of trailing bytes that never completed a record.
	Incomplete int
}
