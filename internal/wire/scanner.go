package wire

// scanState is the framing state carried between input bytes.
type scanState struct {
	expectTag bool
	typ       Type
	number    uint64
	start     int
	frame     []byte
}

func newScanState() scanState {
	return scanState{expectTag: true}
}

// step consumes one byte at offset off. It returns a completed record when
// b closes one.
func (s *scanState) step(b byte, off int) (RawField, bool, error) {
	if s.expectTag {
		s.typ = Type(b & 0x07)
		s.number = uint64(b >> 3)
		s.start = off
		s.frame = nil
		s.expectTag = false
		return RawField{}, false, nil
	}

	s.frame = append(s.frame, b)
	var done bool
	switch s.typ {
	case Varint:
		done = b&0x80 == 0
	case Fixed64:
		done = len(s.frame) == fixed64Size
	case Fixed32:
		done = len(s.frame) == fixed32Size
	case Bytes:
		n := int(s.frame[0])
		done = n == 0 || len(s.frame)-1 == n
	default:
		return RawField{}, false, &Error{Offset: s.start, Type: s.typ, Err: ErrUnimplementedWireType}
	}
	if !done {
		return RawField{}, false, nil
	}

	f := RawField{Type: s.typ, Number: s.number, Offset: s.start, Payload: s.frame}
	s.frame = nil
	s.expectTag = true
	return f, true, nil
}

// pending is the number of bytes held by an unfinished record.
func (s *scanState) pending() int {
	if s.expectTag {
		return 0
	}
	return 1 + len(s.frame)
}

// Scanner frames records from bytes written to it. It implements io.Writer
// so captures can be streamed in with io.Copy.
type Scanner struct {
	state  scanState
	off    int
	fields []RawField
	err    error
}

// NewScanner returns a Scanner expecting a tag byte.
func NewScanner() *Scanner {
	return &Scanner{state: newScanState()}
}

// Write feeds p to the scanner. After the first error every later call
// returns that error.
func (s *Scanner) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	for i, b := range p {
		f, ok, err := s.state.step(b, s.off)
		if err != nil {
			s.err = err
			return i, err
		}
		s.off++
		if ok {
			s.fields = append(s.fields, f)
		}
	}
	return len(p), nil
}

// Fields returns the records completed so far.
func (s *Scanner) Fields() []RawField {
	return s.fields
}

// Pending reports how many trailing bytes belong to an unfinished record.
func (s *Scanner) Pending() int {
	return s.state.pending()
}

// Scan frames data into records. A trailing unfinished record is dropped
// without error.
func Scan(data []byte) ([]RawField, error) {
	s := NewScanner()
	if _, err := s.Write(data); err != nil {
		return nil, err
	}
	return s.Fields(), nil
}
