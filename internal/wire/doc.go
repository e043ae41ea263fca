// Package wire decodes the protobuf binary wire format without a schema.
//
// Ownership boundary:
// - record framing (Scanner, Scan)
// - typed payload decode and speculative nested decode (Decoder)
// - varint and fixed-width primitives
//
// Framing is byte oriented and permissive: tags are a single byte and
// length-delimited records carry a single length byte. Anything the scanner
// cannot frame is reported through the error kinds in errors.go.
package wire
