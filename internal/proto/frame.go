package proto

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// headerWidth is the fixed width of one ASCII decimal length header.
const headerWidth = 4

// MaxFieldLen is the largest field value representable by a length header.
const MaxFieldLen = 9999

var (
	// ErrPeerClosed signals that the remote side closed the connection.
	// It is a normal end-of-session condition, not a failure.
	ErrPeerClosed = errors.New("proto: peer closed connection")
	// ErrUnknownCommand is returned for an identifier byte outside the
	// registry. The stream cannot be resynchronized after this.
	ErrUnknownCommand = errors.New("proto: unknown command identifier")
	// ErrFieldTooLong is returned when a field value does not fit in a
	// length header.
	ErrFieldTooLong = errors.New("proto: field exceeds 9999 bytes")
	// ErrMalformedHeader is returned when a length header is not an
	// ASCII decimal number.
	ErrMalformedHeader = errors.New("proto: malformed length header")
)

// WriteFrame encodes cmd as one frame and writes it to w in a single
// Write call.
//
// Wire layout: 1 identifier byte, then one 4-byte right-justified
// space-padded ASCII decimal length per field, then the UTF-8 field
// bytes. All headers precede all bodies, in field order. Example:
//
//	N   6  10myusermypassword
//
// Lengths are explicit, so field values may contain any UTF-8 content
// including control characters.
func WriteFrame(w io.Writer, cmd Command) error {
	values := cmd.fields()
	size := 1 + len(values)*headerWidth
	bodies := make([][]byte, len(values))
	for i, v := range values {
		b := []byte(v)
		if len(b) > MaxFieldLen {
			return fmt.Errorf("%w: field %d of %q is %d bytes", ErrFieldTooLong, i, string(cmd.Ident()), len(b))
		}
		bodies[i] = b
		size += len(b)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, cmd.Ident())
	for _, b := range bodies {
		buf = append(buf, fmt.Sprintf("%*d", headerWidth, len(b))...)
	}
	for _, b := range bodies {
		buf = append(buf, b...)
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrame reads exactly one frame from r and decodes it through the
// given direction registry.
//
// A clean EOF before the identifier byte, or any EOF mid-frame, is
// reported as ErrPeerClosed. Unknown identifiers and malformed length
// headers are fatal to the stream: the caller must close the
// connection rather than attempt to resynchronize.
func ReadFrame(r io.Reader, reg Registry) (Command, error) {
	var ident [1]byte
	if _, err := io.ReadFull(r, ident[:]); err != nil {
		return nil, readErr(err)
	}

	shape, ok := reg[ident[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, string(ident[0]))
	}

	headers := make([]byte, shape.arity*headerWidth)
	if _, err := io.ReadFull(r, headers); err != nil {
		return nil, readErr(err)
	}

	values := make([]string, shape.arity)
	for i := 0; i < shape.arity; i++ {
		header := string(headers[i*headerWidth : (i+1)*headerWidth])
		n, err := strconv.Atoi(strings.TrimLeft(header, " "))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, header)
		}
		body := make([]byte, n)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, readErr(err)
		}
		values[i] = string(body)
	}

	return shape.build(values), nil
}

// readErr maps transport-level read failures onto the protocol error
// space. Any EOF means the peer went away before a full frame arrived.
func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrPeerClosed
	}
	return fmt.Errorf("read frame: %w", err)
}
