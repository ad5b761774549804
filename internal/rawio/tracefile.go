package rawio

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/arena"
)

const (
	traceMagic   = "AARD/D"
	traceVersion = '1'

	traceTokStatement = 0xFF
	traceTokExternal  = 0xFE

	valueTagUnsupported = 0x10
	valueTagI8          = 0x11
	valueTagI16         = 0x12
	valueTagI32         = 0x13
	valueTagI64         = 0x14
	valueTagU8          = 0x15
	valueTagU16         = 0x16
	valueTagU32         = 0x17
	valueTagU64         = 0x18
	valueTagF32         = 0x19
	valueTagF64         = 0x20
	valueTagBool        = 0x21
)

// ParseTrace deserializes the runtime trace stream into rd.Trace and
// rd.Values. The stream is a flat token sequence: statement markers, test
// boundaries, and value records. The parser does not correlate value
// counts with statement defs — that pairing belongs to the Vars query,
// which also tolerates statement ids the static modules never declared.
func ParseTrace(rd *RawData, buf []byte) error {
	c := newCursor(buf)
	if err := expectMagic(c, traceMagic, traceVersion); err != nil {
		return err
	}

	for {
		tok, err := c.byte()
		if err != nil {
			if pe, ok := err.(*ParseError); ok && pe.Kind == UnexpectedEof && c.remaining() == 0 {
				break
			}
			return err
		}

		switch tok {
		case traceTokStatement:
			id, err := parseStmtId(c)
			if err != nil {
				return err
			}
			rd.Trace = append(rd.Trace, aarddata.TraceItem{Kind: aarddata.TraceStmt, Stmt: id})

		case traceTokExternal:
			name, err := c.cstring()
			if err != nil {
				return err
			}
			th := rd.Tests.Intern(name)
			rd.Trace = append(rd.Trace, aarddata.TraceItem{Kind: aarddata.TraceTestBoundary, Test: th})

		default:
			vh, err := parseValue(c, tok, rd.Values)
			if err != nil {
				return err
			}
			rd.Trace = append(rd.Trace, aarddata.TraceItem{Kind: aarddata.TraceValue, Value: vh})
		}
	}

	return nil
}

// parseValue decodes one value record whose tag byte has already been
// consumed. The tag encodes both kind and width; Unsupported carries no
// payload.
func parseValue(c *cursor, tag byte, values *arena.Arena[aarddata.Value]) (aarddata.ValueHandle, error) {
	var v aarddata.Value
	switch tag {
	case valueTagUnsupported:
		v = aarddata.Value{Kind: aarddata.ValueUnsupported}

	case valueTagI8, valueTagI16, valueTagI32, valueTagI64:
		width := 8 << (tag - valueTagI8)
		n, err := c.signed(width / 8)
		if err != nil {
			return aarddata.ValueHandle{}, err
		}
		v = aarddata.Value{Kind: aarddata.ValueSigned, Width: uint8(width), Signed: n}

	case valueTagU8, valueTagU16, valueTagU32, valueTagU64:
		width := 8 << (tag - valueTagU8)
		n, err := c.unsigned(width / 8)
		if err != nil {
			return aarddata.ValueHandle{}, err
		}
		v = aarddata.Value{Kind: aarddata.ValueUnsigned, Width: uint8(width), Unsigned: n}

	case valueTagF32:
		f, err := c.f32()
		if err != nil {
			return aarddata.ValueHandle{}, err
		}
		v = aarddata.Value{Kind: aarddata.ValueFloating, Width: 32, Floating: f}

	case valueTagF64:
		f, err := c.f64()
		if err != nil {
			return aarddata.ValueHandle{}, err
		}
		v = aarddata.Value{Kind: aarddata.ValueFloating, Width: 64, Floating: f}

	case valueTagBool:
		b, err := c.u8()
		if err != nil {
			return aarddata.ValueHandle{}, err
		}
		v = aarddata.Value{Kind: aarddata.ValueBoolean, Boolean: b != 0}

	default:
		return aarddata.ValueHandle{}, errUnexpectedByte(c.pos-1, tag,
			traceTokStatement, traceTokExternal,
			valueTagUnsupported, valueTagI8, valueTagI16, valueTagI32, valueTagI64,
			valueTagU8, valueTagU16, valueTagU32, valueTagU64,
			valueTagF32, valueTagF64, valueTagBool)
	}

	return values.AllocDedup(v.CanonicalKey(), v), nil
}
