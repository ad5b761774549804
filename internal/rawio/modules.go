package rawio

import (
	"github.com/kolkov/aardwolf/internal/aarddata"
	"github.com/kolkov/aardwolf/internal/arena"
)

const (
	moduleMagic   = "AARD/S"
	moduleVersion = '1'

	tokStatement = 0xFF
	tokFunction  = 0xFE
	tokFilenames = 0xFD

	accessScalarTag     = 0xE0
	accessStructuralTag = 0xE1
	accessArrayLikeTag  = 0xE2
)

// ParseModules deserializes the static module stream into the Accesses and
// Statements arenas and the Funcs interner of rd, and populates rd.Files
// and rd.FuncStmts. rd's arenas must already exist (see NewRawData); they
// are not frozen here — Load freezes everything once all three streams are
// parsed.
func ParseModules(rd *RawData, buf []byte) error {
	c := newCursor(buf)
	if err := expectMagic(c, moduleMagic, moduleVersion); err != nil {
		return err
	}

	var (
		currentFunc string
		haveFunc    bool
		pending     []aarddata.Statement
	)

	flush := func() {
		if !haveFunc {
			// Statements before any FUNCTION token are discarded: there is
			// no owner to attach them to.
			pending = nil
			return
		}
		fh := rd.Funcs.Intern(currentFunc)
		table, ok := rd.FuncStmts[fh]
		if !ok {
			table = make(map[aarddata.StmtId]aarddata.StmtHandle)
			rd.FuncStmts[fh] = table
		}
		for _, st := range pending {
			st.Func = fh
			h := rd.Statements.Alloc(st)
			table[st.ID] = h
			rd.StmtIndex[st.ID] = h
		}
		pending = nil
	}

	for {
		tok, err := c.byte()
		if err != nil {
			if pe, ok := err.(*ParseError); ok && pe.Kind == UnexpectedEof && c.remaining() == 0 {
				break // clean EOF between tokens
			}
			return err
		}

		switch tok {
		case tokStatement:
			st, err := parseStatement(c, rd.Accesses)
			if err != nil {
				return err
			}
			pending = append(pending, st)

		case tokFunction:
			flush()
			name, err := c.cstring()
			if err != nil {
				return err
			}
			currentFunc = name
			haveFunc = true

		case tokFilenames:
			if err := parseFilenames(c, rd); err != nil {
				return err
			}

		default:
			return errUnexpectedByte(c.pos-1, tok, tokStatement, tokFunction, tokFilenames)
		}
	}

	flush()
	return nil
}

func parseFilenames(c *cursor, rd *RawData) error {
	count, err := c.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		fileID, err := c.u64()
		if err != nil {
			return err
		}
		path, err := c.cstring()
		if err != nil {
			return err
		}
		rd.Files[aarddata.FileId(fileID)] = path
	}
	return nil
}

func parseStmtId(c *cursor) (aarddata.StmtId, error) {
	file, err := c.u64()
	if err != nil {
		return aarddata.StmtId{}, err
	}
	local, err := c.u64()
	if err != nil {
		return aarddata.StmtId{}, err
	}
	return aarddata.StmtId{File: aarddata.FileId(file), Local: local}, nil
}

func parseStatement(c *cursor, accesses *arena.Arena[aarddata.Access]) (aarddata.Statement, error) {
	id, err := parseStmtId(c)
	if err != nil {
		return aarddata.Statement{}, err
	}

	succCount, err := c.u8()
	if err != nil {
		return aarddata.Statement{}, err
	}
	succs := make([]aarddata.StmtId, 0, succCount)
	for i := uint8(0); i < succCount; i++ {
		sid, err := parseStmtId(c)
		if err != nil {
			return aarddata.Statement{}, err
		}
		succs = append(succs, sid)
	}

	defCount, err := c.u8()
	if err != nil {
		return aarddata.Statement{}, err
	}
	defs := make([]aarddata.AccessHandle, 0, defCount)
	for i := uint8(0); i < defCount; i++ {
		h, err := parseAccess(c, accesses)
		if err != nil {
			return aarddata.Statement{}, err
		}
		defs = append(defs, h)
	}

	useCount, err := c.u8()
	if err != nil {
		return aarddata.Statement{}, err
	}
	uses := make([]aarddata.AccessHandle, 0, useCount)
	for i := uint8(0); i < useCount; i++ {
		h, err := parseAccess(c, accesses)
		if err != nil {
			return aarddata.Statement{}, err
		}
		uses = append(uses, h)
	}

	loc, err := parseLoc(c)
	if err != nil {
		return aarddata.Statement{}, err
	}

	meta, err := c.u8()
	if err != nil {
		return aarddata.Statement{}, err
	}

	return aarddata.Statement{
		ID:         id,
		Successors: succs,
		Defs:       defs,
		Uses:       uses,
		Loc:        loc,
		Metadata:   aarddata.StmtFlag(meta),
	}, nil
}

func parseLoc(c *cursor) (aarddata.Loc, error) {
	file, err := c.u64()
	if err != nil {
		return aarddata.Loc{}, err
	}
	lineBegin, err := c.u32()
	if err != nil {
		return aarddata.Loc{}, err
	}
	colBegin, err := c.u32()
	if err != nil {
		return aarddata.Loc{}, err
	}
	lineEnd, err := c.u32()
	if err != nil {
		return aarddata.Loc{}, err
	}
	colEnd, err := c.u32()
	if err != nil {
		return aarddata.Loc{}, err
	}
	return aarddata.Loc{
		File:      aarddata.FileId(file),
		LineBegin: lineBegin,
		ColBegin:  colBegin,
		LineEnd:   lineEnd,
		ColEnd:    colEnd,
	}, nil
}

// parseAccess recursively parses one Access token and de-duplicates it in
// accesses, keyed on the raw bytes it consumed: two byte-identical
// sub-streams always parse to byte-identical Access trees, so the
// consumed-byte-range is a correct (and cheap) canonical key without
// re-walking the parsed structure.
func parseAccess(c *cursor, accesses *arena.Arena[aarddata.Access]) (aarddata.AccessHandle, error) {
	start := c.pos
	tag, err := c.byte()
	if err != nil {
		return aarddata.AccessHandle{}, err
	}

	var acc aarddata.Access
	switch tag {
	case accessScalarTag:
		varID, err := c.u64()
		if err != nil {
			return aarddata.AccessHandle{}, err
		}
		acc = aarddata.NewScalar(varID)

	case accessStructuralTag:
		base, err := parseAccess(c, accesses)
		if err != nil {
			return aarddata.AccessHandle{}, err
		}
		field, err := parseAccess(c, accesses)
		if err != nil {
			return aarddata.AccessHandle{}, err
		}
		acc = aarddata.NewStructural(base, field)

	case accessArrayLikeTag:
		base, err := parseAccess(c, accesses)
		if err != nil {
			return aarddata.AccessHandle{}, err
		}
		idxCount, err := c.u32()
		if err != nil {
			return aarddata.AccessHandle{}, err
		}
		idx := make([]aarddata.AccessHandle, 0, idxCount)
		for i := uint32(0); i < idxCount; i++ {
			h, err := parseAccess(c, accesses)
			if err != nil {
				return aarddata.AccessHandle{}, err
			}
			idx = append(idx, h)
		}
		acc = aarddata.NewArrayLike(base, idx)

	default:
		return aarddata.AccessHandle{}, errUnexpectedByte(start, tag, accessScalarTag, accessStructuralTag, accessArrayLikeTag)
	}

	key := string(c.buf[start:c.pos])
	return accesses.AllocDedup(key, acc), nil
}

func expectMagic(c *cursor, magic string, version byte) error {
	raw, err := c.bytes(len(magic))
	if err != nil {
		return errInvalidFormat(0, "truncated magic")
	}
	if string(raw) != magic {
		return errInvalidFormat(0, "bad magic "+string(raw))
	}
	v, err := c.byte()
	if err != nil {
		return errInvalidFormat(c.pos, "missing version byte")
	}
	if v != version {
		return errUnsupportedVersion(c.pos-1, "version "+string(v))
	}
	return nil
}
