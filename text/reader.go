package text

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/goto-10/plankton/variant"
)

// Reader parses the text grammar documented on Write back into variants,
// allocating all storage from a given arena.
type Reader struct {
	arena *variant.Arena
}

// NewReader returns a Reader that allocates parsed values from arena.
func NewReader(arena *variant.Arena) *Reader {
	return &Reader{arena: arena}
}

// Read parses exactly one value from input, ignoring leading and
// trailing whitespace. On a malformed input it returns variant.Null()
// together with an error identifying the offending character and its
// offset.
func (r *Reader) Read(input string) (variant.Variant, error) {
	p := &parser{data: []byte(input), arena: r.arena}
	p.skipSpace()
	v, err := p.parseValue()
	if err != nil {
		return variant.Null(), err
	}
	p.skipSpace()
	if p.cursor != len(p.data) {
		return variant.Null(), p.errorf("unexpected trailing input")
	}
	return v, nil
}

type parser struct {
	data   []byte
	cursor int
	arena  *variant.Arena
}

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.cursor < len(p.data) {
		return fmt.Errorf("text: %s at offset %d (offending character %q)", msg, p.cursor, p.data[p.cursor])
	}
	return fmt.Errorf("text: %s at offset %d (unexpected end of input)", msg, p.cursor)
}

func (p *parser) atEnd() bool { return p.cursor >= len(p.data) }

func (p *parser) peek() byte { return p.data[p.cursor] }

func (p *parser) skipSpace() {
	for !p.atEnd() {
		switch p.data[p.cursor] {
		case ' ', '\t', '\n', '\r':
			p.cursor++
		default:
			return
		}
	}
}

func (p *parser) parseValue() (variant.Variant, error) {
	if p.atEnd() {
		return variant.Null(), p.errorf("expected a value")
	}
	switch c := p.peek(); {
	case c == '%':
		return p.parsePercent()
	case c == '"':
		return p.parseString()
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseMap()
	case c == '#':
		return p.parseID()
	case c == '@':
		return p.parseSeed()
	case c == '-' || isDigit(c):
		return p.parseInteger()
	default:
		return variant.Null(), p.errorf("unexpected character")
	}
}

func (p *parser) parsePercent() (variant.Variant, error) {
	p.cursor++ // '%'
	if p.atEnd() {
		return variant.Null(), p.errorf("truncated %% escape")
	}
	switch p.peek() {
	case 'n':
		p.cursor++
		return variant.Null(), nil
	case 't':
		p.cursor++
		return variant.Bool(true), nil
	case 'f':
		p.cursor++
		return variant.Bool(false), nil
	case '[':
		p.cursor++
		start := p.cursor
		for !p.atEnd() && p.peek() != ']' {
			p.cursor++
		}
		if p.atEnd() {
			return variant.Null(), p.errorf("unterminated blob literal")
		}
		encoded := string(p.data[start:p.cursor])
		p.cursor++ // ']'
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return variant.Null(), fmt.Errorf("text: invalid base64 blob: %w", err)
		}
		v := p.arena.NewBlobFrom(data)
		v.EnsureFrozen()
		return v, nil
	default:
		return variant.Null(), p.errorf("unknown %% escape")
	}
}

func (p *parser) parseString() (variant.Variant, error) {
	p.cursor++ // opening quote
	var chars []byte
	for {
		if p.atEnd() {
			return variant.Null(), p.errorf("unterminated string literal")
		}
		c := p.data[p.cursor]
		if c == '"' {
			p.cursor++
			break
		}
		if c == '\\' {
			p.cursor++
			if p.atEnd() {
				return variant.Null(), p.errorf("truncated escape sequence")
			}
			esc := p.data[p.cursor]
			switch esc {
			case '"':
				chars = append(chars, '"')
				p.cursor++
			case '\\':
				chars = append(chars, '\\')
				p.cursor++
			case 'n':
				chars = append(chars, '\n')
				p.cursor++
			case 't':
				chars = append(chars, '\t')
				p.cursor++
			case 'r':
				chars = append(chars, '\r')
				p.cursor++
			case 'x':
				p.cursor++
				if p.cursor+2 > len(p.data) {
					return variant.Null(), p.errorf("truncated \\x escape")
				}
				b, err := strconv.ParseUint(string(p.data[p.cursor:p.cursor+2]), 16, 8)
				if err != nil {
					return variant.Null(), p.errorf("invalid \\x escape")
				}
				chars = append(chars, byte(b))
				p.cursor += 2
			default:
				return variant.Null(), p.errorf("unknown escape sequence")
			}
			continue
		}
		chars = append(chars, c)
		p.cursor++
	}
	v := p.arena.NewStringFrom(chars)
	v.EnsureFrozen()
	return v, nil
}

func (p *parser) parseArray() (variant.Variant, error) {
	p.cursor++ // '['
	p.skipSpace()
	elems := []variant.Variant{}
	if !p.atEnd() && p.peek() == ']' {
		p.cursor++
	} else {
		for {
			v, err := p.parseValue()
			if err != nil {
				return variant.Null(), err
			}
			elems = append(elems, v)
			p.skipSpace()
			if p.atEnd() {
				return variant.Null(), p.errorf("unterminated array literal")
			}
			if p.peek() == ',' {
				p.cursor++
				p.skipSpace()
				continue
			}
			if p.peek() == ']' {
				p.cursor++
				break
			}
			return variant.Null(), p.errorf("expected ',' or ']'")
		}
	}
	arr := p.arena.NewArray(len(elems))
	for _, e := range elems {
		arr.ArrayAdd(e)
	}
	arr.EnsureFrozen()
	return arr, nil
}

func (p *parser) parseFields() ([]variant.Variant, []variant.Variant, error) {
	p.cursor++ // '{'
	p.skipSpace()
	var keys, vals []variant.Variant
	if !p.atEnd() && p.peek() == '}' {
		p.cursor++
		return keys, vals, nil
	}
	for {
		key, err := p.parseValue()
		if err != nil {
			return nil, nil, err
		}
		p.skipSpace()
		if p.atEnd() || p.peek() != ':' {
			return nil, nil, p.errorf("expected ':'")
		}
		p.cursor++
		p.skipSpace()
		val, err := p.parseValue()
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		vals = append(vals, val)
		p.skipSpace()
		if p.atEnd() {
			return nil, nil, p.errorf("unterminated field list")
		}
		if p.peek() == ',' {
			p.cursor++
			p.skipSpace()
			continue
		}
		if p.peek() == '}' {
			p.cursor++
			break
		}
		return nil, nil, p.errorf("expected ',' or '}'")
	}
	return keys, vals, nil
}

func (p *parser) parseMap() (variant.Variant, error) {
	keys, vals, err := p.parseFields()
	if err != nil {
		return variant.Null(), err
	}
	m := p.arena.NewMap()
	for i := range keys {
		m.MapSet(keys[i], vals[i])
	}
	m.EnsureFrozen()
	return m, nil
}

func (p *parser) parseSeed() (variant.Variant, error) {
	p.cursor++ // '@'
	header, err := p.parseValue()
	if err != nil {
		return variant.Null(), err
	}
	p.skipSpace()
	if p.atEnd() || p.peek() != '{' {
		return variant.Null(), p.errorf("expected '{' after seed header")
	}
	keys, vals, err := p.parseFields()
	if err != nil {
		return variant.Null(), err
	}
	seed := p.arena.NewSeed()
	seed.SeedSetHeader(header)
	for i := range keys {
		seed.SeedSetField(keys[i], vals[i])
	}
	seed.EnsureFrozen()
	return seed, nil
}

func (p *parser) parseID() (variant.Variant, error) {
	p.cursor++ // '#'
	start := p.cursor
	for !p.atEnd() && isDigit(p.peek()) {
		p.cursor++
	}
	if p.cursor == start {
		return variant.Null(), p.errorf("expected id size")
	}
	size, err := strconv.ParseUint(string(p.data[start:p.cursor]), 10, 32)
	if err != nil {
		return variant.Null(), p.errorf("invalid id size")
	}
	if p.atEnd() || p.peek() != ':' {
		return variant.Null(), p.errorf("expected ':' in id literal")
	}
	p.cursor++
	start = p.cursor
	for !p.atEnd() && isDigit(p.peek()) {
		p.cursor++
	}
	if p.cursor == start {
		return variant.Null(), p.errorf("expected id value")
	}
	value, err := strconv.ParseUint(string(p.data[start:p.cursor]), 10, 64)
	if err != nil {
		return variant.Null(), p.errorf("invalid id value")
	}
	return variant.ID(uint32(size), value), nil
}

func (p *parser) parseInteger() (variant.Variant, error) {
	start := p.cursor
	if p.peek() == '-' {
		p.cursor++
	}
	digitsStart := p.cursor
	for !p.atEnd() && isDigit(p.peek()) {
		p.cursor++
	}
	if p.cursor == digitsStart {
		return variant.Null(), p.errorf("expected an integer")
	}
	n, err := strconv.ParseInt(string(p.data[start:p.cursor]), 10, 64)
	if err != nil {
		return variant.Null(), p.errorf("integer out of range")
	}
	return variant.Integer(n), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
