package ssz

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var basicTypes = map[string]*Type{
	"bool":    boolType,
	"byte":    uint8Type,
	"uint8":   uint8Type,
	"uint16":  uint16Type,
	"uint32":  uint32Type,
	"uint64":  uint64Type,
	"uint128": uint128Type,
	"uint256": uint256Type,
}

// ParseType parses a type expression in the notation produced by
// Type.String:
//
//	uint64
//	ByteVector[32]
//	List[Vector[uint16, 4], 128]
//	Container{a: uint8, b: ByteList[16]}
//
// Named containers cannot be expressed and must be registered by the caller.
// Failures wrap ErrParseFailure.
func ParseType(s string) (*Type, error) {
	p := &typeParser{src: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: type %q at %d: %s", ErrParseFailure, p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *typeParser) peek(c byte) bool {
	p.skipSpace()
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *typeParser) number() (uint64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, p.errorf("expected a length")
	}
	n, err := strconv.ParseUint(p.src[start:p.pos], 10, 64)
	if err != nil {
		return 0, p.errorf("bad length: %v", err)
	}
	return n, nil
}

// bracketed parses "[n]".
func (p *typeParser) bracketed() (uint64, error) {
	if err := p.expect('['); err != nil {
		return 0, err
	}
	n, err := p.number()
	if err != nil {
		return 0, err
	}
	return n, p.expect(']')
}

func (p *typeParser) parseType() (*Type, error) {
	name := p.ident()
	if t, ok := basicTypes[strings.ToLower(name)]; ok {
		return t, nil
	}
	switch name {
	case "ByteVector", "Bitvector":
		n, err := p.bracketed()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, p.errorf("%s length must be positive", name)
		}
		if name == "ByteVector" {
			return ByteVector(n), nil
		}
		return Bitvector(n), nil
	case "ByteList", "Bitlist":
		n, err := p.bracketed()
		if err != nil {
			return nil, err
		}
		if name == "ByteList" {
			return ByteList(n), nil
		}
		return Bitlist(n), nil
	case "Vector", "List":
		return p.parseSequence(name)
	case "Container":
		return p.parseContainer()
	case "":
		return nil, p.errorf("expected a type")
	}
	return nil, p.errorf("unknown type %q", name)
}

// parseSequence parses "[elem, n]" after Vector or List.
func (p *typeParser) parseSequence(name string) (*Type, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	n, err := p.number()
	if err != nil {
		return nil, err
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	if name == "List" {
		return List(elem, n), nil
	}
	if n == 0 {
		return nil, p.errorf("Vector length must be positive")
	}
	if !vectorFits(elem, n) {
		return nil, p.errorf("Vector of %d %s elements overflows", n, elem)
	}
	return Vector(elem, n), nil
}

// parseContainer parses "{name: type, ...}".
func (p *typeParser) parseContainer() (*Type, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var fields []Field
	seen := make(map[string]bool)
	for {
		name := p.ident()
		if name == "" {
			return nil, p.errorf("expected a field name")
		}
		if seen[name] {
			return nil, p.errorf("duplicate field %q", name)
		}
		seen[name] = true
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Type: t})
		if !p.peek(',') {
			break
		}
		p.pos++
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	if !regionFits(fields) {
		return nil, p.errorf("container fixed region overflows")
	}
	return Container("", fields...), nil
}
