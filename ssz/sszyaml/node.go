// Package sszyaml converts between YAML documents and ssz values, in the
// notation used by consensus test vectors: integers in base 10 (quoted or
// not), byte vectors, byte lists and bitfields as 0x-prefixed hex of their
// serialized form, vectors and lists as sequences, and containers as
// mappings keyed by field name.
package sszyaml

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"gopkg.in/yaml.v3"

	"github.com/eth2030/sszkit/ssz"
)

// Unmarshal parses a YAML document as a value of type t.
func Unmarshal(data []byte, t *ssz.Type) (ssz.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ssz.ErrParseFailure, err)
	}
	if doc.Kind == 0 {
		return nil, fmt.Errorf("%w: empty document", ssz.ErrParseFailure)
	}
	return DecodeNode(&doc, t)
}

// Marshal renders v as a YAML document.
func Marshal(t *ssz.Type, v ssz.Value) ([]byte, error) {
	node, err := EncodeNode(t, v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// DecodeNode builds a value of type t from node. The result is validated
// against t, so an over-long list is rejected here rather than at encode
// time. Every failure wraps ssz.ErrParseFailure.
func DecodeNode(node *yaml.Node, t *ssz.Type) (ssz.Value, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: nil node", ssz.ErrParseFailure)
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) != 1 {
			return nil, parseErr(node, "document has %d roots", len(node.Content))
		}
		node = node.Content[0]
	}
	v, err := decode(node, t)
	if err != nil {
		return nil, err
	}
	if err := ssz.Validate(t, v); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ssz.ErrParseFailure, node.Line, err)
	}
	return v, nil
}

func parseErr(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ssz.ErrParseFailure, node.Line, fmt.Sprintf(format, args...))
}

func decode(node *yaml.Node, t *ssz.Type) (ssz.Value, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	switch t.Kind() {
	case ssz.KindBool:
		if err := expectScalar(node, t); err != nil {
			return nil, err
		}
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return nil, parseErr(node, "bad bool %q", node.Value)
		}
		return ssz.Bool(b), nil
	case ssz.KindUint8, ssz.KindUint16, ssz.KindUint32, ssz.KindUint64:
		return decodeUint(node, t)
	case ssz.KindUint128, ssz.KindUint256:
		if err := expectScalar(node, t); err != nil {
			return nil, err
		}
		x, err := uint256.FromDecimal(node.Value)
		if err != nil {
			return nil, parseErr(node, "bad %s %q: %v", t, node.Value, err)
		}
		if t.Kind() == ssz.KindUint128 {
			if x.BitLen() > 128 {
				return nil, parseErr(node, "%q overflows uint128", node.Value)
			}
			return ssz.Uint128{Lo: x[0], Hi: x[1]}, nil
		}
		return ssz.NewUint256(x), nil
	case ssz.KindByteVector, ssz.KindByteList:
		b, err := decodeHex(node, t)
		if err != nil {
			return nil, err
		}
		return ssz.Bytes(b), nil
	case ssz.KindBitvector, ssz.KindBitlist:
		b, err := decodeHex(node, t)
		if err != nil {
			return nil, err
		}
		v, err := ssz.Decode(t, b)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ssz.ErrParseFailure, node.Line, err)
		}
		return v, nil
	case ssz.KindVector, ssz.KindList:
		if node.Kind != yaml.SequenceNode {
			return nil, parseErr(node, "%s wants a sequence", t)
		}
		seq := make(ssz.Sequence, len(node.Content))
		for i, item := range node.Content {
			v, err := decode(item, t.Elem())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			seq[i] = v
		}
		return seq, nil
	case ssz.KindContainer:
		return decodeContainer(node, t)
	}
	return nil, parseErr(node, "unsupported type %s", t)
}

func expectScalar(node *yaml.Node, t *ssz.Type) error {
	if node.Kind != yaml.ScalarNode {
		return parseErr(node, "%s wants a scalar", t)
	}
	return nil
}

func decodeUint(node *yaml.Node, t *ssz.Type) (ssz.Value, error) {
	if err := expectScalar(node, t); err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(node.Value, 10, int(t.FixedSize())*8)
	if err != nil {
		return nil, parseErr(node, "bad %s %q", t, node.Value)
	}
	switch t.Kind() {
	case ssz.KindUint8:
		return ssz.Uint8(n), nil
	case ssz.KindUint16:
		return ssz.Uint16(n), nil
	case ssz.KindUint32:
		return ssz.Uint32(n), nil
	default:
		return ssz.Uint64(n), nil
	}
}

func decodeHex(node *yaml.Node, t *ssz.Type) ([]byte, error) {
	if err := expectScalar(node, t); err != nil {
		return nil, err
	}
	b, err := hexutil.Decode(node.Value)
	if err != nil {
		return nil, parseErr(node, "bad hex for %s: %v", t, err)
	}
	return b, nil
}

func decodeContainer(node *yaml.Node, t *ssz.Type) (ssz.Value, error) {
	if node.Kind != yaml.MappingNode {
		return nil, parseErr(node, "%s wants a mapping", t)
	}
	fields := t.Fields()
	out := make(ssz.Composite, len(fields))
	seen := make([]bool, len(fields))
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		idx, ok := t.FieldIndex(key.Value)
		if !ok {
			return nil, parseErr(key, "%s has no field %q", t, key.Value)
		}
		if seen[idx] {
			return nil, parseErr(key, "duplicate field %q", key.Value)
		}
		v, err := decode(val, fields[idx].Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key.Value, err)
		}
		out[idx], seen[idx] = v, true
	}
	for i, f := range fields {
		if !seen[i] {
			return nil, parseErr(node, "%s: missing field %q", t, f.Name)
		}
	}
	return out, nil
}

// EncodeNode renders v as a YAML node: integers in base 10, byte sequences
// and bitfields as 0x hex, containers as mappings in field order.
func EncodeNode(t *ssz.Type, v ssz.Value) (*yaml.Node, error) {
	if err := ssz.Validate(t, v); err != nil {
		return nil, err
	}
	return encode(t, v)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func encode(t *ssz.Type, v ssz.Value) (*yaml.Node, error) {
	switch x := v.(type) {
	case ssz.Bool:
		return scalar("!!bool", strconv.FormatBool(bool(x))), nil
	case ssz.Uint8:
		return scalar("!!int", strconv.FormatUint(uint64(x), 10)), nil
	case ssz.Uint16:
		return scalar("!!int", strconv.FormatUint(uint64(x), 10)), nil
	case ssz.Uint32:
		return scalar("!!int", strconv.FormatUint(uint64(x), 10)), nil
	case ssz.Uint64:
		return scalar("!!int", strconv.FormatUint(uint64(x), 10)), nil
	case ssz.Uint128:
		n := uint256.Int{x.Lo, x.Hi, 0, 0}
		return scalar("!!str", n.Dec()), nil
	case ssz.Uint256:
		return scalar("!!str", x.Int().Dec()), nil
	case ssz.Bytes:
		return scalar("!!str", hexutil.Encode(x)), nil
	case ssz.Bits:
		b, err := ssz.Encode(t, x)
		if err != nil {
			return nil, err
		}
		return scalar("!!str", hexutil.Encode(b)), nil
	case ssz.Sequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			n, err := encode(t.Elem(), e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, n)
		}
		return node, nil
	case ssz.Composite:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, f := range t.Fields() {
			n, err := encode(f.Type, x[i])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, scalar("!!str", f.Name), n)
		}
		return node, nil
	}
	return nil, fmt.Errorf("%w: %T", ssz.ErrTypeMismatch, v)
}
