package huffman

import (
	"fmt"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

// ErrShortStream is returned when the payload ends before count symbols.
var ErrShortStream = fmt.Errorf("%w: %w: huffman stream exhausted", common.ErrDecode, common.ErrUnexpectedEOF)

// Decode reads count symbols from payload. Bits are consumed least significant
// first within each byte; 0 selects the left child and 1 the right child.
func (t *Tree) Decode(payload []byte, count int) ([]int16, error) {
	if count == 0 {
		return []int16{}, nil
	}
	// Every code is at least one bit long.
	if count > len(payload)*8 {
		return nil, fmt.Errorf("%w: %d symbols from %d bytes", ErrShortStream, count, len(payload))
	}

	out := make([]int16, 0, count)
	cur := int32(0)
	for pos, b := range payload {
		for i := 0; i < 8; i++ {
			bit := b & 1
			b >>= 1

			next := t.nodes[cur].child[bit]
			if next == noChild {
				return nil, fmt.Errorf("%w: byte %d bit %d", ErrBadCode, pos, i)
			}
			cur = next

			if n := &t.nodes[cur]; n.leaf {
				out = append(out, n.symbol)
				if len(out) == count {
					return out, nil
				}
				cur = 0
			}
		}
	}
	return nil, fmt.Errorf("%w: decoded %d of %d symbols", ErrShortStream, len(out), count)
}

// DecodeInt16s builds the canonical tree for (symbols, lengths) and decodes
// exactly count residuals from payload.
func DecodeInt16s(payload []byte, count int, symbols []int16, lengths []uint8) ([]int16, error) {
	if count == 0 {
		return []int16{}, nil
	}
	t, err := BuildTree(symbols, lengths)
	if err != nil {
		return nil, err
	}
	return t.Decode(payload, count)
}
