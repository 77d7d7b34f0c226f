// Package huffman decodes residual streams coded with a canonical Huffman code
// described only by (symbol, code length) pairs.
package huffman

import (
	"fmt"
	"sort"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

// MaxCodeLength is the longest supported code.
const MaxCodeLength = 32

var (
	// ErrInvalidTable is returned for empty, mismatched or over-subscribed tables.
	ErrInvalidTable = fmt.Errorf("%w: invalid huffman table", common.ErrDecode)

	// ErrBadCode is returned when the bitstream walks off the code tree.
	ErrBadCode = fmt.Errorf("%w: invalid huffman code", common.ErrDecode)
)

// noChild marks an absent child. Index 0 is always the root and is never a child.
const noChild int32 = 0

type node struct {
	child  [2]int32
	leaf   bool
	symbol int16
}

// Tree is a code tree stored as an arena of nodes; nodes[0] is the root.
type Tree struct {
	nodes []node
}

type entry struct {
	symbol int16
	length uint8
}

// BuildTree assigns canonical codes to the (symbol, length) pairs and inserts
// them into a binary tree, most significant bit first. Pairs are ordered by
// length, then by symbol.
func BuildTree(symbols []int16, lengths []uint8) (*Tree, error) {
	if len(symbols) != len(lengths) {
		return nil, fmt.Errorf("%w: %d symbols but %d lengths", ErrInvalidTable, len(symbols), len(lengths))
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrInvalidTable)
	}

	entries := make([]entry, len(symbols))
	for i := range symbols {
		if lengths[i] == 0 || lengths[i] > MaxCodeLength {
			return nil, fmt.Errorf("%w: symbol %d has code length %d", ErrInvalidTable, symbols[i], lengths[i])
		}
		entries[i] = entry{symbol: symbols[i], length: lengths[i]}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].length != entries[j].length {
			return entries[i].length < entries[j].length
		}
		return entries[i].symbol < entries[j].symbol
	})

	t := &Tree{nodes: make([]node, 1, 2*len(entries))}

	var code uint64
	prevLen := entries[0].length
	for i, e := range entries {
		if i > 0 {
			code = (code + 1) << (e.length - prevLen)
			prevLen = e.length
		}
		if code>>e.length != 0 {
			return nil, fmt.Errorf("%w: code space exhausted at symbol %d", ErrInvalidTable, e.symbol)
		}
		if err := t.insert(uint32(code), e.length, e.symbol); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Tree) insert(code uint32, length uint8, symbol int16) error {
	cur := int32(0)
	for i := int(length) - 1; i >= 0; i-- {
		if t.nodes[cur].leaf {
			return fmt.Errorf("%w: code for symbol %d extends a shorter code", ErrInvalidTable, symbol)
		}
		bit := (code >> uint(i)) & 1
		next := t.nodes[cur].child[bit]
		if next == noChild {
			t.nodes = append(t.nodes, node{})
			next = int32(len(t.nodes) - 1)
			t.nodes[cur].child[bit] = next
		}
		cur = next
	}

	n := &t.nodes[cur]
	if n.leaf || n.child[0] != noChild || n.child[1] != noChild {
		return fmt.Errorf("%w: code for symbol %d collides with another code", ErrInvalidTable, symbol)
	}
	n.leaf = true
	n.symbol = symbol
	return nil
}
