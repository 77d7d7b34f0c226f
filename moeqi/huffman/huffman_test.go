package huffman

import (
	"errors"
	"testing"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
	"github.com/google/go-cmp/cmp"
)

// packBits packs a string of '0'/'1' in stream order, least significant bit
// of each byte first.
func packBits(bits string) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, c := range bits {
		if c == '1' {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

func TestCanonicalTieBreakAndBitOrder(t *testing.T) {
	symbols := []int16{5, -3}
	lengths := []uint8{1, 1}

	// -3 sorts first and receives code 0; 5 receives code 1.
	got, err := DecodeInt16s([]byte{0x01}, 1, symbols, lengths)
	if err != nil {
		t.Fatalf("DecodeInt16s error: %v", err)
	}
	if got[0] != 5 {
		t.Errorf("first symbol = %d, want 5", got[0])
	}

	got, err = DecodeInt16s([]byte{0x02}, 2, symbols, lengths)
	if err != nil {
		t.Fatalf("DecodeInt16s error: %v", err)
	}
	if diff := cmp.Diff([]int16{-3, 5}, got); diff != "" {
		t.Errorf("decoded symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMixedLengths(t *testing.T) {
	// Canonical codes: 0 -> 0, 1 -> 10, -1 -> 110, 2 -> 111.
	symbols := []int16{2, -1, 1, 0}
	lengths := []uint8{3, 3, 2, 1}

	payload := packBits("0" + "10" + "110" + "111" + "0")
	if diff := cmp.Diff([]byte{218, 1}, payload); diff != "" {
		t.Fatalf("packBits mismatch (-want +got):\n%s", diff)
	}

	got, err := DecodeInt16s(payload, 5, symbols, lengths)
	if err != nil {
		t.Fatalf("DecodeInt16s error: %v", err)
	}
	if diff := cmp.Diff([]int16{0, 1, -1, 2, 0}, got); diff != "" {
		t.Errorf("decoded symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeStopsAtCount(t *testing.T) {
	tree, err := BuildTree([]int16{5, -3}, []uint8{1, 1})
	if err != nil {
		t.Fatalf("BuildTree error: %v", err)
	}
	got, err := tree.Decode([]byte{0xFF, 0xFF}, 3)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if diff := cmp.Diff([]int16{5, 5, 5}, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTreeErrors(t *testing.T) {
	tests := []struct {
		name    string
		symbols []int16
		lengths []uint8
	}{
		{"mismatched lengths", []int16{1, 2}, []uint8{1}},
		{"empty table", nil, nil},
		{"zero length", []int16{1}, []uint8{0}},
		{"too long", []int16{1}, []uint8{MaxCodeLength + 1}},
		{"over-subscribed", []int16{1, 2, 3}, []uint8{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTree(tt.symbols, tt.lengths)
			if !errors.Is(err, ErrInvalidTable) {
				t.Fatalf("BuildTree error = %v, want ErrInvalidTable", err)
			}
			if !errors.Is(err, common.ErrDecode) {
				t.Errorf("BuildTree error = %v, want ErrDecode class", err)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	// A single 2-bit code "00" leaves every right branch empty.
	tree, err := BuildTree([]int16{7}, []uint8{2})
	if err != nil {
		t.Fatalf("BuildTree error: %v", err)
	}

	if _, err := tree.Decode([]byte{0x01}, 1); !errors.Is(err, ErrBadCode) {
		t.Errorf("Decode(missing child) error = %v, want ErrBadCode", err)
	}

	got, err := tree.Decode([]byte{0x00}, 4)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if diff := cmp.Diff([]int16{7, 7, 7, 7}, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}

	_, err = tree.Decode([]byte{0x00}, 5)
	if !errors.Is(err, ErrShortStream) || !errors.Is(err, common.ErrUnexpectedEOF) {
		t.Errorf("Decode(exhausted) error = %v, want ErrShortStream", err)
	}

	if _, err := tree.Decode([]byte{0x00}, 9); !errors.Is(err, ErrShortStream) {
		t.Errorf("Decode(too many symbols) error = %v, want ErrShortStream", err)
	}
}

func TestDecodeZeroCount(t *testing.T) {
	got, err := DecodeInt16s(nil, 0, nil, nil)
	if err != nil || len(got) != 0 {
		t.Errorf("DecodeInt16s(count=0) = %v, %v, want empty", got, err)
	}
}
