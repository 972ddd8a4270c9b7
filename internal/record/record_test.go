package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	max, err := ParsePosition("340282366920938463463374607431768211455")
	require.NoError(t, err)

	records := []Record{
		{Kind: Add, Pos: NewPosition(0), Byte: 0x61},
		{Kind: Add, Pos: NewPosition(255), Byte: 0x00},
		{Kind: Remove, Pos: NewPosition(1)},
		{Kind: Remove, Pos: max},
		{Kind: Edit, Pos: NewPosition(12345678901234567), Byte: 0xFF},
		{Kind: Edit, Pos: Position{Hi: 1, Lo: 0}, Byte: 0xC3},
	}

	for _, want := range records {
		t.Run(want.Kind.String()+"@"+want.Pos.String(), func(t *testing.T) {
			encoded, err := Encode(want)
			require.NoError(t, err)

			got, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// Re-encoding must reproduce the exact bytes.
			again, err := Encode(got)
			require.NoError(t, err)
			assert.Equal(t, encoded, again)
		})
	}
}

func TestEncodedTextLayout(t *testing.T) {
	encoded, err := Encode(Record{Kind: Add, Pos: NewPosition(5), Byte: 0xC3})
	require.NoError(t, err)
	assert.Equal(t, "add\n5\nC3\n", string(encoded))

	encoded, err = Encode(Record{Kind: Remove, Pos: NewPosition(0)})
	require.NoError(t, err)
	assert.Equal(t, "rmv\n0\n", string(encoded))

	encoded, err = Encode(Record{Kind: Edit, Pos: NewPosition(1), Byte: 0x0A})
	require.NoError(t, err)
	assert.Equal(t, "edt\n1\n0A\n", string(encoded))
}

func TestEncodeRejectsUnknownKind(t *testing.T) {
	_, err := Encode(Record{Kind: Kind(9), Pos: NewPosition(0)})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDecodeRejectsMalformedRecords(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown kind", "del\n0\n", ErrUnknownKind},
		{"empty", "", ErrLineCount},
		{"no trailing newline", "rmv\n0", ErrLineCount},
		{"rmv with byte line", "rmv\n0\n61\n", ErrLineCount},
		{"add missing byte line", "add\n0\n", ErrLineCount},
		{"add with extra line", "add\n0\n61\n61\n", ErrLineCount},
		{"kind only", "edt\n", ErrLineCount},
		{"position with sign", "rmv\n-1\n", ErrPosition},
		{"position empty", "rmv\n\n", ErrPosition},
		{"position leading zero", "rmv\n01\n", ErrPosition},
		{"position over 128 bits", "rmv\n340282366920938463463374607431768211456\n", ErrPosition},
		{"byte lowercase hex", "add\n0\nc3\n", ErrByteField},
		{"byte one digit", "add\n0\nA\n", ErrByteField},
		{"byte three digits", "add\n0\nABC\n", ErrByteField},
		{"byte non-hex", "edt\n0\nG1\n", ErrByteField},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.input))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
