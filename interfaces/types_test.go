package interfaces

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetWordRoundTrip(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000DeaDBeef")

	word := EncodeTargetWord(addr)
	require.Len(t, word, ExtraDataLength)

	decoded, err := DecodeTargetWord(word)
	require.NoError(t, err)
	assert.Equal(t, addr, decoded)
}

func TestDecodeTargetWord_Rejections(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000DeaDBeef")

	_, err := DecodeTargetWord(nil)
	assert.ErrorIs(t, err, ErrMalformedExtraData)

	_, err = DecodeTargetWord(addr.Bytes())
	assert.ErrorIs(t, err, ErrMalformedExtraData)

	_, err = DecodeTargetWord(append(EncodeTargetWord(addr), 0x00))
	assert.ErrorIs(t, err, ErrMalformedExtraData)

	dirty := EncodeTargetWord(addr)
	dirty[11] = 0x01
	_, err = DecodeTargetWord(dirty)
	assert.ErrorIs(t, err, ErrMalformedExtraData)

	_, err = DecodeTargetWord(make([]byte, ExtraDataLength))
	assert.ErrorIs(t, err, ErrInvalidTargetAddress)
}

func TestUnauthorizedFulfillerError(t *testing.T) {
	attempted := common.HexToAddress("0x01")
	expected := common.HexToAddress("0x02")

	var err error = &UnauthorizedFulfillerError{Attempted: attempted, Expected: expected}
	assert.ErrorIs(t, err, ErrUnauthorizedFulfiller)
	assert.Contains(t, err.Error(), attempted.Hex())
	assert.Contains(t, err.Error(), expected.Hex())
}

func TestInterfaceIDText(t *testing.T) {
	id := InterfaceID{0x01, 0xff, 0xc9, 0xa7}
	assert.Equal(t, "0x01ffc9a7", id.String())

	var parsed InterfaceID
	require.NoError(t, parsed.UnmarshalText([]byte("0x01ffc9a7")))
	assert.Equal(t, id, parsed)

	assert.Error(t, parsed.UnmarshalText([]byte("0x01ff")))
	assert.Error(t, parsed.UnmarshalText([]byte("01ffc9a7")))
}
