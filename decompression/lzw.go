package decompression

import (
	"fmt"
	"io"

	"github.com/32bitkid/bitreader"
)

type lzwToken struct {
	data uint8
	next uint16
}

const (
	lzwResetToken   uint16 = 0x100
	lzwEndToken     uint16 = 0x101
	lzwFirstToken   uint16 = 0x102
	lzwInitialLimit uint16 = 0x1ff
	lzwInitialBits  uint   = 9
	lzwMaxBits      uint   = 12
	lzwTableSize           = 0x1014
)

// lzw decodes MSB-first codes starting at 9 bits and widening up to 12 bits.
// Code 0x100 resets the dictionary and 0x101 ends the stream.
func lzw(dst io.Writer, r io.Reader, max int) error {
	br := bitreader.NewReader(r)

	stack := make([]uint8, lzwTableSize)
	tokens := make([]lzwToken, lzwTableSize)

	var (
		len int
		out [1]byte

		numBits      uint
		currentToken uint16
		limit        uint16

		lastByte   uint8
		stackDepth int
		lastBits   uint16

		token uint16
		bits  uint16
		err   error
	)

	emit := func(b uint8) error {
		out[0] = b
		n, err := dst.Write(out[:])
		len += n
		return err
	}

reset:
	numBits = lzwInitialBits
	currentToken = lzwFirstToken
	limit = lzwInitialLimit

	bits, err = br.Read16(numBits)
	if err != nil {
		return err
	}
	if bits == lzwEndToken {
		goto done
	}
	if bits > 0xff {
		return fmt.Errorf("%w: lzw stream starts with code 0x%x", ErrCorrupt, bits)
	}
	lastByte = uint8(bits)
	if err := emit(lastByte); err != nil {
		return err
	}
	lastBits = bits
	if len == max {
		goto done
	}

next:
	bits, err = br.Read16(numBits)
	if err != nil {
		return err
	}

	switch {
	case bits == lzwEndToken:
		goto done
	case bits == lzwResetToken:
		goto reset
	case bits > currentToken:
		return fmt.Errorf("%w: lzw code 0x%x ahead of dictionary 0x%x", ErrCorrupt, bits, currentToken)
	}

	token = bits
	if token == currentToken {
		token = lastBits
		stack[stackDepth] = lastByte
		stackDepth++
	}
	for token > 0xff {
		if stackDepth >= lzwTableSize-1 {
			return fmt.Errorf("%w: lzw chain too long", ErrCorrupt)
		}
		stack[stackDepth] = tokens[token].data
		stackDepth++
		token = tokens[token].next
	}

	lastByte = uint8(token)
	stack[stackDepth] = lastByte
	stackDepth++

	for stackDepth > 0 {
		stackDepth--
		if err := emit(stack[stackDepth]); err != nil {
			return err
		}
		if len == max {
			goto done
		}
	}

	if currentToken <= limit {
		tokens[currentToken].data = lastByte
		tokens[currentToken].next = lastBits
		currentToken++
		if currentToken == limit && numBits < lzwMaxBits {
			numBits++
			limit = (limit << 1) + 1
		}
	}
	lastBits = bits
	goto next

done:
	if len != max {
		return fmt.Errorf("%w: expected %d bytes got %d bytes", ErrSizeMismatch, max, len)
	}

	return nil
}
