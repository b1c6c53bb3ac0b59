package tokens

import (
	"errors"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// CharsPerToken is the fixed ratio CharEncoder estimates with.
const CharsPerToken = 4

// EncodingChars names the character-based estimator in NewEncoder.
const EncodingChars = "chars"

var ErrDecodeUnsupported = errors.New("decode not supported by character estimator")

// Encoder represents a token encoder
type Encoder interface {
	Encode(text string) ([]int, error)
	Decode(tokens []int) (string, error)
	Count(text string) (int, error)
}

// IsCharEstimate reports whether name selects the ceil(len/4) estimator the
// budget thresholds are calibrated for.
func IsCharEstimate(name string) bool {
	return name == "" || name == EncodingChars
}

// NewEncoder returns the encoder registered under name. An empty name or
// EncodingChars selects the character estimator; anything else is a tiktoken
// encoding such as "cl100k_base".
func NewEncoder(name string) (Encoder, error) {
	if IsCharEstimate(name) {
		return NewCharEncoder(), nil
	}
	return NewTiktokenEncoder(name)
}

// TiktokenEncoder implements Encoder using tiktoken-go
type TiktokenEncoder struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenEncoder creates a new tiktoken encoder
func NewTiktokenEncoder(encodingName string) (*TiktokenEncoder, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding %s: %w", encodingName, err)
	}

	return &TiktokenEncoder{
		encoding: encoding,
	}, nil
}

// Encode converts text to tokens
func (e *TiktokenEncoder) Encode(text string) ([]int, error) {
	return e.encoding.Encode(text, nil, nil), nil
}

// Decode converts tokens to text
func (e *TiktokenEncoder) Decode(tokens []int) (string, error) {
	return e.encoding.Decode(tokens), nil
}

// Count returns the number of tokens in text
func (e *TiktokenEncoder) Count(text string) (int, error) {
	tokens := e.encoding.Encode(text, nil, nil)
	return len(tokens), nil
}

// CharEncoder estimates one token per CharsPerToken bytes, rounding up.
type CharEncoder struct{}

func NewCharEncoder() *CharEncoder {
	return &CharEncoder{}
}

// Estimate is ceil(len(text) / CharsPerToken). It never fails.
func Estimate(text string) int {
	return (len(text) + CharsPerToken - 1) / CharsPerToken
}

// Encode returns placeholder token ids, one per estimated token.
func (e *CharEncoder) Encode(text string) ([]int, error) {
	count := Estimate(text)
	tokens := make([]int, count)
	for i := range tokens {
		tokens[i] = i
	}
	return tokens, nil
}

func (e *CharEncoder) Decode(tokens []int) (string, error) {
	return "", ErrDecodeUnsupported
}

func (e *CharEncoder) Count(text string) (int, error) {
	return Estimate(text), nil
}
