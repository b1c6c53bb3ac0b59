package tokens

import (
	"errors"
	"strings"
	"testing"
)

func TestCharEncoder_Count(t *testing.T) {
	encoder := NewCharEncoder()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{
			name:     "empty string",
			text:     "",
			expected: 0,
		},
		{
			name:     "single char",
			text:     "a",
			expected: 1,
		},
		{
			name:     "exact multiple",
			text:     "abcdefgh",
			expected: 2,
		},
		{
			name:     "medium text",
			text:     "This is a test message",
			expected: 6, // 22 chars / 4 = 5.5, rounded up
		},
		{
			name:     "long text",
			text:     strings.Repeat("x", 401),
			expected: 101,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := encoder.Count(tt.text)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if count != tt.expected {
				t.Errorf("Count() = %v, want %v", count, tt.expected)
			}
			if est := Estimate(tt.text); est != count {
				t.Errorf("Estimate() = %v, Count() = %v", est, count)
			}
		})
	}
}

func TestCharEncoder_Encode(t *testing.T) {
	encoder := NewCharEncoder()

	text := "Hello world"
	tokens, err := encoder.Encode(text)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	count, err := encoder.Count(text)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}

	if len(tokens) != count {
		t.Errorf("Encode() returned %d tokens, Count() returned %d", len(tokens), count)
	}
}

func TestCharEncoder_Decode(t *testing.T) {
	encoder := NewCharEncoder()

	_, err := encoder.Decode([]int{1, 2, 3})
	if !errors.Is(err, ErrDecodeUnsupported) {
		t.Errorf("Decode() error = %v, want %v", err, ErrDecodeUnsupported)
	}
}

func TestNewEncoder(t *testing.T) {
	for _, name := range []string{"", EncodingChars} {
		enc, err := NewEncoder(name)
		if err != nil {
			t.Fatalf("NewEncoder(%q) error = %v", name, err)
		}
		if _, ok := enc.(*CharEncoder); !ok {
			t.Errorf("NewEncoder(%q) = %T, want *CharEncoder", name, enc)
		}
	}

	if _, err := NewEncoder("no-such-encoding"); err == nil {
		t.Error("NewEncoder() expected error for unknown encoding")
	}
}

func TestIsCharEstimate(t *testing.T) {
	for name, want := range map[string]bool{
		"":            true,
		EncodingChars: true,
		"cl100k_base": false,
		"o200k_base":  false,
	} {
		if got := IsCharEstimate(name); got != want {
			t.Errorf("IsCharEstimate(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestTiktokenEncoder(t *testing.T) {
	encoder, err := NewTiktokenEncoder("cl100k_base")
	if err != nil {
		// The BPE ranks are fetched on first use.
		t.Skipf("cl100k_base unavailable: %v", err)
	}

	text := "Hello, world!"
	tokens, err := encoder.Encode(text)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(tokens) == 0 {
		t.Fatal("Encode() returned no tokens")
	}

	count, err := encoder.Count(text)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != len(tokens) {
		t.Errorf("Count() = %d, want %d", count, len(tokens))
	}

	decoded, err := encoder.Decode(tokens)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded != text {
		t.Errorf("Decode() = %q, want %q", decoded, text)
	}
}
