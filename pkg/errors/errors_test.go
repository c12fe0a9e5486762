package errors

import (
	"errors"
	"fmt"
	"testing"
)

var errSelfMerge = errors.New("node cannot merge into itself")

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "graph",
			err:  New(ErrCodeInvalidGraph, "edge %d: unknown node %q", 3, "n7"),
			want: `INVALID_GRAPH: edge 3: unknown node "n7"`,
		},
		{
			name: "unsupported format",
			err:  New(ErrCodeUnsupported, "format %q", "pdf"),
			want: `UNSUPPORTED: format "pdf"`,
		},
		{
			name: "cache with cause",
			err:  Wrap(ErrCodeCache, errors.New("connection refused"), "get %s", "levels:ab12"),
			want: "CACHE_ERROR: get levels:ab12: connection refused",
		},
		{
			name: "internal with store cause",
			err:  Wrap(ErrCodeInternal, errSelfMerge, "level %d", 2),
			want: "INTERNAL_ERROR: level 2: node cannot merge into itself",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeInternal, errSelfMerge, "merge 4 into 4")

	if err.Cause != errSelfMerge {
		t.Errorf("Cause = %v, want %v", err.Cause, errSelfMerge)
	}
	if !errors.Is(err, errSelfMerge) {
		t.Error("store sentinel should survive wrapping")
	}

	// A second layer, as the pipeline adds around mixer errors.
	outer := fmt.Errorf("compute layout: %w", err)
	if !errors.Is(outer, errSelfMerge) || GetCode(outer) != ErrCodeInternal {
		t.Errorf("outer chain lost cause or code: %v", outer)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"graph", New(ErrCodeInvalidGraph, "duplicate node id %q", "a"), ErrCodeInvalidGraph, true},
		{"graph is not input", New(ErrCodeInvalidGraph, "x"), ErrCodeInvalidInput, false},
		{"cache through fmt", fmt.Errorf("runner: %w", New(ErrCodeCache, "set")), ErrCodeCache, true},
		{"outermost code wins", Wrap(ErrCodeUnsupported, New(ErrCodeInvalidFormat, "inner"), "outer"), ErrCodeUnsupported, true},
		{"inner code hidden", Wrap(ErrCodeUnsupported, New(ErrCodeInvalidFormat, "inner"), "outer"), ErrCodeInvalidFormat, false},
		{"plain", errSelfMerge, ErrCodeInternal, false},
		{"nil", nil, ErrCodeTimeout, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"unsupported", New(ErrCodeUnsupported, "format %q", "png"), ErrCodeUnsupported},
		{"timeout wrapped", fmt.Errorf("layout: %w", New(ErrCodeTimeout, "deadline")), ErrCodeTimeout},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidGraph, "node %q: radius cannot be negative", "b"), `node "b": radius cannot be negative`},
		{"cause dropped", Wrap(ErrCodeCache, errors.New("dial tcp"), "redis unavailable"), "redis unavailable"},
		{"plain", errSelfMerge, "node cannot merge into itself"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
