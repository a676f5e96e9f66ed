package chat

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		wantMsg string
	}{
		{"valid", "  What does she build?  ", "What does she build?", ""},
		{"empty", "", "", MessageEmpty},
		{"whitespace", " \n\t ", "", MessageEmpty},
		{"not text", 42, "", MessageNotText},
		{"missing", nil, "", MessageEmpty},
		{"exactly 500", strings.Repeat("a", 500), strings.Repeat("a", 500), ""},
		{"501", strings.Repeat("a", 501), "", MessageTooLong},
		{"padded 500", "  " + strings.Repeat("a", 500) + "  ", strings.Repeat("a", 500), ""},
		{"500 runes multibyte", strings.Repeat("é", 500), strings.Repeat("é", 500), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateMessage(tt.input, 500)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("ValidateMessage() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("ValidateMessage() = %q, want %q", got, tt.want)
				}
				return
			}

			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("ValidateMessage() error = %v, want ErrInvalidInput", err)
			}
			if UserMessage(err) != tt.wantMsg {
				t.Errorf("UserMessage() = %q, want %q", UserMessage(err), tt.wantMsg)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrServiceUnavailable, MessageNotConfigured},
		{ErrRateLimited, MessageRateLimited},
		{ErrUpstream, MessageUpstream},
		{errors.New("dial tcp: connection refused"), MessageUpstream},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
