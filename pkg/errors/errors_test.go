package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeInvalidRecord, "record %q has no id", "VSI-A"),
			want: `INVALID_RECORD: record "VSI-A" has no id`,
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeFetchFailed, stderrors.New("connection refused"), "fetch records"),
			want: "FETCH_FAILED: fetch records: connection refused",
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

func TestIs(t *testing.T) {
	err := New(ErrCodeNetwork, "timeout")
	if !Is(err, ErrCodeNetwork) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeNotFound) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeNetwork) {
		t.Error("Is should not match a plain error")
	}
}

func TestIsUnwrapsChain(t *testing.T) {
	inner := New(ErrCodeTimeout, "deadline exceeded")
	outer := Wrap(ErrCodeFetchFailed, inner, "fetch records")

	if !Is(outer, ErrCodeFetchFailed) {
		t.Error("outer code should match")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInternal, "boom")); got != ErrCodeInternal {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInternal)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "no such dataset")); got != "no such dataset" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
