package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Op:     "resolve rev",
				Kind:   KindNotFound,
				Domain: "g-io-error-quark",
				Code:   1,
				Detail: "refspec not found",
			},
			contains: []string{"[resolve rev]", "not_found", "g-io-error-quark:1", "refspec not found"},
		},
		{
			name: "minimal error",
			err: &Error{
				Kind: KindNotInitialized,
			},
			contains: []string{"not_initialized"},
		},
		{
			name: "error with cause",
			err: &Error{
				Op:    "traverse commit",
				Kind:  KindCanceled,
				Cause: stderrors.New("context canceled"),
			},
			contains: []string{"[traverse commit]", "canceled", "caused by", "context canceled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := &Error{Kind: KindNative, Cause: cause}

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is does not find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap did not return the cause")
	}
}

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		target *Error
		want   bool
	}{
		{
			name:   "kind match",
			err:    &Error{Kind: KindNotFound, Domain: "g-io-error-quark", Code: 1},
			target: &Error{Kind: KindNotFound},
			want:   true,
		},
		{
			name:   "kind mismatch",
			err:    &Error{Kind: KindNative},
			target: &Error{Kind: KindNotFound},
			want:   false,
		},
		{
			name:   "domain and code match",
			err:    &Error{Kind: KindNative, Domain: "ostree-gpg-error-quark", Code: 3},
			target: &Error{Kind: KindNative, Domain: "ostree-gpg-error-quark", Code: 3},
			want:   true,
		},
		{
			name:   "domain match code mismatch",
			err:    &Error{Kind: KindNative, Domain: "ostree-gpg-error-quark", Code: 3},
			target: &Error{Kind: KindNative, Domain: "ostree-gpg-error-quark", Code: 4},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stderrors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOp(t *testing.T) {
	t.Run("annotates structured error", func(t *testing.T) {
		err := Op("open", New(KindNative).Detail("boom").Build())
		var e *Error
		if !stderrors.As(err, &e) {
			t.Fatal("not a structured error")
		}
		if e.Op != "open" {
			t.Errorf("Op = %q, want %q", e.Op, "open")
		}
	})

	t.Run("keeps existing op", func(t *testing.T) {
		err := Op("outer", New(KindNative).Op("inner").Build())
		var e *Error
		if !stderrors.As(err, &e) {
			t.Fatal("not a structured error")
		}
		if e.Op != "inner" {
			t.Errorf("Op = %q, want %q", e.Op, "inner")
		}
	})

	t.Run("wraps plain error", func(t *testing.T) {
		cause := stderrors.New("plain")
		err := Op("open", cause)
		var e *Error
		if !stderrors.As(err, &e) {
			t.Fatal("not a structured error")
		}
		if e.Kind != KindNative || !stderrors.Is(err, cause) {
			t.Errorf("wrapped error = %v", err)
		}
	})

	t.Run("nil passthrough", func(t *testing.T) {
		if err := Op("open", nil); err != nil {
			t.Errorf("Op(nil) = %v", err)
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&Error{Kind: KindNotFound}) {
		t.Error("IsNotFound missed a not_found error")
	}
	if IsNotFound(&Error{Kind: KindNative}) {
		t.Error("IsNotFound matched a native error")
	}
	if IsNotFound(stderrors.New("plain")) {
		t.Error("IsNotFound matched a plain error")
	}
}
