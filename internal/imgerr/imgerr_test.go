package imgerr

import (
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"input", Input("bad width %d", -1), KindInput},
		{"processing", Processing("unknown filter"), KindProcessing},
		{"encoding", Encoding("png failed"), KindEncoding},
		{"wrapped by fmt", fmt.Errorf("outer: %w", Input("inner")), KindInput},
		{"wrap helper", WrapEncoding(fmt.Errorf("disk full"), "write jpg"), KindEncoding},
		{"plain error", fmt.Errorf("plain"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := WrapInput(nil, "ignored"); err != nil {
		t.Errorf("WrapInput(nil): got %v, want nil", err)
	}
	if err := WrapProcessing(nil, "ignored"); err != nil {
		t.Errorf("WrapProcessing(nil): got %v, want nil", err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := WrapInput(fmt.Errorf("unexpected EOF"), "decode buffer")
	msg := err.Error()
	if !strings.HasPrefix(msg, "input error: ") {
		t.Errorf("message prefix: got %q", msg)
	}
	if !strings.Contains(msg, "decode buffer: unexpected EOF") {
		t.Errorf("message body: got %q", msg)
	}
	if !IsInput(err) || IsProcessing(err) || IsEncoding(err) {
		t.Errorf("kind predicates disagree for %v", err)
	}
}

func TestRewrapSameKind(t *testing.T) {
	err := WrapInput(Input("bad width"), "image 2")
	want := "input error: image 2: bad width"
	if err.Error() != want {
		t.Errorf("message: got %q, want %q", err.Error(), want)
	}
	if !IsInput(err) {
		t.Error("rewrapped error should stay an input error")
	}
}
