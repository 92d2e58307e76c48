package audio

import (
	"context"
	"errors"
	"testing"
)

func TestClosedStream(t *testing.T) {
	var s DuplexStream

	if err := s.Run(context.Background()); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Run err = %v, want ErrNotOpen", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close err = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("second Close err = %v", err)
	}
}
