package retry

import (
	"testing"
	"time"

	"github.com/kirkwilson-git/samples/logger"
	"github.com/pkg/errors"
	"golang.org/x/net/context"
)

func TestPolicyDo(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	p := Policy{InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond, MaxAttempts: 3}

	// Test 1 - success after transient failures.
	count := 0
	err := p.Do(context.Background(), log, "test op", func() error {
		count++
		if count < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("expected 3 attempts; got %v", count)
	}

	// Test 2 - attempts are bounded.
	count = 0
	err = p.Do(context.Background(), log, "test op", func() error {
		count++
		return errors.New("permanent")
	})
	if err == nil {
		t.Fatal("expected an error after exhausting attempts")
	}
	if count != 3 {
		t.Fatalf("expected 3 attempts; got %v", count)
	}

	// Test 3 - a single attempt policy does not retry.
	p.MaxAttempts = 1
	count = 0
	_ = p.Do(context.Background(), log, "test op", func() error {
		count++
		return errors.New("nope")
	})
	if count != 1 {
		t.Fatalf("expected 1 attempt; got %v", count)
	}
}
