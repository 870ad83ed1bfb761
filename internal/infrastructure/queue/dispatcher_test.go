package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
)

type recordingAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	calls  int
	err    error
}

func (r *recordingAuditRepo) InsertEvent(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *recordingAuditRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}

func TestAuditDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &recordingAuditRepo{}
	d := NewAuditDispatcher(3, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	actions := []domain.AuditAction{
		domain.AuditSignup,
		domain.AuditLoginFailed,
		domain.AuditLoginSucceeded,
		domain.AuditUserBlocked,
		domain.AuditUserUnblocked,
	}
	for _, a := range actions {
		d.Publish(domain.AuditEvent{Action: a, Username: "alice"})
		d.Publish(domain.AuditEvent{Action: a, Username: "bob"})
	}

	cancel()
	d.Wait()

	got := repo.snapshot()
	if len(got) != 2*len(actions) {
		t.Fatalf("expected %d events, got %d", 2*len(actions), len(got))
	}

	var alice []domain.AuditAction
	for _, e := range got {
		if e.ID == "" {
			t.Fatalf("expected event ID to be assigned")
		}
		if e.Username == "alice" {
			alice = append(alice, e.Action)
		}
	}
	for i, a := range actions {
		if alice[i] != a {
			t.Fatalf("alice event %d: expected %s, got %s", i, a, alice[i])
		}
	}
}

func TestAuditDispatcher_PersistenceErrorDoesNotStopWorker(t *testing.T) {
	repo := &recordingAuditRepo{err: errors.New("mongo down")}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	d.Publish(domain.AuditEvent{Action: domain.AuditSignup, Username: "alice"})

	deadline := time.Now().Add(time.Second)
	for {
		repo.mu.Lock()
		calls := repo.calls
		if calls > 0 {
			repo.err = nil
		}
		repo.mu.Unlock()
		if calls > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("first event never reached the repository")
		}
		time.Sleep(5 * time.Millisecond)
	}

	d.Publish(domain.AuditEvent{Action: domain.AuditLoginSucceeded, Username: "alice"})
	cancel()
	d.Wait()

	got := repo.snapshot()
	if len(got) != 1 || got[0].Action != domain.AuditLoginSucceeded {
		t.Fatalf("expected only the second event stored, got %+v", got)
	}
}

func TestAuditDispatcher_PublishNeverBlocks(t *testing.T) {
	repo := &recordingAuditRepo{}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Publish(domain.AuditEvent{Action: domain.AuditLoginFailed, Username: "alice"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Publish blocked on a full queue")
	}
	if n := len(d.workers[0]); n != channelBuffer {
		t.Fatalf("expected full queue of %d, got %d", channelBuffer, n)
	}
}

func TestAuditDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewAuditDispatcher(8, &recordingAuditRepo{}, zerolog.Nop())
	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice") != first {
			t.Fatalf("shard index changed between calls")
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
