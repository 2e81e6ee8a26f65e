package upload_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courseform/pkg/testsupport"
	"github.com/goliatone/go-courseform/pkg/upload"
)

type stateLog struct {
	mu     sync.Mutex
	states []upload.State
}

func (l *stateLog) add(s upload.State) {
	l.mu.Lock()
	l.states = append(l.states, s)
	l.mu.Unlock()
}

func (l *stateLog) snapshot() []upload.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]upload.State(nil), l.states...)
}

func TestTrackerReportsMonotonicProgress(t *testing.T) {
	transport := testsupport.InstantTransport(upload.Result{URL: "https://cdn/x.png", PublicID: "x"}, 10, 5, 40, 40, 120)
	tracker := upload.NewTracker(transport)

	var log stateLog
	res, err := tracker.Begin(context.Background(), upload.FileFromBytes("x.png", []byte("png"), ""), log.add)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if res.URL != "https://cdn/x.png" {
		t.Fatalf("url = %q", res.URL)
	}

	want := []upload.State{
		{Phase: upload.PhaseUploading, Percentage: 0},
		{Phase: upload.PhaseUploading, Percentage: 10},
		{Phase: upload.PhaseUploading, Percentage: 40},
		{Phase: upload.PhaseUploading, Percentage: 100},
		{Phase: upload.PhaseDone, Percentage: 100},
	}
	if diff := cmp.Diff(want, log.snapshot()); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
	if got := tracker.State(); got.Phase != upload.PhaseDone || got.Percentage != 100 {
		t.Fatalf("final state = %+v", got)
	}
}

func TestTrackerFailureLeavesFailedPhase(t *testing.T) {
	boom := errors.New("network down")
	tracker := upload.NewTracker(testsupport.FailingTransport(boom))

	_, err := tracker.Begin(context.Background(), upload.FileFromBytes("x.png", nil, ""), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if got := tracker.State().Phase; got != upload.PhaseFailed {
		t.Fatalf("phase = %s, want failed", got)
	}
}

func TestTrackerCancelAndRestart(t *testing.T) {
	transport := testsupport.NewScriptedTransport()
	tracker := upload.NewTracker(transport)

	firstErr := make(chan error, 1)
	go func() {
		_, err := tracker.Begin(context.Background(), upload.FileFromBytes("a.png", nil, ""), nil)
		firstErr <- err
	}()
	first := transport.Next(t)
	first.Progress(30)

	secondDone := make(chan upload.Result, 1)
	go func() {
		res, err := tracker.Begin(context.Background(), upload.FileFromBytes("b.png", nil, ""), nil)
		if err != nil {
			t.Errorf("second begin: %v", err)
		}
		secondDone <- res
	}()
	second := transport.Next(t)

	select {
	case err := <-firstErr:
		if !errors.Is(err, upload.ErrSuperseded) {
			t.Fatalf("first upload err = %v, want ErrSuperseded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first upload was not cancelled")
	}
	if !first.Cancelled() {
		t.Fatal("first upload context should be cancelled")
	}
	if got := tracker.State(); got.Phase != upload.PhaseUploading || got.Percentage != 0 {
		t.Fatalf("state after restart = %+v", got)
	}

	second.Succeed(upload.Result{URL: "https://cdn/b.png", PublicID: "b"})
	if res := <-secondDone; res.PublicID != "b" {
		t.Fatalf("second result = %+v", res)
	}
}

func TestTrackerRemoveDiscardsLateCompletion(t *testing.T) {
	transport := testsupport.NewScriptedTransport()
	transport.IgnoreCancel = true
	tracker := upload.NewTracker(transport)

	done := make(chan error, 1)
	go func() {
		_, err := tracker.Begin(context.Background(), upload.FileFromBytes("a.png", nil, ""), nil)
		done <- err
	}()
	call := transport.Next(t)

	tracker.Remove()
	if got := tracker.State(); got.Phase != upload.PhaseIdle {
		t.Fatalf("phase after remove = %s", got.Phase)
	}

	call.Progress(80)
	call.Succeed(upload.Result{URL: "late"})
	if err := <-done; !errors.Is(err, upload.ErrSuperseded) {
		t.Fatalf("late completion err = %v", err)
	}
	if got := tracker.State(); got != (upload.State{Phase: upload.PhaseIdle}) {
		t.Fatalf("late completion leaked into state: %+v", got)
	}
}

func TestTrackerRequiresFile(t *testing.T) {
	tracker := upload.NewTracker(testsupport.InstantTransport(upload.Result{}))
	if _, err := tracker.Begin(context.Background(), nil, nil); !errors.Is(err, upload.ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if got := tracker.State().Phase; got != upload.PhaseIdle {
		t.Fatalf("phase = %s", got)
	}
}
