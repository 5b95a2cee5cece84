package models

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qualuo/ai-lab/internal/retry"
)

type fakeRunner struct {
	pulled  []string
	failing map[string]error
}

func (f *fakeRunner) Version(context.Context) (string, error) { return "0.5.7", nil }

func (f *fakeRunner) Pull(_ context.Context, model string, progress func(string)) error {
	f.pulled = append(f.pulled, model)
	if progress != nil {
		progress("pulling manifest")
	}
	if err, ok := f.failing[model]; ok {
		return err
	}
	return nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func newFetcher(client *fakeRunner, attempts int) *Fetcher {
	return NewFetcher(client, retry.New(attempts, time.Second, retry.WithSleeper(noSleep)), nil)
}

func TestFetchPullsInOrder(t *testing.T) {
	client := &fakeRunner{}
	fetcher := newFetcher(client, 3)

	results, err := fetcher.Fetch(context.Background(), []string{"llama3.2", "gemma3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	want := []string{"llama3.2", "gemma3"}
	for i, model := range want {
		if client.pulled[i] != model {
			t.Fatalf("expected pull order %v, got %v", want, client.pulled)
		}
		if results[i].Err != nil || results[i].Attempts != 1 {
			t.Fatalf("unexpected result %+v", results[i])
		}
	}
}

func TestFetchAbortsAfterFirstFailure(t *testing.T) {
	client := &fakeRunner{failing: map[string]error{"b": errors.New("manifest unknown")}}
	fetcher := newFetcher(client, 2)

	results, err := fetcher.Fetch(context.Background(), []string{"a", "b", "c"})
	if err == nil {
		t.Fatal("expected failure")
	}
	// "b" is retried twice; "c" is never attempted.
	wantPulls := []string{"a", "b", "b"}
	if len(client.pulled) != len(wantPulls) {
		t.Fatalf("expected pulls %v, got %v", wantPulls, client.pulled)
	}
	for i, model := range wantPulls {
		if client.pulled[i] != model {
			t.Fatalf("expected pulls %v, got %v", wantPulls, client.pulled)
		}
	}
	if len(results) != 2 {
		t.Fatalf("expected results for attempted models only, got %d", len(results))
	}
	if results[1].Model != "b" || results[1].Err == nil || results[1].Attempts != 2 {
		t.Fatalf("unexpected failing result %+v", results[1])
	}
}

func TestFetchNormalizesNames(t *testing.T) {
	client := &fakeRunner{}
	fetcher := newFetcher(client, 1)

	results, err := fetcher.Fetch(context.Background(), []string{"  llama3.2 ", "", "gemma3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected blank entries dropped, got %d results", len(results))
	}
	if results[0].Model != "llama3.2" || results[1].Model != "gemma3" {
		t.Fatalf("unexpected models %v", results)
	}
}

func TestFetchRejectsEmptyList(t *testing.T) {
	fetcher := newFetcher(&fakeRunner{}, 1)

	if _, err := fetcher.Fetch(context.Background(), []string{" ", ""}); err == nil {
		t.Fatal("expected error for empty model list")
	}
}
