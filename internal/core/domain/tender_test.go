package domain

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to TenderStatus }{
		{TenderDraft, TenderPublished},
		{TenderDraft, TenderCancelled},
		{TenderPublished, TenderClosed},
		{TenderPublished, TenderAwarded},
		{TenderPublished, TenderCancelled},
		{TenderClosed, TenderAwarded},
	}
	for _, tr := range allowed {
		if !CanTransition(tr.from, tr.to) {
			t.Fatalf("expected %s -> %s to be allowed", tr.from, tr.to)
		}
	}

	forbidden := []struct{ from, to TenderStatus }{
		{TenderDraft, TenderClosed},
		{TenderDraft, TenderAwarded},
		{TenderClosed, TenderPublished},
		{TenderClosed, TenderCancelled},
		{TenderAwarded, TenderClosed},
		{TenderAwarded, TenderCancelled},
		{TenderCancelled, TenderPublished},
		{TenderCancelled, TenderAwarded},
	}
	for _, tr := range forbidden {
		if CanTransition(tr.from, tr.to) {
			t.Fatalf("expected %s -> %s to be forbidden", tr.from, tr.to)
		}
	}
}

func TestEffectiveStatusLazyClose(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := Tender{Status: TenderPublished, CloseAt: &future}
	if got := open.EffectiveStatus(now); got != TenderPublished {
		t.Fatalf("open tender effective status = %s", got)
	}
	if !open.AcceptsSubmissions(now) {
		t.Fatalf("open tender must accept submissions")
	}

	expired := Tender{Status: TenderPublished, CloseAt: &past}
	if got := expired.EffectiveStatus(now); got != TenderClosed {
		t.Fatalf("expired tender effective status = %s, want closed", got)
	}
	if expired.AcceptsSubmissions(now) {
		t.Fatalf("expired tender must not accept submissions")
	}

	// close_at has no effect outside published
	draft := Tender{Status: TenderDraft, CloseAt: &past}
	if got := draft.EffectiveStatus(now); got != TenderDraft {
		t.Fatalf("draft effective status = %s", got)
	}
}
