package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/HendryAvila/prompt-mirror/internal/analysis"
	"github.com/HendryAvila/prompt-mirror/internal/remote"
)

const prompt = "write something good"

// fakeAdapter returns a canned candidate or error.
type fakeAdapter struct {
	raw   []byte
	err   error
	block bool
	calls int
}

func (f *fakeAdapter) ID() string { return "fake:test" }

func (f *fakeAdapter) Analyze(ctx context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.raw, f.err
}

func validCandidate(t *testing.T) ([]byte, analysis.Result) {
	t.Helper()
	r := analysis.Analyze("You are a copywriter. Write a tagline for a bakery in under 8 words.")
	r.Score = 77
	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	return raw, r
}

func newTestService(a remote.Adapter) (*Service, *Metrics) {
	m := MustNewMetrics(prometheus.NewRegistry())
	return NewService(Options{Adapter: a, Timeout: 50 * time.Millisecond, Metrics: m}), m
}

// --- Without remote ---

func TestAnalyze_NoAdapter(t *testing.T) {
	s, m := newTestService(nil)
	out := s.Analyze(context.Background(), prompt)

	if out.Source != SourceRuleBased || out.State != StateRuleBasedComputed {
		t.Errorf("outcome = %s/%s, want rule_based/rule_based_computed", out.Source, out.State)
	}
	if diff := cmp.Diff(analysis.Analyze(prompt), out.Result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if len(out.Notes) == 0 {
		t.Error("expected notes")
	}
	if s.RemoteEnabled() {
		t.Error("RemoteEnabled() = true without adapter")
	}
	if got := testutil.ToFloat64(m.analyses.WithLabelValues("rule_based")); got != 1 {
		t.Errorf("analyses{rule_based} = %v, want 1", got)
	}
}

// --- With remote ---

func TestAnalyze_AcceptsValidRemoteCandidate(t *testing.T) {
	raw, want := validCandidate(t)
	s, m := newTestService(&fakeAdapter{raw: raw})

	out := s.Analyze(context.Background(), prompt)
	if out.Source != SourceRemote || out.State != StateRemoteValidated {
		t.Fatalf("outcome = %s/%s (%s), want remote/remote_validated", out.Source, out.State, out.Reason)
	}
	if diff := cmp.Diff(want, out.Result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if out.Reason != "" {
		t.Errorf("Reason = %q, want empty", out.Reason)
	}
	if got := testutil.ToFloat64(m.analyses.WithLabelValues("remote")); got != 1 {
		t.Errorf("analyses{remote} = %v, want 1", got)
	}
}

func TestAnalyze_FallsBackToRuleBased(t *testing.T) {
	raw, _ := validCandidate(t)
	var broken map[string]any
	_ = json.Unmarshal(raw, &broken)
	broken["gaps"] = broken["gaps"].([]any)[:5]
	missingGaps, _ := json.Marshal(broken)

	tests := []struct {
		name    string
		adapter *fakeAdapter
		reason  string
	}{
		{"malformed json", &fakeAdapter{raw: []byte(`{"score": 80,`)}, "invalid_malformed"},
		{"score out of range", &fakeAdapter{raw: []byte(`{"score": 150, "gaps": [], "flags": [], "rewrite": "x"}`)}, "invalid_schema"},
		{"missing dimensions", &fakeAdapter{raw: missingGaps}, "invalid_gaps"},
		{"provider down", &fakeAdapter{err: remote.ErrUnavailable}, "unavailable"},
		{"not configured", &fakeAdapter{err: remote.ErrNotConfigured}, "not_configured"},
		{"timeout", &fakeAdapter{block: true}, "timeout"},
	}

	want := analysis.Analyze(prompt)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestService(tt.adapter)
			out := s.Analyze(context.Background(), prompt)

			if out.Source != SourceRuleBased || out.State != StateRemoteRejected {
				t.Errorf("outcome = %s/%s, want rule_based/remote_rejected", out.Source, out.State)
			}
			if diff := cmp.Diff(want, out.Result); diff != "" {
				t.Errorf("fallback differs from rule-based result (-want +got):\n%s", diff)
			}
			if out.Reason == "" {
				t.Error("Reason should explain the rejection")
			}
			if got := testutil.ToFloat64(m.rejections.WithLabelValues(tt.reason)); got != 1 {
				t.Errorf("rejections{%s} = %v, want 1", tt.reason, got)
			}
			if tt.adapter.calls != 1 {
				t.Errorf("adapter calls = %d, want 1", tt.adapter.calls)
			}
		})
	}
}

func TestAnalyze_EmptyInputIsNotAnError(t *testing.T) {
	s, _ := newTestService(nil)
	out := s.Analyze(context.Background(), "")
	if out.Result.Score != 0 {
		t.Errorf("Score = %d, want 0", out.Result.Score)
	}
	if out.Result.Flags == nil {
		t.Error("Flags should be an empty slice")
	}
}

// --- Helpers ---

func TestRejectReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.Join(remote.ErrUnavailable, context.DeadlineExceeded), "timeout"},
		{remote.ErrUnavailable, "unavailable"},
		{errors.New("anything"), "unavailable"},
	}
	for _, tt := range tests {
		if got := rejectReason(tt.err); got != tt.want {
			t.Errorf("rejectReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMustNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := MustNewMetrics(reg)
	second := MustNewMetrics(reg)

	first.observe(SourceRemote, 50)
	if got := testutil.ToFloat64(second.analyses.WithLabelValues("remote")); got != 1 {
		t.Errorf("second metrics instance does not share collectors: %v", got)
	}
}

func TestSelection_Transitions(t *testing.T) {
	sel, err := newSelection("fake")
	if err != nil {
		t.Fatal(err)
	}
	if sel.current() != StateRuleBasedComputed {
		t.Fatalf("initial state = %s", sel.current())
	}
	if sel.send(eventAccept) {
		t.Error("accept before request should not transition")
	}
	if !sel.send(eventRequestRemote) || sel.current() != StateRemoteRequested {
		t.Errorf("state = %s, want remote_requested", sel.current())
	}
	if !sel.send(eventReject) || sel.current() != StateRemoteRejected {
		t.Errorf("state = %s, want remote_rejected", sel.current())
	}
	if sel.send(eventAccept) {
		t.Error("rejected is final")
	}
}
