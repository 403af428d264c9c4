package executor

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aryankumar/swarmwatch/internal/util"
)

func sampleResults() []Result[string] {
	return []Result[string]{
		{Endpoint: "prod", Data: "ok", Duration: 30 * time.Millisecond},
		{Endpoint: "staging", Error: errors.New("connection refused"), Duration: 10 * time.Millisecond},
		{Endpoint: "edge", Data: "ok", Duration: 50 * time.Millisecond},
		{Endpoint: "lab", Error: util.ErrTimeout, Duration: 5 * time.Millisecond},
	}
}

func TestCountSuccessfulAndFailed(t *testing.T) {
	tests := []struct {
		name        string
		results     []Result[string]
		wantSuccess int
		wantFailed  int
	}{
		{name: "empty", results: nil},
		{name: "mixed", results: sampleResults(), wantSuccess: 2, wantFailed: 2},
		{name: "all successful", results: sampleResults()[:1], wantSuccess: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountSuccessful(tt.results); got != tt.wantSuccess {
				t.Errorf("CountSuccessful() = %d, want %d", got, tt.wantSuccess)
			}
			if got := CountFailed(tt.results); got != tt.wantFailed {
				t.Errorf("CountFailed() = %d, want %d", got, tt.wantFailed)
			}
		})
	}
}

func TestFilterSuccessfulAndFailed(t *testing.T) {
	results := sampleResults()

	successful := FilterSuccessful(results)
	if len(successful) != 2 || successful[0].Endpoint != "prod" || successful[1].Endpoint != "edge" {
		t.Errorf("FilterSuccessful() = %+v", successful)
	}

	failed := FilterFailed(results)
	if len(failed) != 2 || failed[0].Endpoint != "staging" || failed[1].Endpoint != "lab" {
		t.Errorf("FilterFailed() = %+v", failed)
	}
}

func TestErrors(t *testing.T) {
	err := Errors(sampleResults())
	if err == nil {
		t.Fatal("expected combined error")
	}

	if !errors.Is(err, util.ErrTimeout) {
		t.Error("combined error should wrap the timeout")
	}

	var endpointErr *util.EndpointError
	if !errors.As(err, &endpointErr) {
		t.Fatal("combined error should contain endpoint errors")
	}
	if !strings.Contains(err.Error(), `endpoint "staging"`) {
		t.Errorf("error should name the failing endpoint: %v", err)
	}

	if err := Errors(sampleResults()[:1]); err != nil {
		t.Errorf("expected nil for successful results, got %v", err)
	}
}

func TestMaxDuration(t *testing.T) {
	if got := MaxDuration(sampleResults()); got != 50*time.Millisecond {
		t.Errorf("MaxDuration() = %v, want 50ms", got)
	}
	if got := MaxDuration[string](nil); got != 0 {
		t.Errorf("MaxDuration(nil) = %v, want 0", got)
	}
}
