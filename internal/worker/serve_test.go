package worker

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/agbru/fermatbench/internal/fermat"
)

type panickingFactorizer struct{}

func (panickingFactorizer) Name() string     { return "panicky" }
func (panickingFactorizer) Describe() string { return "always panics" }
func (panickingFactorizer) Factorize(*big.Int) (fermat.FactorPair, error) {
	panic("inner loop exploded")
}

func serveLines(t *testing.T, registry *fermat.Registry, reqs ...Request) []Response {
	t.Helper()
	var in bytes.Buffer
	for _, r := range reqs {
		line, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		in.Write(append(line, '\n'))
	}
	var out bytes.Buffer
	if err := NewServer(registry, nil).Serve(context.Background(), &in, &out); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	var resps []Response
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var r Response
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatal(err)
		}
		resps = append(resps, r)
	}
	return resps
}

func TestServe_FactorizesItems(t *testing.T) {
	t.Parallel()
	resps := serveLines(t, fermat.NewDefaultRegistry(),
		Request{Seq: 1, Variant: "optimized", Items: []Item{{ID: 0, N: "15"}, {ID: 1, N: "101"}}},
		Request{Seq: 2, Variant: "reference", Items: []Item{{ID: 7, N: "101909"}}},
	)
	if len(resps) != 2 {
		t.Fatalf("got %d responses, want 2", len(resps))
	}
	first := resps[0]
	if first.Seq != 1 || len(first.Results) != 2 || first.PID == 0 {
		t.Fatalf("unexpected first response: %+v", first)
	}
	if r := first.Results[0]; r.ID != 0 || r.P != "3" || r.Q != "5" || r.Err != nil {
		t.Errorf("result 0 = %+v", r)
	}
	if r := first.Results[1]; r.P != "1" || r.Q != "101" {
		t.Errorf("result 1 = %+v", r)
	}
	if r := resps[1].Results[0]; r.ID != 7 || r.P != "101" || r.Q != "1009" {
		t.Errorf("second response = %+v", r)
	}
}

func TestServe_PerItemErrors(t *testing.T) {
	t.Parallel()
	items := []Item{{ID: 0, N: "15"}, {ID: 1, N: "8"}, {ID: 2, N: "abc"}, {ID: 3, N: "9"}}

	t.Run("continue past failures", func(t *testing.T) {
		resps := serveLines(t, fermat.NewDefaultRegistry(), Request{Seq: 1, Variant: "optimized", Items: items})
		res := resps[0].Results
		if len(res) != 4 {
			t.Fatalf("got %d results, want 4", len(res))
		}
		if res[1].Err == nil || res[1].Err.Kind != KindInvalidInput || res[1].Err.Reason != fermat.ReasonEven {
			t.Errorf("even input result = %+v", res[1])
		}
		if res[2].Err == nil || res[2].Err.Reason != "malformed" {
			t.Errorf("malformed input result = %+v", res[2])
		}
		if res[3].P != "3" || res[3].Q != "3" {
			t.Errorf("item after failures = %+v", res[3])
		}
	})

	t.Run("stop on error", func(t *testing.T) {
		resps := serveLines(t, fermat.NewDefaultRegistry(), Request{Seq: 1, Variant: "optimized", Items: items, StopOnError: true})
		res := resps[0].Results
		if len(res) != 2 {
			t.Fatalf("got %d results, want 2 (up to and including the failure)", len(res))
		}
		if res[1].ID != 1 || res[1].Err == nil {
			t.Errorf("last result should be the failing item, got %+v", res[1])
		}
	})
}

func TestServe_UnknownVariant(t *testing.T) {
	t.Parallel()
	resps := serveLines(t, fermat.NewDefaultRegistry(), Request{Seq: 4, Variant: "quantum", Items: []Item{{ID: 0, N: "15"}}})
	if resps[0].Failure == nil || resps[0].Failure.Kind != KindConfig {
		t.Fatalf("expected config failure, got %+v", resps[0])
	}
	if !strings.Contains(resps[0].Failure.Message, "quantum") {
		t.Errorf("failure should name the variant: %q", resps[0].Failure.Message)
	}
}

func TestServe_RecoversPanics(t *testing.T) {
	t.Parallel()
	registry := fermat.NewRegistry()
	registry.Register("panicky", func() fermat.Factorizer { return panickingFactorizer{} })

	resps := serveLines(t, registry, Request{Seq: 1, Variant: "panicky", Items: []Item{{ID: 0, N: "15"}, {ID: 1, N: "21"}}})
	res := resps[0].Results
	if len(res) != 2 {
		t.Fatalf("got %d results, want 2", len(res))
	}
	for _, r := range res {
		if r.Err == nil || r.Err.Kind != KindPanic || !strings.Contains(r.Err.Message, "exploded") {
			t.Errorf("result %d = %+v", r.ID, r)
		}
	}
}

func TestServe_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := strings.NewReader(`{"seq":1,"variant":"optimized","items":[{"id":0,"n":"15"}]}` + "\n")
	err := NewServer(fermat.NewDefaultRegistry(), nil).Serve(ctx, in, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestServe_MalformedRequest(t *testing.T) {
	t.Parallel()
	err := NewServer(fermat.NewDefaultRegistry(), nil).Serve(context.Background(), strings.NewReader("{not json\n"), &bytes.Buffer{})
	if err == nil {
		t.Error("Serve should fail on a malformed request line")
	}
}
