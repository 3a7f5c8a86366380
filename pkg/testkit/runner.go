package testkit

// Run executes one scenario against an http.Handler. RunDir runs every
// scenario file of a directory as subtests in file-name order.

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Option adjusts every request a runner fires.
type Option func(r *http.Request)

// Header sets a header on every request, unless the scenario sets it.
func Header(key, value string) Option {
	return func(r *http.Request) {
		if r.Header.Get(key) == "" {
			r.Header.Set(key, value)
		}
	}
}

// ─── Public API ───────────────────────────────────────────────────────────────

// Run executes a single scenario from a JSON file against the provided handler.
//
// Lifecycle per scenario:
//  1. Load the scenario JSON file.
//  2. Read the request body (file or inline).
//  3. Fire the request against handler using httptest.
//  4. Assert status code.
//  5. Assert response body (JSON diff) against the expected body, if set.
func Run(t *testing.T, handler http.Handler, scenarioPath string, opts ...Option) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s, opts)
	})
}

// RunDir runs every scenario in dir as a t.Run subtest, in file-name order.
// Scenario files that fail to parse are reported as test failures (not fatal).
func RunDir(t *testing.T, handler http.Handler, dir string, opts ...Option) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Error(err)
	}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s, opts)
		})
	}
}

// ─── Internal execution ───────────────────────────────────────────────────────

func runScenario(t *testing.T, handler http.Handler, s *Scenario, opts []Option) {
	t.Helper()

	// ── 1. Build request body ─────────────────────────────────────────────

	payload, err := s.requestPayload()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	// ── 2. Fire the request ───────────────────────────────────────────────

	method := strings.ToUpper(s.RequestMethod)
	if method == "" {
		method = http.MethodGet
	}

	req := httptest.NewRequest(method, s.RequestURL, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// ── 3. Assert status code ─────────────────────────────────────────────

	AssertStatusCode(t, s, rec.Code)

	// ── 4. Assert response body ───────────────────────────────────────────

	if s.EmptyBody {
		assert.Empty(t, rec.Body.String(), "[%s] expected an empty body", s.Name)
		return
	}
	expected, err := s.expectedPayload()
	if err != nil {
		t.Errorf("[%s] read expected response: %v", s.Name, err)
		return
	}
	AssertJSONBody(t, s, expected, rec.Body.Bytes())
}

// ─── Debug helpers ────────────────────────────────────────────────────────────

// DumpScenario prints a human-readable summary of the scenario to stdout.
// Useful during test development to inspect what was loaded.
func DumpScenario(s *Scenario) {
	fmt.Printf("Scenario: %s\n", s.Name)
	fmt.Printf("  %s %s → %d\n", s.RequestMethod, s.RequestURL, s.ExpectedCode)
	fmt.Printf("  requestFile:  %s\n", s.RequestFileName)
	fmt.Printf("  responseFile: %s\n", s.ResponseFileName)
	fmt.Printf("  matchSubset: %v  emptyBody: %v\n", s.MatchSubset, s.EmptyBody)
}
