// Package testkit drives HTTP API tests from JSON scenario files.
//
// Each scenario is a JSON file that describes:
//   - The HTTP request to fire (method, URL, body, headers)
//   - Expected HTTP status code
//   - Expected response body (optional, for JSON diff assertion)
//
// Scenario files live next to your *_test.go files and run in file-name
// order against one handler, so later scenarios see earlier writes:
//
//	testdata/api/
//	  01_create_category.json      ← scenario
//	  01_create_category_req.json  ← request body
//	  01_create_category_res.json  ← expected response body
//
// Example _test.go:
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, handler, "testdata/api", testkit.Header("Authorization", "Bearer "+token))
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ─── Schema ───────────────────────────────────────────────────────────────────

// Scenario describes a single API test case loaded from a JSON file.
type Scenario struct {
	// Meta
	Name        string `json:"name"`
	Description string `json:"description"`

	// Request
	RequestMethod   string            `json:"requestMethod"`   // GET, POST, PUT, PATCH, DELETE
	RequestURL      string            `json:"requestUrl"`      // e.g. /api/products
	RequestFileName string            `json:"requestFileName"` // path to JSON request body file (relative to scenario dir)
	RequestBody     json.RawMessage   `json:"requestBody"`     // inline body, used when requestFileName is empty
	Headers         map[string]string `json:"headers"`         // extra request headers

	// Response assertions
	ResponseFileName   string          `json:"responseFileName"`   // path to expected response JSON file
	ResponseBody       json.RawMessage `json:"responseBody"`       // inline expected body
	ExpectedCode       int             `json:"expectedCode"`       // expected HTTP status code
	ExpectedStatusCode int             `json:"expectedStatusCode"` // alias for expected HTTP status code
	// MatchSubset compares only the keys present in the expected body.
	MatchSubset bool `json:"matchSubset"`
	// EmptyBody asserts that the response has no body at all.
	EmptyBody bool `json:"emptyBody"`

	// resolved at load time, not in JSON
	dir string // directory of the scenario file
}

// ─── Loading ──────────────────────────────────────────────────────────────────

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

// validate performs basic sanity checks on the loaded scenario.
func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = s.ExpectedStatusCode
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET" // sensible default
	}
	return nil
}

// requestPayload returns the request payload from the body file or the inline
// requestBody. It returns nil when neither is set.
func (s *Scenario) requestPayload() ([]byte, error) {
	if p := s.RequestBodyPath(); p != "" {
		return os.ReadFile(p)
	}
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	return nil, nil
}

// expectedPayload returns the expected response from the response file or
// the inline responseBody.
func (s *Scenario) expectedPayload() ([]byte, error) {
	if p := s.ResponseBodyPath(); p != "" {
		return os.ReadFile(p)
	}
	return s.ResponseBody, nil
}

// RequestBodyPath returns the absolute path to the request body file,
// resolved relative to the scenario file's directory.
// Returns "" when RequestFileName is not set.
func (s *Scenario) RequestBodyPath() string {
	if s.RequestFileName == "" {
		return ""
	}
	if filepath.IsAbs(s.RequestFileName) {
		return s.RequestFileName
	}
	return filepath.Join(s.dir, s.RequestFileName)
}

// ResponseBodyPath returns the absolute path to the expected response file.
// Returns "" when ResponseFileName is not set.
func (s *Scenario) ResponseBodyPath() string {
	if s.ResponseFileName == "" {
		return ""
	}
	if filepath.IsAbs(s.ResponseFileName) {
		return s.ResponseFileName
	}
	return filepath.Join(s.dir, s.ResponseFileName)
}

// LoadAllFromDir loads every scenario file in dir, sorted by file name.
// Files ending in _req.json or _res.json are body files, not scenarios.
// Files that fail to parse are collected as errors.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}
	sort.Strings(entries)

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range entries {
		if isBodyFile(path) {
			continue
		}
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}

func isBodyFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range []string{"_req.json", "_res.json"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}
