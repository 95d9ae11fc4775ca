// Package modeltest checks a served model against directories of example
// cases. Example cases hold input files and the expected result files;
// validation-error cases hold input files and the expected error message.
package modeltest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"modelsvc/internal/httpapi"
	"modelsvc/internal/manager"
	"modelsvc/internal/metadata"
	"modelsvc/internal/model"
	"modelsvc/pkg/types"
)

// DefaultErrorMessageFilename holds the expected message of a
// validation-error case.
const DefaultErrorMessageFilename = "message.txt"

// Suite runs file jobs against an HTTP handler serving one model.
type Suite struct {
	Handler              http.Handler
	InputFilenames       []string
	OutputFilenames      []string
	ErrorMessageFilename string
	// Tolerance for numbers in JSON results; DefaultTolerance when zero.
	Tolerance float64
	// CompareResults overrides the default JSON comparison of one output.
	CompareResults func(actual, expected []byte) error
}

// JobResult is the outcome of one file job.
type JobResult struct {
	Status   int
	Envelope types.MessageResponse
	Outputs  map[string][]byte
}

// NewSuite returns a Suite for h using the file layout of md
// (metadata.Default() when nil).
func NewSuite(h http.Handler, md *metadata.Metadata) *Suite {
	if md == nil {
		md = metadata.Default()
	}
	return &Suite{
		Handler:              h,
		InputFilenames:       md.Inputs.Names(),
		OutputFilenames:      md.Outputs.Names(),
		ErrorMessageFilename: DefaultErrorMessageFilename,
	}
}

// ForContract initializes c behind a manager and the HTTP API and returns a
// Suite against it.
func ForContract(t testing.TB, c model.Contract, md *metadata.Metadata) *Suite {
	t.Helper()
	if md == nil {
		md = metadata.Default()
	}
	mgr := manager.NewWithConfig(manager.ManagerConfig{Model: c, Name: "under-test", Metadata: md})
	if err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return NewSuite(httpapi.NewMux(mgr), md)
}

func (s *Suite) messageFilename() string {
	if s.ErrorMessageFilename == "" {
		return DefaultErrorMessageFilename
	}
	return s.ErrorMessageFilename
}

func (s *Suite) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler.ServeHTTP(w, req)
	return w
}

func (s *Suite) post(path, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return s.do(req)
}

// RunJob checks that /status is 200, writes inputs (file name to content) to a
// temporary input directory, posts a file job and collects every file written
// to the temporary output directory.
func (s *Suite) RunJob(t testing.TB, inputs map[string][]byte) JobResult {
	t.Helper()
	if w := s.do(httptest.NewRequest(http.MethodGet, "/status", nil)); w.Code != http.StatusOK {
		t.Fatalf("GET /status failed: %d %s", w.Code, w.Body.String())
	}
	in, out := t.TempDir(), t.TempDir()
	for name, data := range inputs {
		if data == nil {
			continue
		}
		if err := os.WriteFile(filepath.Join(in, name), data, 0o644); err != nil {
			t.Fatalf("write input %s: %v", name, err)
		}
	}
	body, _ := json.Marshal(types.JobRequest{Type: manager.JobTypeFile, Input: &in, Output: &out})
	w := s.post("/run", "application/json", body)

	res := JobResult{Status: w.Code, Envelope: decodeEnvelope(t, w), Outputs: map[string][]byte{}}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Fatalf("output %q must be a file, not a directory", e.Name())
		}
		b, err := os.ReadFile(filepath.Join(out, e.Name()))
		if err != nil {
			t.Fatalf("read output %s: %v", e.Name(), err)
		}
		res.Outputs[e.Name()] = b
	}
	return res
}

// decodeEnvelope checks the {message, statusCode, status} envelope of a JSON
// response and returns it.
func decodeEnvelope(t testing.TB, w *httptest.ResponseRecorder) types.MessageResponse {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("response content type must be json, got %q", ct)
	}
	var env types.MessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.StatusCode != w.Code {
		t.Fatalf("response body statusCode %d does not match status %d", env.StatusCode, w.Code)
	}
	if env.Status != http.StatusText(w.Code) {
		t.Fatalf("response body status %q does not match %q", env.Status, http.StatusText(w.Code))
	}
	if env.Message == "" {
		t.Fatalf("response body message must be non-empty")
	}
	return env
}

func expectStatus(t testing.TB, w *httptest.ResponseRecorder, code int, what string) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("%s: status=%d want %d body=%s", what, w.Code, code, w.Body.String())
	}
	decodeEnvelope(t, w)
}

// CheckSanity checks /status, /shutdown (with the shutdown function replaced)
// and the /run checks on malformed job configurations.
func (s *Suite) CheckSanity(t *testing.T) {
	t.Helper()
	expectStatus(t, s.do(httptest.NewRequest(http.MethodGet, "/status", nil)), http.StatusOK, "GET /status")

	var called atomic.Bool
	done := make(chan struct{})
	httpapi.SetShutdownFunc(func() { called.Store(true); close(done) })
	defer httpapi.SetShutdownFunc(nil)
	expectStatus(t, s.post("/shutdown", "", nil), http.StatusAccepted, "POST /shutdown")
	<-done
	if !called.Load() {
		t.Fatalf("shutdown function was not called")
	}

	expectStatus(t, s.post("/run", "application/json", nil), http.StatusBadRequest, "empty job")
	expectStatus(t, s.post("/run", "application/json", []byte(`{"cat":"dog"}`)), http.StatusBadRequest, "job without type")
	expectStatus(t, s.post("/run", "application/json", []byte("cats and dogs")), http.StatusBadRequest, "non-JSON job")
	expectStatus(t, s.post("/run", "text/plain", []byte("cats and dogs")), http.StatusUnsupportedMediaType, "text/plain job")
	devnull, _ := json.Marshal(types.JobRequest{Type: manager.JobTypeFile, Input: strPtr(os.DevNull), Output: strPtr(os.DevNull)})
	expectStatus(t, s.post("/run", "text/plain", devnull), http.StatusBadRequest, "unusable job directories")
}

func strPtr(s string) *string { return &s }

// CheckExampleCases runs every case under dir and compares each output with
// the expected file of the same name.
func (s *Suite) CheckExampleCases(t *testing.T, dir string) {
	t.Helper()
	if err := CheckConfusable(append(append([]string{}, s.InputFilenames...), s.OutputFilenames...)...); err != nil {
		t.Fatal(err)
	}
	cases, err := WalkDataDir(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) == 0 {
		t.Fatalf("no test cases were found in: %s", dir)
	}
	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			res := s.RunJob(t, s.readInputs(t, c))
			if res.Status != http.StatusOK {
				t.Fatalf("job failed: %d %q", res.Status, res.Envelope.Message)
			}
			for _, name := range s.OutputFilenames {
				p, ok := c.Lookup(name)
				if !ok {
					t.Fatalf("data directory %q missing results file %q", c.Name, name)
				}
				expected, err := os.ReadFile(p)
				if err != nil {
					t.Fatal(err)
				}
				actual, ok := res.Outputs[name]
				if !ok {
					t.Fatalf("model did not write %q", name)
				}
				if err := s.compare(actual, expected); err != nil {
					t.Fatalf("%s: actual result does not match expected result: %v", name, err)
				}
			}
		})
	}
}

// CheckValidationErrorCases runs every case under dir and expects a 422 whose
// message contains the case's expected message, ignoring case and
// surrounding whitespace.
func (s *Suite) CheckValidationErrorCases(t *testing.T, dir string) {
	t.Helper()
	names := append(append([]string{s.messageFilename()}, s.InputFilenames...), s.OutputFilenames...)
	if err := CheckConfusable(names...); err != nil {
		t.Fatal(err)
	}
	cases, err := WalkDataDir(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) == 0 {
		t.Fatalf("no test cases were found in: %s", dir)
	}
	for _, c := range cases {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			res := s.RunJob(t, s.readInputs(t, c))
			p, ok := c.Lookup(s.messageFilename())
			if !ok {
				t.Fatalf("data directory %q missing expected message file %q", c.Name, s.messageFilename())
			}
			want, err := os.ReadFile(p)
			if err != nil {
				t.Fatal(err)
			}
			if res.Status != http.StatusUnprocessableEntity {
				t.Fatalf("expected validation error, got %d %q", res.Status, res.Envelope.Message)
			}
			got := strings.ToLower(strings.TrimSpace(res.Envelope.Message))
			if !strings.Contains(got, strings.ToLower(strings.TrimSpace(string(want)))) {
				t.Fatalf("response message %q does not contain %q", res.Envelope.Message, strings.TrimSpace(string(want)))
			}
		})
	}
}

func (s *Suite) readInputs(t testing.TB, c Case) map[string][]byte {
	t.Helper()
	inputs := make(map[string][]byte, len(s.InputFilenames))
	for _, name := range s.InputFilenames {
		p, ok := c.Lookup(name)
		if !ok {
			t.Fatalf("data directory %q missing input file %q", c.Name, name)
		}
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		inputs[name] = b
	}
	return inputs
}

func (s *Suite) compare(actual, expected []byte) error {
	if s.CompareResults != nil {
		return s.CompareResults(actual, expected)
	}
	tol := s.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	return JSONEqual(actual, expected, tol)
}
