package fetcher

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"imagefetcher/pkg/client"
	errs "imagefetcher/pkg/errors"
	"imagefetcher/pkg/logger"
	"imagefetcher/pkg/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	kind  string
	index int
	total int
	text  string
}

// recordingReporter captures the status calls of a session
type recordingReporter struct {
	events []event
}

func (r *recordingReporter) NoURLs() {
	r.events = append(r.events, event{kind: "no-urls"})
}

func (r *recordingReporter) Connecting(index, total int, url string) {
	r.events = append(r.events, event{"connecting", index, total, url})
}

func (r *recordingReporter) Saved(index, total int, path string) {
	r.events = append(r.events, event{"saved", index, total, path})
}

func (r *recordingReporter) Skipped(index, total int, reason string) {
	r.events = append(r.events, event{"skipped", index, total, reason})
}

func (r *recordingReporter) Failed(index, total int, reason string) {
	r.events = append(r.events, event{"failed", index, total, reason})
}

func (r *recordingReporter) Complete(outputDir string) {
	r.events = append(r.events, event{kind: "complete", text: outputDir})
}

// outcomes returns the per-URL status events, dropping connecting lines
func (r *recordingReporter) outcomes() []event {
	var out []event
	for _, e := range r.events {
		switch e.kind {
		case "saved", "skipped", "failed":
			out = append(out, e)
		}
	}
	return out
}

func (r *recordingReporter) count(kind string) int {
	n := 0
	for _, e := range r.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) Notify(title, message string) error {
	n.calls = append(n.calls, title+": "+message)
	return nil
}

// imageServer serves a small fixed set of responses and counts requests
func imageServer(t *testing.T) (*httptest.Server, *int64) {
	t.Helper()

	var hits int64
	mux := http.NewServeMux()
	serve := func(contentType, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			w.Write([]byte(body))
		}
	}
	mux.HandleFunc("/a.png", serve("image/png", "AAA"))
	mux.HandleFunc("/copy.png", serve("image/png", "AAA"))
	mux.HandleFunc("/b.jpg", serve("image/jpeg", "BBB"))
	mux.HandleFunc("/raw", serve("image/jpeg", "abc"))
	mux.HandleFunc("/page", serve("text/html; charset=utf-8", "<html></html>"))
	mux.HandleFunc("/big.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", "10485761")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/big.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Length", "11537879")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/exact.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.FormatInt(MaxContentLength, 10))
		w.Write(make([]byte, MaxContentLength))
	})
	mux.HandleFunc("/limit.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(bytes.Repeat([]byte{0xff}, 1024))
	})
	mux.HandleFunc("/missing.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/slow.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	return server, &hits
}

func newTestFetcher(t *testing.T, reporter Reporter, timeout time.Duration) (*Fetcher, string) {
	t.Helper()

	outputDir := filepath.Join(t.TempDir(), "Fetched_Images")
	log := logger.NewNopLogger()
	return New(Options{
		OutputDir: outputDir,
		Client:    client.NewClient(timeout, log),
		Reporter:  reporter,
		Logger:    log,
	}), outputDir
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunEndToEndScenario(t *testing.T) {
	server, _ := imageServer(t)

	var out bytes.Buffer
	f, outputDir := newTestFetcher(t, ui.NewConsole(&out, false), client.DefaultTimeout)

	summary, err := f.Run(context.Background(), []string{
		server.URL + "/a.png",
		server.URL + "/a.png",
		"not-a-url",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Saved)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	assert.Equal(t, []string{"a.png"}, listFiles(t, outputDir))
	content, err := os.ReadFile(filepath.Join(outputDir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "AAA", string(content))

	text := out.String()
	assert.Contains(t, text, "[1/3] Saved: "+filepath.Join(outputDir, "a.png"))
	assert.Contains(t, text, "[2/3] Duplicate detected: already downloaded this image.")
	assert.Contains(t, text, "[3/3] Skipping (invalid or unsafe URL). Must start with http:// or https://")
	assert.Equal(t, 1, strings.Count(text, "All done!"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), "folder."))
}

func TestRunSchemeRejectedMakesNoRequests(t *testing.T) {
	server, hits := imageServer(t)
	host := strings.TrimPrefix(server.URL, "http://")

	reporter := &recordingReporter{}
	f, outputDir := newTestFetcher(t, reporter, client.DefaultTimeout)

	summary, err := f.Run(context.Background(), []string{
		"ftp://" + host + "/a.png",
		host + "/a.png",
		"HTTP://" + host + "/a.png",
		"file:///etc/hosts",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), atomic.LoadInt64(hits))
	assert.Equal(t, 4, summary.Skipped)
	assert.Empty(t, listFiles(t, outputDir))
	for _, e := range reporter.outcomes() {
		assert.Equal(t, "skipped", e.kind)
		assert.Contains(t, e.text, "Must start with http:// or https://")
	}
}

func TestRunSkipsNonImage(t *testing.T) {
	server, _ := imageServer(t)

	reporter := &recordingReporter{}
	f, outputDir := newTestFetcher(t, reporter, client.DefaultTimeout)

	summary, err := f.Run(context.Background(), []string{server.URL + "/page"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, listFiles(t, outputDir))
	require.Len(t, reporter.outcomes(), 1)
	assert.Equal(t, "Skipping: content is not an image (Content-Type=text/html; charset=utf-8)", reporter.outcomes()[0].text)
}

func TestRunSizeLimit(t *testing.T) {
	server, _ := imageServer(t)

	reporter := &recordingReporter{}
	f, outputDir := newTestFetcher(t, reporter, client.DefaultTimeout)

	summary, err := f.Run(context.Background(), []string{
		server.URL + "/big.png",
		server.URL + "/big.svg",
		server.URL + "/exact.png",
		server.URL + "/limit.png",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 2, summary.Saved)
	assert.ElementsMatch(t, []string{"exact.png", "limit.png"}, listFiles(t, outputDir))

	outcomes := reporter.outcomes()
	require.Len(t, outcomes, 4)
	assert.Equal(t, "Skipping: image is larger than 10MB.", outcomes[0].text)
	assert.Equal(t, event{"skipped", 2, 4, "Skipping: image is larger than 10MB."}, outcomes[1])
	assert.Equal(t, "saved", outcomes[2].kind)

	info, err := os.Stat(filepath.Join(outputDir, "exact.png"))
	require.NoError(t, err)
	assert.Equal(t, MaxContentLength, info.Size())
}

func TestRunDeduplicatesIdenticalContent(t *testing.T) {
	server, _ := imageServer(t)

	reporter := &recordingReporter{}
	f, outputDir := newTestFetcher(t, reporter, client.DefaultTimeout)

	summary, err := f.Run(context.Background(), []string{
		server.URL + "/a.png",
		server.URL + "/copy.png",
		server.URL + "/b.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Saved)
	assert.Equal(t, 1, summary.Skipped)
	assert.ElementsMatch(t, []string{"a.png", "b.jpg"}, listFiles(t, outputDir))

	outcomes := reporter.outcomes()
	require.Len(t, outcomes, 3)
	assert.Equal(t, "skipped", outcomes[1].kind)
	assert.Equal(t, 2, outcomes[1].index)
	assert.Equal(t, 3, outcomes[1].total)
}

func TestRunHashDerivedFilename(t *testing.T) {
	server, _ := imageServer(t)

	f, outputDir := newTestFetcher(t, &recordingReporter{}, client.DefaultTimeout)

	_, err := f.Run(context.Background(), []string{server.URL + "/raw"})
	require.NoError(t, err)

	assert.Equal(t, []string{"image_900150983cd2.jpg"}, listFiles(t, outputDir))
}

func TestRunTimeoutDoesNotStopPass(t *testing.T) {
	server, hits := imageServer(t)

	reporter := &recordingReporter{}
	f, outputDir := newTestFetcher(t, reporter, 100*time.Millisecond)

	summary, err := f.Run(context.Background(), []string{
		server.URL + "/slow.png",
		server.URL + "/b.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(hits))
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Saved)
	assert.Equal(t, []string{"b.jpg"}, listFiles(t, outputDir))

	outcomes := reporter.outcomes()
	require.Len(t, outcomes, 2)
	assert.Equal(t, event{"failed", 1, 2, "Timeout: the server took too long to respond."}, outcomes[0])
	assert.Equal(t, "saved", outcomes[1].kind)
}

func TestRunReportsFetchFailures(t *testing.T) {
	server, _ := imageServer(t)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL + "/x.png"
	closed.Close()

	reporter := &recordingReporter{}
	f, _ := newTestFetcher(t, reporter, client.DefaultTimeout)

	summary, err := f.Run(context.Background(), []string{
		server.URL + "/missing.png",
		closedURL,
		"http://",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Failed)
	outcomes := reporter.outcomes()
	require.Len(t, outcomes, 3)
	assert.Equal(t, "HTTP error: 404 Client Error: Not Found for url: "+server.URL+"/missing.png", outcomes[0].text)
	assert.Equal(t, "Network issue: could not connect.", outcomes[1].text)
	assert.True(t, strings.HasPrefix(outcomes[2].text, "Invalid URL format"), outcomes[2].text)
	assert.Equal(t, 1, reporter.count("complete"))
}

func TestRunEmptyInput(t *testing.T) {
	reporter := &recordingReporter{}
	f, outputDir := newTestFetcher(t, reporter, client.DefaultTimeout)

	summary, err := f.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{RunID: summary.RunID}, summary)
	assert.Equal(t, []event{{kind: "no-urls"}}, reporter.events)

	_, statErr := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(statErr), "output directory should not be created")
}

func TestRunOutputDirectoryFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "Fetched_Images")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	reporter := &recordingReporter{}
	f := New(Options{
		OutputDir: blocker,
		Reporter:  reporter,
		Logger:    logger.NewNopLogger(),
	})

	_, err := f.Run(context.Background(), []string{"https://example.com/a.png"})
	require.Error(t, err)
	assert.Empty(t, reporter.events)
}

func TestRunStartsFreshEachCall(t *testing.T) {
	server, _ := imageServer(t)

	f, _ := newTestFetcher(t, &recordingReporter{}, client.DefaultTimeout)

	for i := 0; i < 2; i++ {
		summary, err := f.Run(context.Background(), []string{server.URL + "/a.png"})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Saved, "run %d", i+1)
	}
}

func TestRunCancelledContext(t *testing.T) {
	server, hits := imageServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reporter := &recordingReporter{}
	f, _ := newTestFetcher(t, reporter, client.DefaultTimeout)

	summary, err := f.Run(ctx, []string{server.URL + "/a.png"})
	require.NoError(t, err)

	assert.Equal(t, int64(0), atomic.LoadInt64(hits))
	assert.Equal(t, 0, reporter.count("connecting"))
	assert.Equal(t, 1, reporter.count("complete"))
	assert.Equal(t, 0, summary.Saved+summary.Skipped+summary.Failed)
}

func TestRunNotifiesOnCompletion(t *testing.T) {
	server, _ := imageServer(t)

	notifier := &recordingNotifier{}
	log := logger.NewTestLogger()
	outputDir := filepath.Join(t.TempDir(), "out")
	f := New(Options{
		OutputDir: outputDir,
		Client:    client.NewClient(client.DefaultTimeout, logger.NewNopLogger()),
		Reporter:  &recordingReporter{},
		Notifier:  notifier,
		Logger:    log,
	})

	_, err := f.Run(context.Background(), []string{server.URL + "/a.png", "nope"})
	require.NoError(t, err)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "Image Fetcher: Saved 1 image(s) to "+outputDir+" (1 skipped, 0 failed)", notifier.calls[0])

	assert.True(t, log.HasMessage("Image saved"))
	assert.True(t, log.HasMessage("Fetch session finished"))
	for _, msg := range log.GetMessages() {
		assert.NotEmpty(t, msg.Fields["run_id"], msg.Message)
	}
}

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		result Result
		want   string
	}{
		{Result{Err: errs.New(errs.ErrorTypeSchemeRejected, "x")}, "Skipping (invalid or unsafe URL). Must start with http:// or https://"},
		{Result{ContentType: "", Err: errs.New(errs.ErrorTypeNotImage, "x")}, "Skipping: content is not an image (Content-Type=)"},
		{Result{Err: errs.New(errs.ErrorTypeTooLarge, "x")}, "Skipping: image is larger than 10MB."},
		{Result{Err: errs.New(errs.ErrorTypeDuplicate, "x")}, "Duplicate detected: already downloaded this image."},
		{Result{Err: errs.New(errs.ErrorTypeMalformedURL, "no host")}, "Invalid URL format: no host"},
		{Result{Err: errs.New(errs.ErrorTypeHTTPStatus, "500 Server Error")}, "HTTP error: 500 Server Error"},
		{Result{Err: errs.New(errs.ErrorTypeConnection, "refused")}, "Network issue: could not connect."},
		{Result{Err: errs.New(errs.ErrorTypeTimeout, "slow")}, "Timeout: the server took too long to respond."},
		{Result{Err: errors.New("disk full")}, "Unexpected error: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusMessage(tt.result))
		})
	}
}
