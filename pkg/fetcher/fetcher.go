package fetcher

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"imagefetcher/pkg/client"
	errs "imagefetcher/pkg/errors"
	"imagefetcher/pkg/logger"
	"imagefetcher/pkg/storage"
	"imagefetcher/pkg/ui"
)

// MaxContentLength is the largest declared Content-Length that is accepted
const MaxContentLength int64 = 10 * 1024 * 1024

// ImageClient fetches a single URL
type ImageClient interface {
	Get(ctx context.Context, rawURL string) (*client.Response, error)
}

// Reporter receives the user-facing status of a session
type Reporter interface {
	NoURLs()
	Connecting(index, total int, url string)
	Saved(index, total int, path string)
	Skipped(index, total int, reason string)
	Failed(index, total int, reason string)
	Complete(outputDir string)
}

// Notifier is told about a finished session
type Notifier interface {
	Notify(title, message string) error
}

// Options configures a Fetcher. Zero values select the defaults.
type Options struct {
	OutputDir string
	Client    ImageClient
	Reporter  Reporter
	Notifier  Notifier
	Logger    logger.Logger
}

// Fetcher runs fetch sessions: one sequential pass over a URL list
type Fetcher struct {
	outputDir string
	client    ImageClient
	reporter  Reporter
	notifier  Notifier
	logger    logger.Logger
}

// Result is the outcome of one URL. Err is nil when the image was saved.
type Result struct {
	Index       int
	URL         string
	ContentType string
	Path        string
	Err         error
}

// Kind returns the error kind of the result, or "" when it was saved
func (r Result) Kind() errs.ErrorType {
	if r.Err == nil {
		return ""
	}
	return errs.KindOf(r.Err)
}

// Summary counts the outcomes of a session
type Summary struct {
	RunID   string
	Total   int
	Saved   int
	Skipped int
	Failed  int
	Elapsed time.Duration
}

// New creates a Fetcher
func New(opts Options) *Fetcher {
	f := &Fetcher{
		outputDir: opts.OutputDir,
		client:    opts.Client,
		reporter:  opts.Reporter,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
	}

	if f.logger == nil {
		f.logger = logger.GetLogger()
	}
	if f.outputDir == "" {
		f.outputDir = storage.DefaultOutputDir
	}
	if f.client == nil {
		f.client = client.NewClient(client.DefaultTimeout, f.logger)
	}
	if f.reporter == nil {
		f.reporter = ui.NewConsole(os.Stdout, true)
	}

	return f
}

// Run processes urls in order. Per-URL problems are reported and never stop
// the pass; the only error returned is a failure to prepare the output
// directory. A cancelled ctx ends the pass before the next URL.
func (f *Fetcher) Run(ctx context.Context, urls []string) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), Total: len(urls)}
	log := f.logger.WithField("run_id", summary.RunID)

	if len(urls) == 0 {
		log.Info("No URLs provided")
		f.reporter.NoURLs()
		return summary, nil
	}

	store, err := storage.NewManager(f.outputDir)
	if err != nil {
		log.WithError(err).WithField("output_dir", f.outputDir).Error("Failed to prepare output directory")
		return summary, err
	}

	log.InfoWithFields("Fetch session started", map[string]interface{}{
		"urls":       len(urls),
		"output_dir": f.outputDir,
	})

	start := time.Now()
	for i, rawURL := range urls {
		if ctx.Err() != nil {
			log.WithError(ctx.Err()).Warn("Fetch session interrupted")
			break
		}

		index := i + 1
		f.reporter.Connecting(index, len(urls), rawURL)

		result := f.process(ctx, store, index, rawURL)
		f.report(result, len(urls))
		logger.LogOutcome(log, index, rawURL, string(result.Kind()), result.Path, result.Err)

		switch {
		case result.Err == nil:
			summary.Saved++
		case errs.IsSkip(result.Kind()):
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	summary.Elapsed = time.Since(start)

	logger.LogSummary(log, summary.Saved, summary.Skipped, summary.Failed, summary.Elapsed)
	f.reporter.Complete(f.outputDir)

	if f.notifier != nil {
		msg := ui.SessionMessage(summary.Saved, summary.Skipped, summary.Failed, f.outputDir)
		if err := f.notifier.Notify("Image Fetcher", msg); err != nil {
			log.WithError(err).Debug("Desktop notification failed")
		}
	}

	return summary, nil
}

// process runs the validation and persistence steps for one URL
func (f *Fetcher) process(ctx context.Context, store *storage.Manager, index int, rawURL string) Result {
	result := Result{Index: index, URL: rawURL}

	if !hasAllowedScheme(rawURL) {
		result.Err = errs.New(errs.ErrorTypeSchemeRejected, "URL must start with http:// or https://")
		return result
	}

	resp, err := f.client.Get(ctx, rawURL)
	if err != nil {
		result.Err = err
		return result
	}
	defer resp.Close()

	result.ContentType = resp.Header.Get("Content-Type")
	if !strings.HasPrefix(result.ContentType, "image/") {
		result.Err = errs.New(errs.ErrorTypeNotImage, "content type %q is not an image", result.ContentType)
		return result
	}

	if declared := resp.Header.Get("Content-Length"); declared != "" {
		size, err := strconv.ParseInt(strings.TrimSpace(declared), 10, 64)
		if err != nil {
			result.Err = errs.Wrap(errs.ErrorTypeUnexpected, err, "invalid Content-Length")
			return result
		}
		if size > MaxContentLength {
			result.Err = &errs.Error{
				Type:    errs.ErrorTypeTooLarge,
				Message: fmt.Sprintf("declared size %d exceeds %d bytes", size, MaxContentLength),
			}
			return result
		}
	}

	body, err := resp.ReadAll()
	if err != nil {
		result.Err = err
		return result
	}

	hash := storage.ContentHash(body)
	if store.IsDuplicate(hash) {
		result.Err = errs.New(errs.ErrorTypeDuplicate, "content %s already saved", hash)
		return result
	}
	store.MarkSeen(hash)

	path, err := store.SaveImage(body, storage.SafeFilename(rawURL, body))
	if err != nil {
		result.Err = errs.Wrap(errs.ErrorTypeUnexpected, err, "failed to save image")
		return result
	}
	result.Path = path

	return result
}

func hasAllowedScheme(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}
