// Package fetcher drives a fetch session.
//
// A session collects URLs (CollectURLs), then makes one sequential pass over
// them (Fetcher.Run). For each URL, in input order:
//
//  1. only http:// and https:// URLs are requested at all
//  2. the GET must succeed with a 2xx status
//  3. Content-Type must start with image/
//  4. a declared Content-Length must not exceed 10 MiB
//  5. the MD5 of the body must not have been saved earlier in the session
//  6. the body is written under a name derived from the URL or the content
//
// Every URL ends with exactly one status line. Problems with one URL never
// stop the pass; only a failure to create the output directory does.
//
// The seen-content set belongs to the storage.Manager created inside Run,
// so every call to Run starts from scratch.
package fetcher
