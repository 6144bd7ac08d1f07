// Package fetch resolves photo and logo references into inline data before a document
// is rendered. References may be http(s) URLs, file:// URLs or local paths; data URIs
// pass through untouched.
//
// A reference that cannot be fetched is left as it was. The layout engine then draws
// its placeholder, so a broken link never aborts a document.
package fetch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gardar/inspectdoc/pkg/record"
)

var (
	ErrNotImage = errors.New("resource is not an image")
	ErrTooLarge = errors.New("resource exceeds size limit")
)

// Config controls remote fetching
type Config struct {
	Timeout     time.Duration   `yaml:"timeout"`     // Per attempt
	Retries     int             `yaml:"retries"`     // Extra attempts after the first
	RetryWait   time.Duration   `yaml:"retry_wait"`  // Minimum backoff between attempts
	Concurrency int             `yaml:"concurrency"` // Parallel fetches per record
	MaxBytes    int64           `yaml:"max_bytes"`   // Largest accepted resource
	Logger      *zerolog.Logger `yaml:"-"`
}

// DefaultConfig returns the fetch defaults
func DefaultConfig() Config {
	return Config{
		Timeout:     15 * time.Second,
		Retries:     2,
		RetryWait:   500 * time.Millisecond,
		Concurrency: 4,
		MaxBytes:    10 << 20,
	}
}

// Fetcher downloads and inlines images
type Fetcher struct {
	cfg    Config
	client *retryablehttp.Client
	log    zerolog.Logger
}

// New returns a Fetcher. Zero config fields take their defaults.
func New(cfg Config) *Fetcher {
	d := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = d.RetryWait
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = d.Concurrency
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = d.MaxBytes
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.Retries
	client.RetryWaitMin = cfg.RetryWait
	client.RetryWaitMax = 8 * cfg.RetryWait
	client.HTTPClient.Timeout = cfg.Timeout
	client.Logger = leveledLogger{log}

	return &Fetcher{cfg: cfg, client: client, log: log}
}

// IsRemote reports whether ref is an http(s) URL
func IsRemote(ref string) bool {
	l := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// IsDataURI reports whether ref is already inline
func IsDataURI(ref string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ref)), "data:")
}

// Fetch returns the bytes and content type behind a URL or local path
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	if IsRemote(ref) {
		return f.get(ctx, ref)
	}

	path := strings.TrimPrefix(ref, "file://")
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("error reading %s: %w", path, err)
	}
	if info.Size() > f.cfg.MaxBytes {
		return nil, "", fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, http.DetectContentType(data), nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid request for %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("error fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("error fetching %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("error reading %s: %w", url, err)
	}
	if int64(len(data)) > f.cfg.MaxBytes {
		return nil, "", fmt.Errorf("%s: %w", url, ErrTooLarge)
	}

	ctype := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(ctype, ';'); i >= 0 {
		ctype = ctype[:i]
	}
	ctype = strings.TrimSpace(ctype)
	if ctype == "" || ctype == "application/octet-stream" {
		ctype = http.DetectContentType(data)
	}
	return data, ctype, nil
}

// DataURI returns ref as a base64 data URI. Data URIs are returned unchanged.
func (f *Fetcher) DataURI(ctx context.Context, ref string) (string, error) {
	if IsDataURI(ref) {
		return ref, nil
	}
	data, ctype, err := f.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(ctype, "image/") {
		return "", fmt.Errorf("%s (%s): %w", ref, ctype, ErrNotImage)
	}
	return "data:" + ctype + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Result reports what ResolveInspection did
type Result struct {
	Resolved int
	Failed   int
}

// ResolveInspection returns a copy of rec with every photo reference inlined. Photos that
// cannot be fetched keep their original reference. rec is not modified. The error is
// non-nil only when ctx ends before all fetches finish.
func (f *Fetcher) ResolveInspection(ctx context.Context, rec *record.Inspection) (*record.Inspection, Result, error) {
	out := rec.Clone()

	var pending []*record.Photo
	for ai := range out.Areas {
		items := out.Areas[ai].Items
		for ii := range items {
			for pi := range items[ii].Photos {
				p := &items[ii].Photos[pi]
				if strings.TrimSpace(p.Base64) != "" && !IsDataURI(p.Base64) {
					pending = append(pending, p)
				}
			}
		}
	}
	if len(pending) == 0 {
		return out, Result{}, nil
	}

	var resolved, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.Concurrency)
	for _, p := range pending {
		g.Go(func() error {
			uri, err := f.DataURI(gctx, p.Base64)
			if err != nil {
				failed.Add(1)
				f.log.Warn().Err(err).Str("photo", p.Name).Msg("photo not fetched, placeholder will be drawn")
				return nil
			}
			p.Base64 = uri
			resolved.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Resolved: int(resolved.Load()), Failed: int(failed.Load())}
	if err := ctx.Err(); err != nil {
		return nil, res, err
	}
	f.log.Debug().Int("resolved", res.Resolved).Int("failed", res.Failed).Msg("photos resolved")
	return out, res, nil
}

// leveledLogger routes retryablehttp logging through zerolog
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Warn().Fields(kv).Msg(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Debug().Fields(kv).Msg(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.log.Warn().Fields(kv).Msg(msg) }
