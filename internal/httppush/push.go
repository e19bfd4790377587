// Package httppush streams a single file into ClickHouse over its HTTP
// interface, compressing the body on the fly with LZ4 framing. It is the
// single-shot alternative to the batch loader: no concurrency, no file
// relocation.
package httppush

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog"

	"github.com/bgxgame/ck-loader/internal/config"
	"github.com/bgxgame/ck-loader/internal/loader"
)

const (
	dialTimeout    = 10 * time.Second
	requestTimeout = 2 * time.Hour
	keepAlive      = 60 * time.Second
	maxBodyRunes   = 2000
)

// Result describes the server's verdict on one upload.
type Result struct {
	Status     int
	Elapsed    time.Duration
	Diagnostic string
}

// OK reports whether the server accepted the upload.
func (r *Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Push uploads cfg.FilePath to the ClickHouse HTTP endpoint. The request
// body is the file read through a cfg.CapMB-sized buffer and compressed with
// an LZ4 frame writer; the server decompresses it via Content-Encoding. A
// non-2xx response is not an error: the diagnostic body is captured in the
// result and the caller decides the exit status.
func Push(ctx context.Context, log zerolog.Logger, f io.Reader, cfg *config.Config) (*Result, error) {
	start := time.Now()

	pr, pw := io.Pipe()
	go func() {
		zw := lz4.NewWriter(pw)
		buffered := bufio.NewReaderSize(f, cfg.CapMB<<20)
		_, err := io.Copy(zw, buffered)
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(cfg), pr)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(cfg.User, cfg.Password)
	req.Header.Set("Content-Encoding", "lz4")

	log.Info().
		Str("file", cfg.FilePath).
		Str("table", cfg.Table).
		Msg("starting upload")

	resp, err := client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	result := &Result{Status: resp.StatusCode, Elapsed: time.Since(start)}
	if !result.OK() {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		result.Diagnostic = truncate(string(body))
	}
	return result, nil
}

func endpoint(cfg *config.Config) string {
	base := strings.TrimRight(cfg.URL, "/")
	return base + "/?query=" + url.QueryEscape(loader.Query(cfg.Table))
}

func client() *http.Client {
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: keepAlive,
			}).DialContext,
		},
	}
}

func truncate(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxBodyRunes {
		return string(runes[:maxBodyRunes])
	}
	return string(runes)
}
