package httppush

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgxgame/ck-loader/internal/config"
)

func pushConfig(url string) *config.Config {
	return &config.Config{
		URL:      url,
		Table:    "events",
		User:     "default",
		Password: "pw",
		CapMB:    1,
		FilePath: "in-memory",
	}
}

func TestPush_StreamsLZ4Body(t *testing.T) {
	payload := strings.Repeat("orc bytes ", 1000)

	var gotQuery, gotEncoding string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotEncoding = r.Header.Get("Content-Encoding")
		user, pass, _ := r.BasicAuth()
		assert.Equal(t, "default", user)
		assert.Equal(t, "pw", pass)

		decompressed, err := io.ReadAll(lz4.NewReader(r.Body))
		require.NoError(t, err)
		gotBody = decompressed
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result, err := Push(context.Background(), zerolog.Nop(), strings.NewReader(payload), pushConfig(srv.URL))
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Empty(t, result.Diagnostic)

	assert.Equal(t, "INSERT INTO events FORMAT ORC", gotQuery)
	assert.Equal(t, "lz4", gotEncoding)
	assert.Equal(t, payload, string(gotBody))
}

func TestPush_NonSuccessCarriesDiagnosticBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "Code: 60. DB::Exception: Table default.events does not exist")
	}))
	defer srv.Close()

	result, err := Push(context.Background(), zerolog.Nop(), strings.NewReader("x"), pushConfig(srv.URL))
	require.NoError(t, err)
	assert.False(t, result.OK())
	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.Contains(t, result.Diagnostic, "does not exist")
}

func TestPush_UnreachableServerIsError(t *testing.T) {
	cfg := pushConfig("http://127.0.0.1:1")
	_, err := Push(context.Background(), zerolog.Nop(), strings.NewReader("x"), cfg)
	assert.Error(t, err)
}

func TestEndpoint_EscapesQuery(t *testing.T) {
	cfg := pushConfig("http://localhost:8123/")
	cfg.Table = "db.events"
	got := endpoint(cfg)
	assert.Equal(t, "http://localhost:8123/?query=INSERT+INTO+db.events+FORMAT+ORC", got)
}
