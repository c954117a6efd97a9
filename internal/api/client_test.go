package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fileshelf/internal/models"
)

func TestHTTPTimeoutFromEnv(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "")
		if got := httpTimeoutFromEnv(); got != defaultHTTPTimeout {
			t.Fatalf("expected default timeout %v, got %v", defaultHTTPTimeout, got)
		}
	})

	t.Run("duration format", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "45s")
		if got := httpTimeoutFromEnv(); got != 45*time.Second {
			t.Fatalf("expected 45s timeout, got %v", got)
		}
	})

	t.Run("integer seconds", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "25")
		if got := httpTimeoutFromEnv(); got != 25*time.Second {
			t.Fatalf("expected 25s timeout, got %v", got)
		}
	})

	t.Run("invalid falls back", func(t *testing.T) {
		t.Setenv(httpTimeoutEnvKey, "invalid")
		if got := httpTimeoutFromEnv(); got != defaultHTTPTimeout {
			t.Fatalf("expected default timeout %v, got %v", defaultHTTPTimeout, got)
		}
	})
}

func TestClientDecodesStructuredErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "no configuration yet", Code: "not_found", ErrorCode: 2001})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetSnapshot(context.Background())
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %T %v", err, err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.ErrorCode != 2001 || apiErr.Message != "no configuration yet" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if apiErr.Error() != "not_found: no configuration yet" {
		t.Fatalf("unexpected message: %q", apiErr.Error())
	}
}

func TestClientPutSnapshot(t *testing.T) {
	var got models.Snapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/v1/snapshot" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(SnapshotResponse{TagsInserted: 1, Warnings: []string{}})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL+"/").PutSnapshot(context.Background(), models.Snapshot{Tags: []string{"a"}})
	if err != nil {
		t.Fatalf("put snapshot: %v", err)
	}
	if resp.TagsInserted != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "a" {
		t.Fatalf("unexpected request body: %+v", got)
	}
}

func TestClientGetFileEscapesPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/v1/files/a%2Fb" {
			t.Errorf("unexpected path %q", r.URL.EscapedPath())
		}
		_ = json.NewEncoder(w).Encode(FileResponse{File: models.File{Path: "a/b"}})
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).GetFile(context.Background(), "a/b"); err != nil {
		t.Fatalf("get file: %v", err)
	}
}
