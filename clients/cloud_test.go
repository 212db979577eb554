package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"rmcloud/models"
)

func testClient(handler http.Handler, opts ...Option) (*CloudClient, *httptest.Server) {
	ts := httptest.NewServer(handler)
	opts = append([]Option{WithTimeout(5 * time.Second)}, opts...)
	return NewCloudClient(ts.URL, "user-token", opts...), ts
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestListItems_Success(t *testing.T) {
	var gotAuth, gotPath string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"ID": "d1", "Type": models.TypeDocument, "VissibleName": "Notes"},
			{"ID": "f1", "Type": models.TypeFolder, "VissibleName": "Work"},
		})
	}))
	defer ts.Close()

	items, err := c.ListItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].String(models.FieldName) != "Work" {
		t.Errorf("unexpected second item %v", items[1])
	}
	if gotAuth != "Bearer user-token" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotPath != docsPath {
		t.Errorf("expected path %s, got %s", docsPath, gotPath)
	}
}

func TestListItems_ServerError(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	if _, err := c.ListItems(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGetMetadata_Query(t *testing.T) {
	var gotDoc, gotWithBlob string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDoc = r.URL.Query().Get("doc")
		gotWithBlob = r.URL.Query().Get("withBlob")
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"ID": "d1", "Success": true, "BlobURLGet": "https://blob/d1"},
		})
	}))
	defer ts.Close()

	md, err := c.GetMetadata(context.Background(), "d1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md.String(models.FieldBlobURLGet) != "https://blob/d1" {
		t.Errorf("unexpected metadata %v", md)
	}
	if gotDoc != "d1" || gotWithBlob != "true" {
		t.Errorf("unexpected query doc=%q withBlob=%q", gotDoc, gotWithBlob)
	}
}

func TestGetMetadata_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload interface{}
	}{
		{"empty list", http.StatusOK, []interface{}{}},
		{"unsuccessful entry", http.StatusOK, []map[string]interface{}{{"ID": "x", "Success": false, "Message": "gone"}}},
		{"404", http.StatusNotFound, map[string]string{"error": "no such doc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.payload)
			}))
			defer ts.Close()

			_, err := c.GetMetadata(context.Background(), "x", false)
			if !errors.Is(err, models.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestGetBlob_NoAuthHeader(t *testing.T) {
	var gotAuth string
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("zip-bytes"))
	}))
	defer ts.Close()

	data, err := c.GetBlob(context.Background(), ts.URL+"/signed?sig=abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "zip-bytes" {
		t.Errorf("unexpected body %q", data)
	}
	if gotAuth != "" {
		t.Errorf("signed URL request carried auth %q", gotAuth)
	}
}

func TestGetBlob_RetriesServerErrors(t *testing.T) {
	var calls int32
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}), WithRetries(3))
	defer ts.Close()

	data, err := c.GetBlob(context.Background(), ts.URL+"/blob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("unexpected body %q", data)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}
}

func TestGetBlob_Forbidden(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	if _, err := c.GetBlob(context.Background(), ts.URL+"/expired"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestAuthenticate(t *testing.T) {
	c, ts := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer user-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, []interface{}{})
	}))
	defer ts.Close()

	if err := c.Authenticate(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := NewCloudClient(ts.URL, "wrong")
	if err := bad.Authenticate(context.Background()); err == nil {
		t.Error("expected authentication failure")
	}
}
