package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"photos-cli/internal/metrics"
	"photos-cli/internal/model"
	"photos-cli/internal/retry"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *metrics.Metrics) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	m := metrics.New()
	c := New(Config{
		BaseURL: ts.URL,
		Retry: retry.Config{
			MaxAttempts: 3,
			InitialWait: time.Millisecond,
			MaxWait:     time.Millisecond,
			Multiplier:  1,
		},
		Logger:  zaptest.NewLogger(t),
		Metrics: m,
	})
	return c, m
}

func TestTree(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rootFolders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id")
		}
		_, _ = io.WriteString(w, `[{"Id":1,"Name":"2021","Link":"/browserf/2021","Children":[{"Id":2,"Name":"beach","Link":"/browserf/2021/beach"}]}]`)
	}))
	got, err := c.Tree(context.Background())
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 || len(got[0].Children) != 1 || got[0].Children[0].Name != "beach" {
		t.Fatalf("unexpected tree %+v", got)
	}
}

func TestTree_MalformedIsDecodeError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	}))
	_, err := c.Tree(context.Background())
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if !IsDecode(err) || IsNetwork(err) {
		t.Fatalf("unexpected classification of %v", err)
	}
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls int32
	c, m := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]string{"2021/summer"})
	}))
	got, err := c.FilterTags(context.Background(), "summer")
	if err != nil {
		t.Fatalf("FilterTags: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"2021/summer"}) {
		t.Fatalf("got %v", got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	samples, _ := m.Snapshot()
	retries := 0.0
	for _, s := range samples {
		if s.Name == "photos_request_retries_total" {
			retries += s.Value
		}
	}
	if retries != 2 {
		t.Fatalf("expected 2 recorded retries, got %v", retries)
	}
}

func TestGet_PersistentServerErrorIsNetworkError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	_, err := c.People(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("expected NetworkError, got %T %v", err, err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped status 503, got %v", err)
	}
}

func TestPost_NotRetried(t *testing.T) {
	var calls int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	err := c.SaveAssignments(context.Background(), []model.TagAssignment{{Tag: 1, Folder: 2, Paths: []string{}, Deleted: []string{}}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestSaveAssignments_Body(t *testing.T) {
	var body []map[string]any
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tag/tag_folder" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
	}))
	err := c.SaveAssignments(context.Background(), []model.TagAssignment{
		{Tag: 4, Folder: 9, Paths: []string{"a.jpg"}, Deleted: []string{}},
	})
	if err != nil {
		t.Fatalf("SaveAssignments: %v", err)
	}
	want := []map[string]any{{"tag": 4.0, "folder": 9.0, "paths": []any{"a.jpg"}, "deleted": []any{}}}
	if !reflect.DeepEqual(body, want) {
		t.Fatalf("body %v, want %v", body, want)
	}
}

func TestFolder_ObjectAndBareArray(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/browserf/trip", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"Id":12,"FolderPath":"trip","Files":[{"Name":"a.jpg","ImageLink":"/image/trip/a.jpg","HdLink":"/imagehd/trip/a.jpg"}],"Tags":[{"Value":"sea","Color":"#0000ff"}],"RemoveFolderUrl":"/removeFolder?path=trip"}`)
	})
	mux.HandleFunc("/getByDate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"Name":"b.jpg","ImageLink":"/image/x/b.jpg","HdLink":"/imagehd/x/b.jpg"}]`)
	})
	c, _ := testClient(t, mux)

	p, err := c.Folder(context.Background(), "/browserf/trip")
	if err != nil {
		t.Fatalf("Folder: %v", err)
	}
	if p.ID != 12 || len(p.Files) != 1 || p.RemoveFolderURL == "" || p.Info().Tags[0].Value != "sea" {
		t.Fatalf("unexpected payload %+v", p)
	}

	p, err = c.Folder(context.Background(), c.Resolve("/getByDate"))
	if err != nil {
		t.Fatalf("Folder (array): %v", err)
	}
	if len(p.Files) != 1 || p.Files[0].Name != "b.jpg" {
		t.Fatalf("unexpected array payload %+v", p)
	}
}

func TestBaselineAndSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tag/search_folder", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("folder") != "7" {
			t.Errorf("unexpected folder %q", r.URL.Query().Get("folder"))
		}
		_, _ = io.WriteString(w, `{"1":["b.jpg"],"3":["a.jpg","c.jpg"]}`)
	})
	mux.HandleFunc("/tag/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tag") != "3" {
			t.Errorf("unexpected tag %q", r.URL.Query().Get("tag"))
		}
		_, _ = io.WriteString(w, `["a.jpg"]`)
	})
	c, _ := testClient(t, mux)

	base, err := c.Baseline(context.Background(), 7)
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	want := map[model.PersonID][]string{1: {"b.jpg"}, 3: {"a.jpg", "c.jpg"}}
	if !reflect.DeepEqual(base, want) {
		t.Fatalf("baseline %v, want %v", base, want)
	}
	got, err := c.SearchTag(context.Background(), 7, 3)
	if err != nil || len(got) != 1 || got[0] != "a.jpg" {
		t.Fatalf("SearchTag: %v %v", got, err)
	}
}

func TestAddPerson(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "Ann Lee" {
			t.Errorf("unexpected name %q", r.URL.Query().Get("name"))
		}
		_, _ = io.WriteString(w, "5")
	}))
	p, err := c.AddPerson(context.Background(), "Ann Lee")
	if err != nil {
		t.Fatalf("AddPerson: %v", err)
	}
	if p != (model.Person{ID: 5, Name: "Ann Lee"}) {
		t.Fatalf("unexpected person %+v", p)
	}
}

func TestDeleteAndRemove(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/delete", func(w http.ResponseWriter, r *http.Request) {
		var paths []string
		_ = json.NewDecoder(r.Body).Decode(&paths)
		_ = json.NewEncoder(w).Encode(model.DeleteResult{Success: len(paths)})
	})
	mux.HandleFunc("/removeFolder", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if r.URL.Query().Get("path") == "busy" {
			_, _ = io.WriteString(w, "not empty")
			return
		}
		_, _ = io.WriteString(w, "success")
	})
	c, _ := testClient(t, mux)

	res, err := c.DeleteImages(context.Background(), []string{"/imagehd/a.jpg", "/imagehd/b.jpg"})
	if err != nil || res.Success != 2 || res.Errors != 0 {
		t.Fatalf("DeleteImages: %+v %v", res, err)
	}
	if err := c.RemoveFolder(context.Background(), "/removeFolder?path=trip"); err != nil {
		t.Fatalf("RemoveFolder: %v", err)
	}
	if err := c.RemoveFolder(context.Background(), "/removeFolder?path=busy"); !errors.Is(err, ErrNotRemoved) {
		t.Fatalf("expected ErrNotRemoved, got %v", err)
	}
}

func TestCanAdmin(t *testing.T) {
	admin := true
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !admin {
			http.Error(w, "access denied, only admin", http.StatusForbidden)
		}
	}))
	ok, err := c.CanAdmin(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected admin, got %v %v", ok, err)
	}
	admin = false
	ok, err = c.CanAdmin(context.Background())
	if err != nil || ok {
		t.Fatalf("expected non-admin without error, got %v %v", ok, err)
	}
}

func TestNetworkErrorOnUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	c := New(Config{BaseURL: url, Retry: retry.Config{MaxAttempts: 1}})
	_, err := c.Tree(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) || ne.Op != "tree" {
		t.Fatalf("expected NetworkError for tree, got %v", err)
	}
}

func TestStatusErrorNotFound(t *testing.T) {
	c, _ := testClient(t, http.NotFoundHandler())
	_, err := c.People(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
	if IsNetwork(err) {
		t.Fatalf("4xx must not be a network error")
	}
}

func TestResolve(t *testing.T) {
	c := New(Config{BaseURL: "http://host:9006/"})
	tests := map[string]string{
		"/browserf/a":   "http://host:9006/browserf/a",
		"browserf/a":    "http://host:9006/browserf/a",
		"https://cdn/x": "https://cdn/x",
		"":              "http://host:9006",
	}
	for in, want := range tests {
		if got := c.Resolve(in); got != want {
			t.Fatalf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}
