// Package api is the HTTP client for the photos backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"photos-cli/internal/logging"
	"photos-cli/internal/metrics"
	"photos-cli/internal/model"
	"photos-cli/internal/retry"
)

const (
	DefaultRootPath = "/rootFolders"
	DefaultTimeout  = 30 * time.Second

	maxErrorBody = 512
)

type Config struct {
	BaseURL string
	// RootPath is the folder tree endpoint, relative to BaseURL.
	RootPath   string
	Timeout    time.Duration
	Retry      retry.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	HTTPClient *http.Client
}

type Client struct {
	baseURL  string
	rootPath string
	http     *http.Client
	retry    retry.Config
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultConfig()
	}
	if strings.TrimSpace(cfg.RootPath) == "" {
		cfg.RootPath = DefaultRootPath
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        20,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	return &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		rootPath: cfg.RootPath,
		http:     hc,
		retry:    cfg.Retry,
		log:      logging.OrNop(cfg.Logger),
		metrics:  cfg.Metrics,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Resolve turns a server-relative link into an absolute URL. Absolute links pass through.
func (c *Client) Resolve(link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	if link == "" {
		return c.baseURL
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return c.baseURL + link
}

type request struct {
	op     string
	method string
	url    string
	body   any
	// idempotent requests are retried on transport errors and 5xx.
	idempotent bool
}

// do sends r and returns the raw response body of a 2xx response.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	var payload []byte
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", r.op, err)
		}
		payload = b
	}

	cfg := c.retry
	if !r.idempotent {
		cfg.MaxAttempts = 1
	}
	requestID := uuid.NewString()
	log := c.log.With(
		zap.String("request_id", requestID),
		zap.String("op", r.op),
		zap.String("method", r.method),
		zap.String("url", r.url),
	)

	onRetry := func(attempt int, err error) {
		c.metrics.RecordRetry(r.op)
		log.Warn("retrying request", zap.Int("attempt", attempt), zap.Error(err))
	}

	return retry.Do(ctx, cfg, onRetry, func() ([]byte, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
		if err != nil {
			return nil, &NetworkError{Op: r.op, URL: r.url, Err: err}
		}
		req.Header.Set("X-Request-ID", requestID)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			c.metrics.ObserveRequest(r.op, 0, time.Since(start))
			log.Debug("request failed", zap.Error(err))
			if ctx.Err() != nil {
				return nil, &NetworkError{Op: r.op, URL: r.url, Err: ctx.Err()}
			}
			return nil, retry.Retryable(&NetworkError{Op: r.op, URL: r.url, Err: err})
		}
		defer resp.Body.Close()

		data, readErr := io.ReadAll(resp.Body)
		c.metrics.ObserveRequest(r.op, resp.StatusCode, time.Since(start))
		log.Debug("request completed",
			zap.Int("status", resp.StatusCode),
			zap.Int("size", len(data)),
			zap.Duration("duration", time.Since(start)),
		)
		if readErr != nil {
			return nil, retry.Retryable(&NetworkError{Op: r.op, URL: r.url, Err: readErr})
		}
		if resp.StatusCode >= 500 {
			return nil, retry.Retryable(&NetworkError{
				Op:  r.op,
				URL: r.url,
				Err: &StatusError{Op: r.op, Code: resp.StatusCode, Body: truncate(data)},
			})
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Op: r.op, Code: resp.StatusCode, Body: truncate(data)}
		}
		return data, nil
	})
}

func (c *Client) getJSON(ctx context.Context, op, u string, out any) error {
	data, err := c.do(ctx, request{op: op, method: http.MethodGet, url: u, idempotent: true})
	if err != nil {
		return unwrapRetry(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) send(ctx context.Context, op, method, u string, body any) ([]byte, error) {
	data, err := c.do(ctx, request{op: op, method: method, url: u, body: body})
	if err != nil {
		return nil, unwrapRetry(err)
	}
	return data, nil
}

func unwrapRetry(err error) error {
	var r retry.RetryableError
	if errors.As(err, &r) {
		return r.Err
	}
	return err
}

func truncate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Tree fetches the root folder tree.
func (c *Client) Tree(ctx context.Context) ([]model.RawFolder, error) {
	var out []model.RawFolder
	if err := c.getJSON(ctx, "tree", c.Resolve(c.rootPath), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FilterTags returns the folder paths the server flags for a name or tag query.
func (c *Client) FilterTags(ctx context.Context, value string) ([]string, error) {
	var out []string
	u := c.endpoint("/filterTagsFolder", url.Values{"value": {value}})
	if err := c.getJSON(ctx, "filter_tags", u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FoldersByPerson returns the ids of folders where the person is tagged.
func (c *Client) FoldersByPerson(ctx context.Context, id model.PersonID) ([]int, error) {
	var out []int
	u := c.endpoint("/tag/filter_folder", url.Values{"tag": {strconv.Itoa(int(id))}})
	if err := c.getJSON(ctx, "filter_folder", u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Folder loads a folder listing. Some endpoints answer with a bare image array
// instead of the folder object.
func (c *Client) Folder(ctx context.Context, link string) (model.FolderPayload, error) {
	data, err := c.do(ctx, request{op: "folder", method: http.MethodGet, url: c.Resolve(link), idempotent: true})
	if err != nil {
		return model.FolderPayload{}, unwrapRetry(err)
	}
	return DecodeFolder(data)
}

func DecodeFolder(data []byte) (model.FolderPayload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var files []model.RawImage
		if err := json.Unmarshal(trimmed, &files); err != nil {
			return model.FolderPayload{}, &DecodeError{Op: "folder", Err: err}
		}
		return model.FolderPayload{Files: files}, nil
	}
	var p model.FolderPayload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return model.FolderPayload{}, &DecodeError{Op: "folder", Err: err}
	}
	return p, nil
}

// Baseline returns the confirmed people assignments of a folder, keyed by person.
func (c *Client) Baseline(ctx context.Context, folder model.FolderID) (map[model.PersonID][]string, error) {
	out := map[model.PersonID][]string{}
	u := c.endpoint("/tag/search_folder", url.Values{"folder": {strconv.Itoa(int(folder))}})
	if err := c.getJSON(ctx, "search_folder", u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchTag returns the basenames of the images in folder where the person is tagged.
func (c *Client) SearchTag(ctx context.Context, folder model.FolderID, person model.PersonID) ([]string, error) {
	var out []string
	u := c.endpoint("/tag/search", url.Values{
		"folder": {strconv.Itoa(int(folder))},
		"tag":    {strconv.Itoa(int(person))},
	})
	if err := c.getJSON(ctx, "search_tag", u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveAssignments submits one batched people tagging change set.
func (c *Client) SaveAssignments(ctx context.Context, batch []model.TagAssignment) error {
	_, err := c.send(ctx, "tag_folder", http.MethodPost, c.endpoint("/tag/tag_folder", nil), batch)
	return err
}

func (c *Client) People(ctx context.Context) ([]model.Person, error) {
	var out []model.Person
	if err := c.getJSON(ctx, "peoples", c.endpoint("/tag/peoples", nil), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddPerson creates a person and returns it with the id assigned by the server.
func (c *Client) AddPerson(ctx context.Context, name string) (model.Person, error) {
	data, err := c.send(ctx, "add_people", http.MethodPost, c.endpoint("/tag/add_people", url.Values{"name": {name}}), nil)
	if err != nil {
		return model.Person{}, err
	}
	var id int
	if err := json.Unmarshal(bytes.TrimSpace(data), &id); err != nil {
		return model.Person{}, &DecodeError{Op: "add_people", Err: err}
	}
	return model.Person{ID: model.PersonID(id), Name: name}, nil
}

// DeleteImages asks the server to delete images by HD path.
func (c *Client) DeleteImages(ctx context.Context, paths []string) (model.DeleteResult, error) {
	if paths == nil {
		paths = []string{}
	}
	data, err := c.send(ctx, "delete", http.MethodPost, c.endpoint("/delete", nil), paths)
	if err != nil {
		return model.DeleteResult{}, err
	}
	var res model.DeleteResult
	if err := json.Unmarshal(data, &res); err != nil {
		return model.DeleteResult{}, &DecodeError{Op: "delete", Err: err}
	}
	return res, nil
}

// ErrNotRemoved is returned when the server answers a folder removal without "success".
var ErrNotRemoved = errors.New("folder was not removed")

func (c *Client) RemoveFolder(ctx context.Context, link string) error {
	data, err := c.send(ctx, "remove_folder", http.MethodDelete, c.Resolve(link), nil)
	if err != nil {
		return err
	}
	if strings.Trim(strings.TrimSpace(string(data)), `"`) != "success" {
		return fmt.Errorf("remove_folder: %w: %s", ErrNotRemoved, truncate(data))
	}
	return nil
}

// SaveFolderTag creates, recolors or (with ToRemove) deletes a folder tag.
func (c *Client) SaveFolderTag(ctx context.Context, tagsURL string, tag model.RawTag) error {
	_, err := c.send(ctx, "folder_tag", http.MethodPost, c.Resolve(tagsURL), tag)
	return err
}

// UpdateFolder triggers a server-side rescan of the folder.
func (c *Client) UpdateFolder(ctx context.Context, link string) error {
	_, err := c.send(ctx, "update_folder", http.MethodPost, c.Resolve(link), nil)
	return err
}

// UpdateExif triggers an EXIF refresh. It is a GET with side effects, so it is not retried.
func (c *Client) UpdateExif(ctx context.Context, link string) error {
	_, err := c.send(ctx, "update_exif", http.MethodGet, c.Resolve(link), nil)
	return err
}

// EditDetails updates the title and description of the folder at details.Path.
func (c *Client) EditDetails(ctx context.Context, details model.FolderDetails) error {
	_, err := c.send(ctx, "edit_details", http.MethodPost, c.endpoint("/photo/folder/edit-details", nil), details)
	return err
}

// CanAdmin reports whether the session may run destructive operations.
// The server answers 200 for admins and 401/403 otherwise.
func (c *Client) CanAdmin(ctx context.Context) (bool, error) {
	_, err := c.do(ctx, request{op: "can_admin", method: http.MethodGet, url: c.endpoint("/security/canAdmin", nil), idempotent: true})
	if err == nil {
		return true, nil
	}
	err = unwrapRetry(err)
	if IsForbidden(err) {
		return false, nil
	}
	return false, err
}
