// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package signed

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/staranto/famo/internal/errs"
)

// Timeout bounds every request, including the body transfer.
const Timeout = 300 * time.Second

const contentType = "application/octet-stream"

// Options configures a Store.
type Options struct {
	// Endpoint is a host name, optionally with a port. An explicit
	// http:// or https:// scheme is honoured; https is assumed otherwise.
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// Store talks to an S3-compatible endpoint with header-signed requests.
type Store struct {
	base   string
	opts   Options
	client *http.Client
	now    func() time.Time
}

// New returns a Store using a pooled cleanhttp client.
func New(opts Options) *Store {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = Timeout

	base := opts.Endpoint
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	return &Store{
		base:   strings.TrimSuffix(base, "/"),
		opts:   opts,
		client: client,
		now:    time.Now,
	}
}

// Sign returns base64(HMAC-SHA1(secret, canonical)).
func Sign(canonical, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(canonical))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// CanonicalString builds the string a request signature covers. headers are
// the canonicalized x-amz-* headers, each already terminated by a newline.
func CanonicalString(verb, md5, contentType, date, headers, resource string) string {
	return verb + "\n" + md5 + "\n" + contentType + "\n" + date + "\n" + headers + resource
}

// Exists asks for the object's ACL. 200 means present and 404 absent; any
// other status is an error.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	resp, err := s.do(ctx, http.MethodGet, key, "?acl", nil)
	if err != nil {
		return false, errs.Transport("exists", key, 0, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, errs.Transport("exists", key, resp.StatusCode, responseError("Get Object ACL", resp))
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.do(ctx, http.MethodGet, key, "", nil)
	if err != nil {
		return nil, errs.Transport("get", key, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.Transport("get", key, resp.StatusCode, responseError("Get Object", resp))
	}

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, errs.Transport("get", key, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}
	return doc.Bytes(), nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	resp, err := s.do(ctx, http.MethodPut, key, "", data)
	if err != nil {
		return errs.Transport("put", key, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.Transport("put", key, resp.StatusCode, responseError("Put Object", resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// do sends one signed request. The sub-resource (such as "?acl") is part of
// both the URL and the signed resource.
func (s *Store) do(ctx context.Context, verb, key, sub string, body []byte) (*http.Response, error) {
	resource := "/" + s.opts.Bucket + "/" + key + sub
	url := s.base + resource

	var rdr io.Reader
	ctype := ""
	if body != nil {
		rdr = bytes.NewReader(body)
		ctype = contentType
	}

	req, err := http.NewRequestWithContext(ctx, verb, url, rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	date := s.now().UTC().Format(http.TimeFormat)
	req.Header.Set("Date", date)
	if body != nil {
		req.Header.Set("Content-Type", ctype)
		req.ContentLength = int64(len(body))
	}
	signature := Sign(CanonicalString(verb, "", ctype, date, "", resource), s.opts.SecretAccessKey)
	req.Header.Set("Authorization", "AWS "+s.opts.AccessKeyID+":"+signature)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

func responseError(op string, resp *http.Response) error {
	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)) //nolint:mnd
	return fmt.Errorf("error response from S3 (%s: %s)", op, strings.TrimSpace(string(text)))
}
