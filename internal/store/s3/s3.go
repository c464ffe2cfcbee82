// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package s3 stores artifacts in Amazon S3 or an S3-compatible service using
// the AWS SDK v2.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	awsx "github.com/staranto/famo/internal/aws"
	"github.com/staranto/famo/internal/errs"
)

// Timeout bounds every request, including the body transfer.
const Timeout = 300 * time.Second

// Options configures the S3 store. Empty credentials fall back to the default
// AWS chain; an empty Endpoint means AWS itself.
type Options struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// API is the subset of the S3 client the store calls.
type API interface {
	HeadObject(ctx context.Context, in *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

type Store struct {
	client API
	bucket string
}

// New loads AWS configuration and builds the client. Retries are disabled:
// a failed call degrades to a rebuild rather than being repeated.
func New(ctx context.Context, opts Options) (*Store, error) {
	cfg, err := awsx.LoadAWSConfig(ctx,
		awsx.WithRegion(opts.Region),
		awsx.WithStaticCredentials(opts.AccessKeyID, opts.SecretAccessKey),
		awsx.WithTimeout(Timeout),
		awsx.WithoutRetries(),
	)
	if err != nil {
		return nil, errs.Config("load aws config", err)
	}

	client := awsx.NewS3(cfg,
		awsx.WithS3Endpoint(opts.Endpoint),
		awsx.WithS3ChecksumsWhenRequired(),
	)
	return NewWithClient(client, opts.Bucket), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client API, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, errs.Transport("exists", key, statusOf(err), err)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, errs.Transport("get", key, statusOf(err), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errs.Transport("get", key, 0, fmt.Errorf("failed to read object body: %w", err))
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(s.bucket),
		Key:           awsv2.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: awsv2.Int64(int64(len(data))),
		ContentType:   awsv2.String("application/octet-stream"),
	})
	if err != nil {
		return errs.Transport("put", key, statusOf(err), err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return true
	}
	return statusOf(err) == http.StatusNotFound
}

func statusOf(err error) int {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return 0
}
