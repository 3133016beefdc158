// Package s3source reads provider exports from S3 or an S3-compatible store.
package s3source

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// GetObjectAPI is the part of *s3.Client the source uses.
type GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Client fetches whole objects, refusing any larger than maxBytes.
type Client struct {
	api      GetObjectAPI
	maxBytes int64
}

// LoadAWSConfig loads region and credentials from the default chain
// (environment, shared config, instance role).
func LoadAWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// New creates a Client from cfg. endpoint overrides the S3 endpoint and
// switches to path-style addressing.
func New(cfg aws.Config, endpoint string, maxBytes int64) *Client {
	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithAPI(api, maxBytes)
}

// NewWithAPI wraps an existing GetObject implementation.
func NewWithAPI(api GetObjectAPI, maxBytes int64) *Client {
	return &Client{api: api, maxBytes: maxBytes}
}

// Fetch returns the content of bucket/key.
func (c *Client) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	if c.maxBytes > 0 && out.ContentLength != nil && *out.ContentLength > c.maxBytes {
		return nil, fmt.Errorf("file too large: object is %d bytes, limit is %d", *out.ContentLength, c.maxBytes)
	}

	r := io.Reader(out.Body)
	if c.maxBytes > 0 {
		r = io.LimitReader(out.Body, c.maxBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	if c.maxBytes > 0 && int64(len(content)) > c.maxBytes {
		return nil, fmt.Errorf("file too large: object exceeds %d bytes", c.maxBytes)
	}
	return content, nil
}
