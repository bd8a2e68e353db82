// Package objectstore publishes finished downloads and returns the URL a
// browser should be sent to.
package objectstore

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// DefaultPresignTTL is used when S3Store.PresignTTL is zero.
const DefaultPresignTTL = time.Hour

// Store publishes the file at path under key.
type Store interface {
	Put(ctx context.Context, key, path string) (string, error)
}

// LocalStore serves files straight from the download directory; Put only
// builds the URL.
type LocalStore struct {
	BaseURL string
}

func (ls LocalStore) Put(_ context.Context, key, _ string) (string, error) {
	base := strings.TrimRight(ls.BaseURL, "/")
	if base == "" {
		base = "/mydownloads"
	}
	return base + "/" + url.PathEscape(key), nil
}

// S3Store uploads files to a bucket and hands out presigned GET URLs.
type S3Store struct {
	Client     *s3.S3
	Bucket     string
	Prefix     string
	PresignTTL time.Duration
}

// NewS3Store builds an S3Store from the default AWS credential chain.
func NewS3Store(bucket, prefix, region string, ttl time.Duration) (*S3Store, error) {
	cfg := aws.NewConfig()
	if region != "" {
		cfg = cfg.WithRegion(region)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	return &S3Store{
		Client:     s3.New(sess),
		Bucket:     bucket,
		Prefix:     prefix,
		PresignTTL: ttl,
	}, nil
}

func (ss *S3Store) Put(ctx context.Context, key, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("opening `%s`: %w", filePath, err)
	}
	defer f.Close()

	objectKey := ss.objectKey(key)
	if _, err := ss.Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: &ss.Bucket,
		Key:    &objectKey,
		Body:   f,
	}); err != nil {
		return "", fmt.Errorf(
			"putting object in bucket `%s` at key `%s`: %w",
			ss.Bucket,
			objectKey,
			err,
		)
	}

	req, _ := ss.Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket:                     &ss.Bucket,
		Key:                        &objectKey,
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", key)),
	})
	ttl := ss.PresignTTL
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	signed, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("presigning `s3://%s/%s`: %w", ss.Bucket, objectKey, err)
	}
	return signed, nil
}

func (ss *S3Store) objectKey(key string) string {
	if ss.Prefix == "" {
		return key
	}
	return path.Join(ss.Prefix, key)
}
