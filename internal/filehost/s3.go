package filehost

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/multierr"
)

// S3API is the part of *s3.Client the host uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type S3 struct {
	client  S3API
	bucket  string
	baseURL string
	prefix  string
}

// S3 DeleteObjects accepts at most this many keys per call.
const s3DeleteBatch = 1000

// NewS3 builds an S3 host. baseURL is the public URL objects are served
// from; endpoint overrides the AWS endpoint (LocalStack, MinIO).
func NewS3(ctx context.Context, bucket, baseURL, prefix, endpoint string) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3WithClient(client, bucket, baseURL, prefix), nil
}

func NewS3WithClient(client S3API, bucket, baseURL, prefix string) *S3 {
	return &S3{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  strings.Trim(prefix, "/"),
	}
}

func (h *S3) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	key := name
	if h.prefix != "" {
		key = h.prefix + "/" + name
	}
	in := &s3.PutObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := h.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return h.baseURL + "/" + key, nil
}

func (h *S3) DeleteFiles(ctx context.Context, keys []string) ([]string, error) {
	var (
		failed []string
		errs   error
	)
	for start := 0; start < len(keys); start += s3DeleteBatch {
		end := min(start+s3DeleteBatch, len(keys))
		batch := keys[start:end]

		objects := make([]types.ObjectIdentifier, 0, len(batch))
		for _, k := range batch {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(k)})
		}

		out, err := h.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(h.bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			failed = append(failed, batch...)
			errs = multierr.Append(errs, fmt.Errorf("s3 delete objects: %w", err))
			continue
		}
		for _, e := range out.Errors {
			// S3 reports missing keys as deleted, so anything here is a real failure.
			k := aws.ToString(e.Key)
			failed = append(failed, k)
			errs = multierr.Append(errs, fmt.Errorf("delete %s: %s", k, aws.ToString(e.Message)))
		}
	}
	return failed, errs
}

// KeyFromURL strips the public base URL. URLs on other hosts are rejected.
func (h *S3) KeyFromURL(rawURL string) (string, bool) {
	if h.baseURL != "" && strings.HasPrefix(rawURL, h.baseURL+"/") {
		key := strings.TrimPrefix(rawURL, h.baseURL+"/")
		if i := strings.IndexAny(key, "?#"); i >= 0 {
			key = key[:i]
		}
		return key, key != ""
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	base, err := url.Parse(h.baseURL)
	if err != nil || !strings.EqualFold(base.Host, u.Host) {
		return "", false
	}
	key := strings.TrimPrefix(strings.TrimPrefix(u.Path, base.Path), "/")
	return key, key != ""
}
