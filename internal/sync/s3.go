package sync

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const snapshotContentType = "application/x-ndjson"

// S3Destination writes JSONL snapshots to an S3-compatible bucket. Each
// upload lands twice: the configured key always holds the latest snapshot,
// and a dated sibling under history/ keeps one object per day so a bad
// export does not overwrite the only copy.
type S3Destination struct {
	client *s3.Client
	bucket string
	key    string
	now    func() time.Time
}

// NewS3Destination creates an S3 destination. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar).
func NewS3Destination(ctx context.Context, bucket, key, region, endpoint string) (*S3Destination, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(cfg, s3opts...)
	return &S3Destination{
		client: client,
		bucket: bucket,
		key:    key,
		now:    time.Now,
	}, nil
}

// Write uploads the snapshot under the latest key and the dated history key.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	for _, key := range []string{d.key, d.historyKey(d.now().UTC())} {
		if err := d.put(ctx, key, data); err != nil {
			return err
		}
	}
	return nil
}

func (d *S3Destination) put(ctx context.Context, key string, data []byte) error {
	contentType := snapshotContentType
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("s3 put object %s: %w", key, err)
	}
	return nil
}

// historyKey derives the dated sibling for the configured key, e.g.
// relay/backup.jsonl becomes relay/history/2026-01-15.jsonl. Re-running on
// the same day overwrites that day's object.
func (d *S3Destination) historyKey(now time.Time) string {
	ext := path.Ext(d.key)
	if ext == "" {
		ext = ".jsonl"
	}
	return path.Join(path.Dir(d.key), "history", now.Format("2006-01-02")+ext)
}
