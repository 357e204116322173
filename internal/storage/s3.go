package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrTooLarge is returned when an upload exceeds the configured ceiling.
var ErrTooLarge = errors.New("evidence exceeds size limit")

// EvidenceStore keeps receipt and document images in S3 under
// content-addressed keys. Records only ever carry the returned key, never
// the bytes; re-uploading identical content lands on the same key.
type EvidenceStore struct {
	client  *s3.Client
	bucket  string
	maxSize int64
}

func NewEvidenceStore(client *s3.Client, bucket string, maxSize int64) *EvidenceStore {
	return &EvidenceStore{
		client:  client,
		bucket:  bucket,
		maxSize: maxSize,
	}
}

// Put uploads the content and returns its storage key, derived from the
// sha256 of the bytes.
func (s *EvidenceStore) Put(ctx context.Context, r io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read evidence: %w", err)
	}

	if int64(len(data)) > s.maxSize {
		return "", ErrTooLarge
	}

	key := fmt.Sprintf("evidence/%x", sha256.Sum256(data))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload evidence: %w", err)
	}

	return key, nil
}

// PublicURL returns the object URL for display links.
func (s *EvidenceStore) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
