package services

import (
	"context"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

const uploadURLTTL = 15 * time.Minute

// MediaBucket holds the evidence uploads bucket. The server only checks
// existence and hands out signed upload URLs; bytes never pass through it.
type MediaBucket struct {
	*storage.BucketHandle
}

func NewMediaBucket(ctx context.Context, app *firebase.App, bucketName string) (*MediaBucket, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, err
	}
	bucketHandle, err := client.Bucket(bucketName)
	if err != nil {
		return nil, err
	}

	return &MediaBucket{
		bucketHandle,
	}, nil
}

func (mb *MediaBucket) Exists(ctx context.Context, blobName string) (bool, error) {
	if len(blobName) == 0 {
		return false, nil
	}
	handle := mb.Object(blobName)
	if _, err := handle.Attrs(ctx); err != nil {
		if err == storage.ErrObjectNotExist {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (mb *MediaBucket) SignedUploadURL(blobName string) (string, error) {
	return mb.SignedURL(blobName, &storage.SignedURLOptions{
		Method:  "PUT",
		Expires: time.Now().Add(uploadURLTTL),
		Scheme:  storage.SigningSchemeV4,
	})
}
