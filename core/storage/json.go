package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
)

// ErrNotFound is returned by GetJSON when the object does not exist.
var ErrNotFound = errors.New("object not found")

// PutJSON encodes v and uploads it as an application/json object.
func PutJSON(ctx context.Context, client Client, bucket, objectName string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", objectName, err)
	}

	_, err = client.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return nil
}

// GetJSON downloads objectName and decodes it into v.
func GetJSON(ctx context.Context, client Client, bucket, objectName string, v any) error {
	obj, err := client.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return getError(objectName, err)
	}
	defer obj.Close()

	// minio defers the request until the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return getError(objectName, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", objectName, err)
	}
	return nil
}

func getError(objectName string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrNotFound, objectName)
	}
	return fmt.Errorf("failed to get %s: %w", objectName, err)
}
