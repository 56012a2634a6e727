package anyio

import (
	"context"
	"io"

	"github.com/NamanBalaji/anyio/internal/transport"
)

// S3ObjectInfo is the metadata of a single S3 object.
type S3ObjectInfo = transport.ObjectInfo

// ParseS3URL splits an s3:// (or r2://) locator into bucket and key.
func ParseS3URL(locator string) (bucket, key string, err error) {
	return transport.ParseS3Locator(locator)
}

// S3Upload streams r into the given bucket and key.
func S3Upload(ctx context.Context, bucket, key string, r io.Reader) error {
	return transport.S3Upload(ctx, bucket, key, r)
}

// S3Download fetches an object's raw bytes into a local file.
func S3Download(ctx context.Context, bucket, key, localPath string) error {
	return transport.S3Download(ctx, bucket, key, localPath)
}

// S3Stats returns the object's metadata without retrieving its body.
func S3Stats(ctx context.Context, bucket, key string) (S3ObjectInfo, error) {
	return transport.S3Stats(ctx, bucket, key)
}

// S3Exists reports whether the object exists.
func S3Exists(ctx context.Context, bucket, key string) (bool, error) {
	return transport.S3Exists(ctx, bucket, key)
}

// S3List returns the keys under prefix. With a non-empty delimiter and
// dirsOnly set it returns the common prefixes instead, which lists the
// "directories" one level below prefix.
func S3List(ctx context.Context, bucket, prefix, delimiter string, dirsOnly bool) ([]string, error) {
	return transport.S3List(ctx, bucket, prefix, delimiter, dirsOnly)
}

// S3Delete removes the object.
func S3Delete(ctx context.Context, bucket, key string) error {
	return transport.S3Delete(ctx, bucket, key)
}

// S3Copy performs a server-side copy between two object locations.
func S3Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	return transport.S3Copy(ctx, srcBucket, srcKey, dstBucket, dstKey)
}
