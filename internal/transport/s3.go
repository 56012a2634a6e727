package transport

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/NamanBalaji/anyio/internal/errors"
	"github.com/NamanBalaji/anyio/internal/logger"
)

// ObjectInfo is the metadata returned by a HeadObject call.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
	ContentType  string
}

// ParseS3Locator splits s3://bucket/key (or the r2:// alias) into bucket
// and key.
func ParseS3Locator(locator string) (bucket, key string, err error) {
	trimmed := locator
	switch {
	case strings.HasPrefix(locator, "s3://"):
		trimmed = strings.TrimPrefix(locator, "s3://")
	case strings.HasPrefix(locator, "r2://"):
		trimmed = strings.TrimPrefix(locator, "r2://")
	default:
		return "", "", errors.NewNetwork(errors.New("invalid s3 locator"), locator, false)
	}

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.NewNetwork(errors.New("s3 locator must name a bucket and key"), locator, false)
	}

	return parts[0], parts[1], nil
}

var (
	s3ClientOnce sync.Once
	s3ClientInst *s3.Client
	s3ClientErr  error
)

// S3Client returns a lazily-built shared client. Region and credentials
// come from the standard AWS environment/config chain; AWS_ENDPOINT_URL
// (or AWS_ENDPOINT) points at S3-compatible providers, which also switch
// the client to path-style addressing.
func S3Client(ctx context.Context) (*s3.Client, error) {
	s3ClientOnce.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			s3ClientErr = errors.NewNetwork(err, "s3", false)
			return
		}

		endpoint := os.Getenv("AWS_ENDPOINT_URL")
		if endpoint == "" {
			endpoint = os.Getenv("AWS_ENDPOINT")
		}

		s3ClientInst = s3.NewFromConfig(cfg, func(o *s3.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
				if !strings.Contains(endpoint, "amazonaws.com") {
					o.UsePathStyle = true
				}
			}
		})
	})

	return s3ClientInst, s3ClientErr
}

func openS3(ctx context.Context, locator string, _ Config) (io.ReadCloser, int64, error) {
	bucket, key, err := ParseS3Locator(locator)
	if err != nil {
		return nil, SizeUnknown, err
	}

	client, err := S3Client(ctx)
	if err != nil {
		return nil, SizeUnknown, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, SizeUnknown, classifyS3Error(err, locator)
	}

	size := SizeUnknown
	if out.ContentLength != nil {
		size = *out.ContentLength
	}

	return out.Body, size, nil
}

// s3Writer streams written bytes through a pipe into a multipart upload.
// Close completes the upload and reports its outcome.
type s3Writer struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *s3Writer) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

func createS3(ctx context.Context, locator string) (io.WriteCloser, error) {
	bucket, key, err := ParseS3Locator(locator)
	if err != nil {
		return nil, err
	}

	client, err := S3Client(ctx)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)

	uploader := manager.NewUploader(client)

	go func() {
		_, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   pr,
		})
		if err != nil {
			err = classifyS3Error(err, locator)
			// Unblock a writer stuck in Write when the upload dies early.
			pr.CloseWithError(err)
		}
		done <- err
	}()

	return &s3Writer{pw: pw, done: done}, nil
}

// S3Upload streams the reader's content into bucket/key.
func S3Upload(ctx context.Context, bucket, key string, r io.Reader) error {
	client, err := S3Client(ctx)
	if err != nil {
		return err
	}

	uploader := manager.NewUploader(client)

	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return classifyS3Error(err, "s3://"+bucket+"/"+key)
	}

	logger.Debugf("uploaded s3://%s/%s", bucket, key)

	return nil
}

// S3Download fetches bucket/key into a local file using ranged parallel
// parts.
func S3Download(ctx context.Context, bucket, key, localPath string) error {
	client, err := S3Client(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(localPath)
	if err != nil {
		return errors.NewIO(err, localPath)
	}
	defer f.Close()

	downloader := manager.NewDownloader(client)

	_, err = downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		os.Remove(localPath)
		return classifyS3Error(err, "s3://"+bucket+"/"+key)
	}

	return nil
}

// S3Stats returns the object's metadata.
func S3Stats(ctx context.Context, bucket, key string) (ObjectInfo, error) {
	client, err := S3Client(ctx)
	if err != nil {
		return ObjectInfo{}, err
	}

	out, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return ObjectInfo{}, classifyS3Error(err, "s3://"+bucket+"/"+key)
	}

	info := ObjectInfo{
		Key:         key,
		ETag:        aws.ToString(out.ETag),
		ContentType: aws.ToString(out.ContentType),
	}
	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}

	return info, nil
}

// S3Exists reports whether the object exists; a not-found head is not an
// error.
func S3Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := S3Stats(ctx, bucket, key)
	if err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// S3List returns the object keys under prefix. With dirsOnly, only the
// common prefixes for the delimiter are returned.
func S3List(ctx context.Context, bucket, prefix, delimiter string, dirsOnly bool) ([]string, error) {
	client, err := S3Client(ctx)
	if err != nil {
		return nil, err
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}
	if delimiter != "" {
		input.Delimiter = aws.String(delimiter)
	}

	var keys []string

	paginator := s3.NewListObjectsV2Paginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyS3Error(err, "s3://"+bucket+"/"+prefix)
		}

		if dirsOnly {
			for _, p := range page.CommonPrefixes {
				keys = append(keys, aws.ToString(p.Prefix))
			}
			continue
		}

		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	return keys, nil
}

// S3Delete removes the object.
func S3Delete(ctx context.Context, bucket, key string) error {
	client, err := S3Client(ctx)
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyS3Error(err, "s3://"+bucket+"/"+key)
	}

	return nil
}

// S3Copy performs a server-side copy between buckets/keys.
func S3Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	client, err := S3Client(ctx)
	if err != nil {
		return err
	}

	_, err = client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(srcBucket + "/" + srcKey),
	})
	if err != nil {
		return classifyS3Error(err, "s3://"+dstBucket+"/"+dstKey)
	}

	return nil
}

// classifyS3Error distinguishes a missing object from transport failures
// so callers can treat absence as a condition rather than an outage.
func classifyS3Error(err error, locator string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return errors.NewNetwork(errors.ErrNotFound, locator, false)
		case "AccessDenied":
			return errors.NewNetwork(errors.ErrAccessDenied, locator, false)
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.NewNetwork(err, locator, false)
	}

	return errors.NewNetwork(err, locator, true)
}
