package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/rohits-web03/notely/internal/config"
)

const (
	objectPrefix  = "uploads/"
	presignExpiry = 15 * time.Minute
)

// R2Storage keeps attachments in an S3-compatible bucket (Cloudflare R2,
// MinIO or AWS S3). Stored paths are object keys under "uploads/".
type R2Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	now       func() time.Time
}

// NewR2Storage builds the client from static credentials when they are
// configured and from the default AWS credential chain otherwise.
func NewR2Storage(ctx context.Context, cfg config.R2Config) (*R2Storage, error) {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" {
		awsCfg = aws.Config{
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			Region:      cfg.Region,
		}
	} else {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.AccountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	log.Println("Successfully initialized R2 client")

	return &R2Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.BucketName,
		now:       time.Now,
	}, nil
}

func (s *R2Storage) Store(ctx context.Context, r io.Reader, originalName string) (string, error) {
	ext := filepath.Ext(filepath.Base(originalName))
	// Several API replicas may write in the same millisecond, and a bucket
	// has no O_EXCL, so the timestamp gets a short random suffix.
	name := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + uuid.NewString()[:8] + ext
	key := objectPrefix + name

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return key, nil
}

func (s *R2Storage) Remove(ctx context.Context, p string) error {
	if !strings.HasPrefix(p, objectPrefix) {
		return fmt.Errorf("key %q is outside %s", p, objectPrefix)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(p),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *R2Storage) Locate(ctx context.Context, name string) (Location, error) {
	if !validName(name) {
		return Location{}, ErrNotFound
	}
	key := path.Join(objectPrefix, name)

	exists, err := s.VerifyObjectExists(ctx, key)
	if err != nil {
		return Location{}, err
	}
	if !exists {
		return Location{}, ErrNotFound
	}

	url, err := s.GeneratePresignedGetURL(ctx, key, presignExpiry)
	if err != nil {
		return Location{}, err
	}
	return Location{URL: url}, nil
}

// GeneratePresignedGetURL creates a presigned URL for downloading a file from R2.
func (s *R2Storage) GeneratePresignedGetURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign object: %w", err)
	}
	return req.URL, nil
}

// VerifyObjectExists checks if a given object key exists in the bucket.
func (s *R2Storage) VerifyObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *s3types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		var re *awshttp.ResponseError
		if errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to head object: %w", err)
	}
	return true, nil
}
