package project

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"scenesync/internal/pkg/logx"
)

// projectKeySuffix is appended to the project name to form the object key.
const projectKeySuffix = ".json"

// s3Store implements Store on top of S3-compatible object storage.
// Each project is one JSON object named "<project>.json".
type s3Store struct {
	cfg      StoreConfig
	client   *s3.Client
	uploader *manager.Uploader
}

// newS3Store initializes the S3 client using a custom configuration that
// supports S3-compatible endpoints (path-style addressing).
func newS3Store(ctx context.Context, cfg StoreConfig) (*s3Store, error) {
	sdkCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 store configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Store{
		cfg:      cfg,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

func (s *s3Store) key(name string) string {
	return name + projectKeySuffix
}

// Get loads and decodes the project object. A missing key maps to ErrNotFound.
func (s *s3Store) Get(ctx context.Context, name string) (*Scene, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.cfg.S3BucketName,
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		logx.Error(err, "S3 get failed", "project", name)
		return nil, fmt.Errorf("failed to load project %q", name)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		logx.Error(err, "S3 read failed", "project", name)
		return nil, fmt.Errorf("failed to read project %q", name)
	}

	var sc Scene
	if err := json.Unmarshal(body, &sc); err != nil {
		logx.Error(err, "Stored project is not valid JSON", "project", name)
		return nil, fmt.Errorf("failed to decode project %q", name)
	}

	return &sc, nil
}

// Put encodes and uploads the project object, replacing any previous version.
func (s *s3Store) Put(ctx context.Context, name string, sc *Scene) error {
	body, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode project %q: %w", name, err)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &s.cfg.S3BucketName,
		Key:         aws.String(s.key(name)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		logx.Error(err, "S3 upload failed", "project", name)
		return fmt.Errorf("failed to save project %q", name)
	}

	return nil
}

// List enumerates project objects in the bucket, stripping the key suffix.
func (s *s3Store) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.cfg.S3BucketName,
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			logx.Error(err, "S3 list failed")
			return nil, errors.New("failed to list projects")
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, projectKeySuffix) {
				names = append(names, strings.TrimSuffix(key, projectKeySuffix))
			}
		}
	}

	return names, nil
}
