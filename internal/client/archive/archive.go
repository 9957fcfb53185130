// Package archive keeps a JSON copy of every delivered form submission in an
// S3-compatible bucket.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/google/uuid"
)

// Record is the archived document.
type Record struct {
	ID          string            `json:"id"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Submission  models.Submission `json:"submission"`
}

type Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Archiver struct {
	bucket string
	client objectPutter
}

// NewS3Archiver builds an archiver using static credentials. A non-empty
// BaseEndpoint switches to path-style addressing for MinIO and similar stores.
func NewS3Archiver(ctx context.Context, c Config) (*S3Archiver, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is not set")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archiver{bucket: c.Bucket, client: client}, nil
}

// ObjectKey places submissions under submissions/<form>/<yyyy>/<mm>/<dd>/.
func ObjectKey(formType models.FormType, at time.Time, id string) string {
	return fmt.Sprintf("submissions/%s/%04d/%02d/%02d/%s.json", formType, at.Year(), int(at.Month()), at.Day(), id)
}

func (a *S3Archiver) Archive(ctx context.Context, s models.Submission, at time.Time) (string, error) {
	rec := Record{ID: uuid.NewString(), SubmittedAt: at.UTC(), Submission: s}
	body, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}

	key := ObjectKey(s.FormType, rec.SubmittedAt, rec.ID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// Nop discards submissions.
type Nop struct{}

func (Nop) Archive(context.Context, models.Submission, time.Time) (string, error) {
	return "", nil
}
