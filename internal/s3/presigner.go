// Package s3 wraps the blob store: presigned PUT URLs for direct browser
// uploads and public URL construction for stored objects.
package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-shipping-api/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

const presignExpiry = 10 * time.Minute

type Presigner struct {
	Client           *s3.Client
	Presign          *s3.PresignClient
	Bucket           string
	Region           string
	CloudFrontDomain string
}

func NewPresigner(cfg config.S3Config) (*Presigner, error) {
	sdkConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(sdkConfig)

	return &Presigner{
		Client:           s3Client,
		Presign:          s3.NewPresignClient(s3Client),
		Bucket:           cfg.Bucket,
		Region:           cfg.Region,
		CloudFrontDomain: cfg.CloudFrontDomain,
	}, nil
}

// PresignPut issues a short-lived signed URL for a direct PUT of objectKey.
// The token identifies the grant; the bytes themselves never pass through
// this service.
func (p *Presigner) PresignPut(ctx context.Context, objectKey, contentType string) (string, string, error) {
	req, err := p.Presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.Bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload for %s: %w", objectKey, err)
	}
	return req.URL, uuid.New().String(), nil
}

// PublicURL builds the browser-facing URL for a stored object, preferring
// the CloudFront domain when one is configured.
func (p *Presigner) PublicURL(objectKey string) string {
	if p.CloudFrontDomain != "" {
		return fmt.Sprintf("https://%s/%s", p.CloudFrontDomain, objectKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.Bucket, p.Region, objectKey)
}

// ObjectExists checks whether objectKey is present in the bucket.
func (p *Presigner) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	_, err := p.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
