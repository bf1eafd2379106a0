package cloudflare

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

func cdnBase() string {
	if base := os.Getenv("CDN_BASE_URL"); base != "" {
		return base
	}
	return "https://cdn.offeralert.io"
}

type UploadLogoConfig struct {
	Data        io.Reader
	ContentType string
	Ext         string
	Username    string
	BrandName   string
}

type UploadAvatarConfig struct {
	Data        io.Reader
	ContentType string
	Ext         string
	Username    string
}

type UploadResult struct {
	URL      string
	ObjectID string
}

// UploadBrandLogo stores a processed logo image under the influencer's folder.
func UploadBrandLogo(cfg UploadLogoConfig) (UploadResult, error) {
	safeUsername := slug.Make(cfg.Username)
	safeBrand := slug.Make(cfg.BrandName)

	uniqueID := fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.New().String())
	uniqueFilename := uniqueID + cfg.Ext

	objectKey := filepath.Join("users", safeUsername, "brands", safeBrand, uniqueFilename)

	if err := putObject(objectKey, cfg.Data, cfg.ContentType); err != nil {
		return UploadResult{}, err
	}

	return UploadResult{
		URL:      fmt.Sprintf("%s/%s", cdnBase(), objectKey),
		ObjectID: uniqueID,
	}, nil
}

// UploadAvatar stores a processed profile avatar.
func UploadAvatar(cfg UploadAvatarConfig) (string, error) {
	safeUsername := slug.Make(cfg.Username)

	uniqueFilename := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String(), cfg.Ext)

	objectKey := filepath.Join("users", safeUsername, "avatar", uniqueFilename)

	if err := putObject(objectKey, cfg.Data, cfg.ContentType); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", cdnBase(), objectKey), nil
}

func putObject(objectKey string, body io.Reader, contentType string) error {
	client, err := getS3Client()
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
	}

	_, err = client.PutObject(context.TODO(), input)
	if err != nil {
		return fmt.Errorf("could not upload file to R2: %v", err)
	}

	return nil
}

func DeleteImage(fullURL string) error {
	objectKey := getObjectKeyFromURL(fullURL)

	client, err := getS3Client()
	if err != nil {
		return err
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:    aws.String(objectKey),
	}

	_, err = client.DeleteObject(context.TODO(), input)
	if err != nil {
		return fmt.Errorf("could not delete file from R2: %v", err)
	}

	return nil
}

func GetFileNameFromURL(url string) string {
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

func getObjectKeyFromURL(url string) string {
	return strings.TrimPrefix(strings.TrimPrefix(url, cdnBase()), "/")
}
