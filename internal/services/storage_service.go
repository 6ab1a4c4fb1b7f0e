// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nightpulse/backend/internal/config"
)

// localUploadDir backs the /uploads static route when S3 is not configured.
const localUploadDir = "./uploads"

// StorageService stores media on S3 (fronted by CloudFront when configured).
// Without AWS credentials it falls back to the local filesystem so flyer and
// avatar uploads keep working in development.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // bytes
	AllowedTypes []string
	IsPublic     bool
}

// uploadProfiles maps a media category to its size and type constraints.
var uploadProfiles = map[string]UploadOptions{
	"flyers": {
		Folder:       "flyers",
		MaxSize:      10 << 20,
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif"},
		IsPublic:     true,
	},
	"avatars": {
		Folder:       "avatars",
		MaxSize:      2 << 20,
		AllowedTypes: []string{".jpg", ".jpeg", ".png"},
		IsPublic:     true,
	},
}

var defaultUploadProfile = UploadOptions{
	Folder:       "general",
	MaxSize:      5 << 20,
	AllowedTypes: []string{".jpg", ".jpeg", ".png", ".pdf"},
	IsPublic:     false,
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	svc := &StorageService{config: cfg}

	if cfg.AWS.AccessKeyID == "" {
		logrus.Warn("AWS credentials missing, storing uploads on local disk")
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

// GetDefaultUploadOptions returns the constraints for a media category.
func (s *StorageService) GetDefaultUploadOptions(category string) UploadOptions {
	if profile, ok := uploadProfiles[category]; ok {
		return profile
	}
	return defaultUploadProfile
}

func (s *StorageService) UploadFile(file multipart.File, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("file size %d exceeds the %d byte limit", header.Size, options.MaxSize)
	}
	if err := checkExtension(header.Filename, options.AllowedTypes); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := s.objectKey(header.Filename, options.Folder)
	if s.s3Client == nil {
		return s.storeLocal(data, key, contentType)
	}
	return s.storeS3(data, key, contentType, options.IsPublic)
}

func checkExtension(filename string, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return fmt.Errorf("file type %s is not allowed", ext)
}

func (s *StorageService) storeS3(data []byte, key, contentType string, isPublic bool) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if isPublic {
		params.ACL = aws.String("public-read")
	}

	if _, err := s.s3Client.PutObject(params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.publicURL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) storeLocal(data []byte, key, contentType string) (*UploadResult, error) {
	path := filepath.Join(localUploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &UploadResult{
		URL:      fmt.Sprintf("http://localhost:%s/uploads/%s", s.config.Server.Port, key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteFile(key string) error {
	if s.s3Client == nil {
		return os.Remove(filepath.Join(localUploadDir, filepath.FromSlash(key)))
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GeneratePresignedURL hands out a time-limited link for a private object.
func (s *StorageService) GeneratePresignedURL(key string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("S3 client not configured")
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	return req.Presign(expiration)
}

// objectKey builds folder/YYYYMMDD_xxxxxxxx.ext so listings sort by day and
// collisions are practically impossible.
func (s *StorageService) objectKey(originalName, folder string) string {
	name := fmt.Sprintf("%s_%s%s",
		time.Now().Format("20060102"),
		uuid.New().String()[:8],
		strings.ToLower(filepath.Ext(originalName)),
	)
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func (s *StorageService) publicURL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

// ValidateImage sniffs the leading bytes and accepts only JPEG, PNG or GIF.
func (s *StorageService) ValidateImage(file multipart.File) error {
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind file: %w", err)
	}

	switch http.DetectContentType(head[:n]) {
	case "image/jpeg", "image/png", "image/gif":
		return nil
	}
	return fmt.Errorf("invalid image file")
}
