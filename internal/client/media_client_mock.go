package client

import (
	"context"
	"fmt"
	"strings"
)

// MockMediaClient implements MediaClient for testing without AWS credentials
type MockMediaClient struct {
	Bucket   string
	Region   string
	Endpoint string

	// Optional function overrides for custom test behavior
	DeleteFileFunc func(ctx context.Context, key string) error
	GetFileURLFunc func(key string) string
}

// NewMockMediaClient creates a new mock media client for testing
func NewMockMediaClient() *MockMediaClient {
	return &MockMediaClient{
		Bucket:   "test-bucket",
		Region:   "ap-northeast-2",
		Endpoint: "",
	}
}

// DeleteFile simulates file deletion
func (m *MockMediaClient) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	return nil
}

// GetFileURL returns the public URL for a file
func (m *MockMediaClient) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}
	if m.Endpoint != "" && !strings.Contains(m.Endpoint, "amazonaws.com") {
		return fmt.Sprintf("%s/%s/%s", m.Endpoint, m.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// Ensure MockMediaClient implements MediaClient
var _ MediaClient = (*MockMediaClient)(nil)
