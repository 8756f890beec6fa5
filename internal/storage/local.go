package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalClient implements Client on the local filesystem. Used for development
// and single-node deployments; files are streamed out through the API, never
// served directly.
type LocalClient struct {
	basePath string
}

func NewLocalClient(basePath string) (*LocalClient, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalClient{basePath: basePath}, nil
}

func (l *LocalClient) UploadFile(ctx context.Context, reader io.Reader, objectName, contentType string) (*UploadResult, error) {
	fullPath, err := l.resolve(objectName)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer file.Close()

	size, err := io.Copy(file, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to write data to file: %w", err)
	}

	return &UploadResult{
		ObjectName: objectName,
		Size:       size,
	}, nil
}

func (l *LocalClient) ReadFile(ctx context.Context, objectName string) (io.ReadCloser, error) {
	fullPath, err := l.resolve(objectName)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", objectName, err)
	}
	return file, nil
}

func (l *LocalClient) DeleteFile(ctx context.Context, objectName string) error {
	fullPath, err := l.resolve(objectName)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", objectName, err)
	}
	return nil
}

func (l *LocalClient) Close() error {
	return nil
}

// resolve rejects path traversal and keeps every object under basePath.
func (l *LocalClient) resolve(objectName string) (string, error) {
	clean := filepath.Clean(objectName)
	if strings.Contains(clean, "..") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, "\\") {
		return "", fmt.Errorf("invalid object name: %s", objectName)
	}
	return filepath.Join(l.basePath, clean), nil
}
