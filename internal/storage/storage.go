package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Client is the interface for PDF artifact storage. Both the GCS and local
// implementations satisfy it.
type Client interface {
	UploadFile(ctx context.Context, reader io.Reader, objectName, contentType string) (*UploadResult, error)
	ReadFile(ctx context.Context, objectName string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, objectName string) error
	Close() error
}

// UploadResult contains the result of an upload operation
type UploadResult struct {
	ObjectName string `json:"object_name"`
	Size       int64  `json:"size"`
}

// DocumentPDFObjectName builds the object name for a document's rendered PDF.
func DocumentPDFObjectName(documentID, filename string) string {
	timestamp := time.Now().Unix()
	return fmt.Sprintf("documents/%s/%d_%s.pdf", documentID, timestamp, filename)
}
