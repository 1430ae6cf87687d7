package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

type AzureBlobStorage struct {
	client    *azblob.Client
	endpoint  string
	container string
}

func NewAzureBlobStorage(endpoint, accountName, accountKey, container string) (*AzureBlobStorage, error) {
	if endpoint == "" || accountName == "" || accountKey == "" {
		return nil, fmt.Errorf("azure blob: missing endpoint or credentials")
	}
	if container == "" {
		return nil, fmt.Errorf("azure blob: container not configured")
	}
	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure blob: credential error: %w", err)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("azure blob: client init failed: %w", err)
	}
	return &AzureBlobStorage{
		client:    client,
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		container: container,
	}, nil
}

func (s *AzureBlobStorage) Upload(ctx context.Context, obj *Object) (*Location, error) {
	if err := ValidateObject(obj); err != nil {
		return nil, err
	}
	blobName, err := sanitizeBlobPath(obj.Path)
	if err != nil {
		return nil, err
	}

	options := &azblob.UploadStreamOptions{}
	if obj.ContentType != "" {
		options.HTTPHeaders = &blob.HTTPHeaders{
			BlobContentType: &obj.ContentType,
		}
	}

	if _, err := s.client.UploadStream(ctx, s.container, blobName, obj.Reader, options); err != nil {
		return nil, fmt.Errorf("azure blob: upload failed: %w", err)
	}

	loc := &Location{
		Path: blobName,
		URL:  fmt.Sprintf("%s/%s/%s", s.endpoint, s.container, blobName),
	}
	return loc, nil
}

func (s *AzureBlobStorage) Download(ctx context.Context, loc *Location) (*DownloadResult, error) {
	if err := ValidateLocation(loc); err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, s.container, loc.Path, nil)
	if err != nil {
		if isBlobNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, loc.Path)
		}
		return nil, fmt.Errorf("azure blob: download failed: %w", err)
	}

	contentType := ""
	if resp.ContentType != nil {
		contentType = *resp.ContentType
	}

	size := int64(0)
	if resp.ContentLength != nil {
		size = *resp.ContentLength
	}

	return &DownloadResult{
		Reader:      resp.Body,
		ContentType: contentType,
		Size:        size,
	}, nil
}

func (s *AzureBlobStorage) SignedURL(ctx context.Context, loc *Location, ttl time.Duration) (string, error) {
	if err := ValidateLocation(loc); err != nil {
		return "", err
	}

	blobClient := s.client.ServiceClient().
		NewContainerClient(s.container).
		NewBlobClient(loc.Path)

	// Small backdated start guards against clock skew between us and Azure.
	start := time.Now().UTC().Add(-10 * time.Second)
	u, err := blobClient.GetSASURL(
		sas.BlobPermissions{Read: true},
		time.Now().UTC().Add(ttl),
		&blob.GetSASURLOptions{StartTime: &start},
	)
	if err != nil {
		return "", fmt.Errorf("azure blob: sas url failed: %w", err)
	}
	return u, nil
}

func (s *AzureBlobStorage) List(ctx context.Context, prefix string) ([]string, error) {
	pager := s.client.NewListBlobsFlatPager(s.container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	var names []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("azure blob: list failed: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, *item.Name)
			}
		}
	}
	return names, nil
}

func (s *AzureBlobStorage) Delete(ctx context.Context, loc *Location) error {
	if err := ValidateLocation(loc); err != nil {
		return err
	}
	if _, err := s.client.DeleteBlob(ctx, s.container, loc.Path, nil); err != nil {
		if isBlobNotFound(err) {
			return nil
		}
		return fmt.Errorf("azure blob: delete failed: %w", err)
	}
	return nil
}

func isBlobNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.ErrorCode == string(bloberror.BlobNotFound)
}

func sanitizeBlobPath(name string) (string, error) {
	clean := path.Clean(name)
	if clean == "." || clean == "/" {
		return "", fmt.Errorf("azure blob: invalid blob name")
	}
	if strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("azure blob: path traversal detected")
	}
	return clean, nil
}
