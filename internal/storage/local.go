package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LocalStorage implements the Storage interface by persisting files on disk.
// Signed URLs point back at the application's own /storage route and carry an
// HMAC over path+expiry so they cannot be forged or replayed after expiry.
type LocalStorage struct {
	basePath string
	baseURL  string
	key      []byte
}

func NewLocalStorage(basePath, baseURL, signingKey string) *LocalStorage {
	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		key:      []byte(signingKey),
	}
}

func (s *LocalStorage) Upload(ctx context.Context, obj *Object) (*Location, error) {
	if err := ValidateObject(obj); err != nil {
		return nil, err
	}
	relPath, err := s.safeRelativePath(obj.Path)
	if err != nil {
		return nil, err
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("local storage: mkdir failed: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("local storage: create file failed: %w", err)
	}
	defer out.Close()

	if _, err = io.Copy(out, obj.Reader); err != nil {
		return nil, fmt.Errorf("local storage: write failed: %w", err)
	}

	return &Location{Path: relPath, URL: fullPath}, nil
}

func (s *LocalStorage) Download(ctx context.Context, loc *Location) (*DownloadResult, error) {
	if err := ValidateLocation(loc); err != nil {
		return nil, err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(loc.Path))
	handle, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, loc.Path)
		}
		return nil, fmt.Errorf("local storage: open failed: %w", err)
	}

	info, err := handle.Stat()
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("local storage: stat failed: %w", err)
	}

	return &DownloadResult{
		Reader:      handle,
		Size:        info.Size(),
		ContentType: "",
	}, nil
}

func (s *LocalStorage) SignedURL(ctx context.Context, loc *Location, ttl time.Duration) (string, error) {
	if err := ValidateLocation(loc); err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(loc.Path))
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrObjectNotFound, loc.Path)
		}
		return "", fmt.Errorf("local storage: stat failed: %w", err)
	}

	exp := time.Now().Add(ttl).Unix()
	sig := s.sign(loc.Path, exp)
	return fmt.Sprintf("%s/storage/%s?exp=%d&sig=%s",
		s.baseURL, url.PathEscape(loc.Path), exp, sig), nil
}

func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	root := s.basePath
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, prefix) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("local storage: list failed: %w", err)
	}
	return names, nil
}

func (s *LocalStorage) Delete(ctx context.Context, loc *Location) error {
	if err := ValidateLocation(loc); err != nil {
		return err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(loc.Path))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("local storage: delete failed: %w", err)
	}
	return nil
}

// VerifySignedPath checks the exp/sig query parameters produced by SignedURL.
// The /storage route uses it before streaming a file.
func (s *LocalStorage) VerifySignedPath(relPath, expStr, sig string) error {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return fmt.Errorf("local storage: malformed expiry")
	}
	if time.Now().Unix() > exp {
		return fmt.Errorf("local storage: url expired")
	}
	expected := s.sign(relPath, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("local storage: bad signature")
	}
	return nil
}

// BasePath returns the directory files are stored under.
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

func (s *LocalStorage) sign(relPath string, exp int64) string {
	mac := hmac.New(sha256.New, s.key)
	fmt.Fprintf(mac, "%s\n%d", relPath, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *LocalStorage) safeRelativePath(name string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(name))
	if clean == "." || clean == "/" || clean == "" {
		return "", fmt.Errorf("local storage: invalid object path")
	}
	if strings.HasPrefix(clean, "..") || strings.HasPrefix(clean, "/") {
		return "", fmt.Errorf("local storage: invalid object path")
	}
	return clean, nil
}
