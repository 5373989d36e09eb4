// Package storage keeps uploaded photos on the local filesystem.
package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// URLPrefix is the leading segment of every stored photo path; uploads are served under /uploads.
const URLPrefix = "uploads"

const defaultExt = ".jpg"

var (
	ErrInvalidBase64 = errors.New("invalid base64 content")
	ErrPhotoTooLarge = errors.New("photo exceeds size limit")
	ErrInvalidPath   = errors.New("invalid photo path")
)

// DecodedPhoto is a photo payload that passed decoding and size checks but is not on disk yet.
type DecodedPhoto struct {
	FileName string
	Ext      string
	Data     []byte
}

// StoredFile describes one file found in the upload directory.
type StoredFile struct {
	Path    string
	ModTime time.Time
}

type PhotoStore struct {
	root     string
	maxBytes int64
}

func NewPhotoStore(root string, maxBytes int64) *PhotoStore {
	return &PhotoStore{root: root, maxBytes: maxBytes}
}

// Root returns the directory holding uploaded files.
func (s *PhotoStore) Root() string {
	return s.root
}

// MaxBytes is the largest accepted decoded photo.
func (s *PhotoStore) MaxBytes() int64 {
	return s.maxBytes
}

// Init creates the upload directory if needed.
func (s *PhotoStore) Init() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// Decode turns base64 content (optionally a data URL) into bytes.
// Empty content yields (nil, nil) so callers can skip the entry.
func (s *PhotoStore) Decode(fileName, content string) (*DecodedPhoto, error) {
	if i := strings.LastIndex(content, ","); i >= 0 {
		content = content[i+1:]
	}
	content = strings.Join(strings.Fields(content), "")
	if content == "" {
		return nil, nil
	}

	if int64(base64.StdEncoding.DecodedLen(len(content)))-2 > s.maxBytes {
		return nil, ErrPhotoTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(content)
		if err != nil {
			return nil, ErrInvalidBase64
		}
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrPhotoTooLarge
	}

	return &DecodedPhoto{FileName: fileName, Ext: extension(fileName), Data: data}, nil
}

// extension keeps a short alphanumeric extension from the client file name.
func extension(fileName string) string {
	ext := filepath.Ext(fileName)
	if len(ext) < 2 || len(ext) > 10 {
		return defaultExt
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return defaultExt
		}
	}
	return strings.ToLower(ext)
}

// Save writes the photo under a random name and returns its stored path, e.g. "uploads/<uuid>.png".
func (s *PhotoStore) Save(photo *DecodedPhoto) (string, error) {
	name := uuid.NewString() + photo.Ext
	if err := os.WriteFile(filepath.Join(s.root, name), photo.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return path.Join(URLPrefix, name), nil
}

// Remove deletes the file behind a stored path. A missing file is not an error.
func (s *PhotoStore) Remove(storedPath string) error {
	full, err := s.resolve(storedPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	return nil
}

// RemoveAll deletes every file and logs the ones that could not be removed.
// Leftover files are picked up by the orphan sweeper.
func (s *PhotoStore) RemoveAll(storedPaths []string) {
	for _, p := range storedPaths {
		if err := s.Remove(p); err != nil {
			slog.Warn("photo file not removed", "path", p, "error", err)
		}
	}
}

func (s *PhotoStore) resolve(storedPath string) (string, error) {
	name := path.Base(storedPath)
	if name == "." || name == "/" || name == ".." || strings.ContainsRune(name, '\\') {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, name), nil
}

// List returns every regular file in the upload directory.
func (s *PhotoStore) List() ([]StoredFile, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{Path: path.Join(URLPrefix, e.Name()), ModTime: info.ModTime()})
	}
	return files, nil
}
