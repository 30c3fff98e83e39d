package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/crescieperdi/portal-interno/internal/config"
	"github.com/google/uuid"
)

var (
	ErrTooLarge        = errors.New("file exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported content type")
)

// Tipos de imagem aceitos no bucket mural-images
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Store guarda uploads em diretórios por bucket no disco
type Store struct {
	dir       string
	maxSize   int64
	publicURL string
}

func New(cfg config.StorageConfig) *Store {
	return &Store{
		dir:       cfg.Dir,
		maxSize:   cfg.MaxSizeBytes,
		publicURL: cfg.PublicURL,
	}
}

// Dir retorna o diretório raiz dos buckets (servido estaticamente)
func (s *Store) Dir() string {
	return s.dir
}

// Save valida tipo e tamanho e grava o arquivo com nome gerado.
// Retorna a URL pública do objeto.
func (s *Store) Save(bucket, contentType string, r io.Reader) (string, error) {
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	dir := filepath.Join(s.dir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create bucket dir: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// Lê um byte além do limite para detectar estouro sem carregar tudo em memória
	written, err := io.Copy(file, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(path)
		return "", ErrTooLarge
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, name), nil
}
