// Package storage guarda as imagens dos produtos. O contrato é o de um
// blob store: grava o arquivo sob um caminho aleatório e devolve a URL
// pública resultante.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Storage interface {
	// Save grava o conteúdo e devolve a URL pública da imagem.
	Save(filename string, src io.Reader) (string, error)
	// Remove apaga a imagem apontada pela URL pública.
	Remove(publicURL string) error
}

// LocalStorage grava em disco e serve os arquivos sob /uploads.
type LocalStorage struct {
	dir        string
	publicPath string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório de uploads: %w", err)
	}
	return &LocalStorage{dir: dir, publicPath: "/uploads"}, nil
}

func (s *LocalStorage) Save(filename string, src io.Reader) (string, error) {
	// Nome aleatório para evitar colisão entre uploads.
	name := uuid.New().String() + filepath.Ext(filename)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("falha ao criar arquivo de imagem: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("falha ao gravar imagem: %w", err)
	}
	return s.publicPath + "/" + name, nil
}

func (s *LocalStorage) Remove(publicURL string) error {
	if !strings.HasPrefix(publicURL, s.publicPath+"/") {
		return fmt.Errorf("URL fora do diretório de uploads: %s", publicURL)
	}
	name := filepath.Base(strings.TrimPrefix(publicURL, s.publicPath+"/"))
	return os.Remove(filepath.Join(s.dir, name))
}
