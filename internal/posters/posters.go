package posters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store хранит постеры курсов в одном каталоге, ключ: имя исходного файла.
type Store struct {
	Dir string
}

func New(dir string) *Store { return &Store{Dir: dir} }

// Save копирует srcPath в каталог постеров (существующий файл заменяется)
// и возвращает сохранённое имя. Пустой путь: постера нет, возвращается "".
func (s *Store) Save(srcPath string) (string, error) {
	srcPath = strings.TrimSpace(srcPath)
	if srcPath == "" {
		return "", nil
	}
	name := filepath.Base(srcPath)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("poster %q: not a file name", srcPath)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("poster: %w", err)
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("posters dir: %w", err)
	}
	// пишем во временный файл и переименовываем, чтобы не оставить обрезанный постер
	tmp, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("poster: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("poster copy: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("poster copy: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return "", fmt.Errorf("poster: %w", err)
	}
	return name, nil
}

// Path: полный путь сохранённого постера.
func (s *Store) Path(name string) string { return filepath.Join(s.Dir, filepath.Base(name)) }
