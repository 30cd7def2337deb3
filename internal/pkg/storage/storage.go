// Package storage 上传文件的本地落盘，文件名用 uuid 防冲突。
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save 写入上传内容，返回相对存储路径
func (s *FileStore) Save(src io.Reader, originalName string) (string, int64, error) {
	name := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	return name, size, nil
}

// Remove 删除已存储文件，文件不存在不视为错误
func (s *FileStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
