package fio

import (
	"errors"
	"os"

	"golang.org/x/exp/mmap"
)

// ErrMMapWriteNotSupported mmap IO 只用于读取
var ErrMMapWriteNotSupported = errors.New("mmap io manager is read-only")

// MMap 内存文件映射 IO, 只读
type MMap struct {
	readerAt *mmap.ReaderAt
}

// NewMMapIOManager 初始化 MMap IO
func NewMMapIOManager(fileName string) (*MMap, error) {
	// mmap.Open 要求文件必须存在
	fd, err := os.OpenFile(fileName, os.O_CREATE, DataFilePerm)
	if err != nil {
		return nil, err
	}
	if err := fd.Close(); err != nil {
		return nil, err
	}

	readerAt, err := mmap.Open(fileName)
	if err != nil {
		return nil, err
	}
	return &MMap{readerAt: readerAt}, nil
}

func (m *MMap) Read(b []byte, offset int64) (int, error) {
	return m.readerAt.ReadAt(b, offset)
}

func (m *MMap) Write([]byte) (int, error) {
	return 0, ErrMMapWriteNotSupported
}

func (m *MMap) Sync() error {
	return nil
}

func (m *MMap) Close() error {
	return m.readerAt.Close()
}

func (m *MMap) Size() (int64, error) {
	return int64(m.readerAt.Len()), nil
}
