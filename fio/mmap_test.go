package fio

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMMap_Read(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mmap-a.data")

	// 先用标准 IO 写入数据
	fio, err := NewFileIOManager(path)
	assert.Nil(t, err)
	_, err = fio.Write([]byte("simplekv"))
	assert.Nil(t, err)
	assert.Nil(t, fio.Close())

	mmapIO, err := NewMMapIOManager(path)
	assert.Nil(t, err)
	defer mmapIO.Close()

	size, err := mmapIO.Size()
	assert.Nil(t, err)
	assert.Equal(t, int64(8), size)

	b := make([]byte, 8)
	n, err := mmapIO.Read(b, 0)
	assert.Nil(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []byte("simplekv"), b)
}

func TestMMap_Read_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mmap-empty.data")

	// 文件不存在时由 NewMMapIOManager 创建
	mmapIO, err := NewMMapIOManager(path)
	assert.Nil(t, err)
	defer mmapIO.Close()

	b := make([]byte, 12)
	_, err = mmapIO.Read(b, 0)
	assert.Equal(t, io.EOF, err)
}

func TestMMap_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mmap-b.data")

	mmapIO, err := NewMMapIOManager(path)
	assert.Nil(t, err)
	defer mmapIO.Close()

	_, err = mmapIO.Write([]byte("simplekv"))
	assert.Equal(t, ErrMMapWriteNotSupported, err)
}
