package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ozerovandrei/simplekv/data"
)

func TestART_Put(t *testing.T) {
	art := NewART()

	res1 := art.Put([]byte("key-1"), &data.RecordPos{Offset: 0, Size: 14})
	assert.Nil(t, res1)

	// 覆盖写返回旧的位置信息
	res2 := art.Put([]byte("key-1"), &data.RecordPos{Offset: 14, Size: 15})
	assert.NotNil(t, res2)
	assert.Equal(t, int64(0), res2.Offset)
	assert.Equal(t, uint32(14), res2.Size)
}

func TestART_Get(t *testing.T) {
	art := NewART()

	art.Put([]byte("key-1"), &data.RecordPos{Offset: 12, Size: 14})
	pos := art.Get([]byte("key-1"))
	assert.NotNil(t, pos)
	assert.Equal(t, int64(12), pos.Offset)

	assert.Nil(t, art.Get([]byte("not-exist")))
}

func TestART_Delete(t *testing.T) {
	art := NewART()

	_, ok := art.Delete([]byte("not-exist"))
	assert.False(t, ok)

	art.Put([]byte("key-1"), &data.RecordPos{Offset: 12, Size: 14})
	old, ok := art.Delete([]byte("key-1"))
	assert.True(t, ok)
	assert.Equal(t, int64(12), old.Offset)
	assert.Nil(t, art.Get([]byte("key-1")))
}

func TestART_Size(t *testing.T) {
	art := NewART()
	assert.Equal(t, 0, art.Size())

	art.Put([]byte("key-1"), &data.RecordPos{Offset: 0, Size: 14})
	art.Put([]byte("key-2"), &data.RecordPos{Offset: 14, Size: 14})
	art.Put([]byte("key-1"), &data.RecordPos{Offset: 28, Size: 14})
	assert.Equal(t, 2, art.Size())
}

func TestART_Iterator(t *testing.T) {
	art := NewART()

	art.Put([]byte("ccde"), &data.RecordPos{Offset: 10, Size: 14})
	art.Put([]byte("acee"), &data.RecordPos{Offset: 20, Size: 14})
	art.Put([]byte("bbcd"), &data.RecordPos{Offset: 30, Size: 14})

	var keys [][]byte
	iter := art.Iterator(false)
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Key())
	}
	iter.Close()
	assert.Equal(t, [][]byte{[]byte("acee"), []byte("bbcd"), []byte("ccde")}, keys)

	keys = keys[:0]
	reverseIter := art.Iterator(true)
	for reverseIter.Rewind(); reverseIter.Valid(); reverseIter.Next() {
		keys = append(keys, reverseIter.Key())
	}
	reverseIter.Close()
	assert.Equal(t, [][]byte{[]byte("ccde"), []byte("bbcd"), []byte("acee")}, keys)
}
