package simplekv

import (
	"bytes"

	"github.com/ozerovandrei/simplekv/index"
)

// Iterator 迭代器, 按 key 的顺序遍历索引
type Iterator struct {
	indexIter index.Iterator // 索引迭代器
	db        *DB
	options   IteratorOptions
}

func (db *DB) NewIterator(opts IteratorOptions) *Iterator {
	indexIter := db.index.Iterator(opts.Reverse)
	return &Iterator{
		db:        db,
		indexIter: indexIter,
		options:   opts,
	}
}

func (it *Iterator) Rewind() {
	it.indexIter.Rewind()
	it.skipToNext()
}

func (it *Iterator) Seek(key []byte) {
	it.indexIter.Seek(key)
	it.skipToNext()
}

func (it *Iterator) Next() {
	it.indexIter.Next()
	it.skipToNext()
}

func (it *Iterator) Valid() bool {
	return it.indexIter.Valid()
}

func (it *Iterator) Key() []byte {
	return it.indexIter.Key()
}

func (it *Iterator) Value() ([]byte, error) {
	pos := it.indexIter.Value()
	it.db.mu.RLock()
	defer it.db.mu.RUnlock()
	return it.db.getValueByPosition(pos)
}

// Offset 当前遍历位置的记录在日志文件中的起始偏移
// 外部协作方可以借此对索引做快照, 而不必触碰引擎内部
func (it *Iterator) Offset() int64 {
	return it.indexIter.Value().Offset
}

func (it *Iterator) Close() {
	it.indexIter.Close()
}

func (it *Iterator) skipToNext() {
	if len(it.options.Prefix) == 0 {
		return
	}

	for ; it.indexIter.Valid(); it.indexIter.Next() {
		if bytes.HasPrefix(it.indexIter.Key(), it.options.Prefix) {
			break
		}
	}
}
