package index

import (
	"bytes"

	"github.com/google/btree"

	"github.com/ozerovandrei/simplekv/data"
)

// Indexer 抽象索引接口, 后续接入其他数据结构, 直接实现这个接口即可
// 索引只是日志文件的派生视图, 维护 key 到最后一条记录位置的映射
type Indexer interface {
	// Put 向索引中存入 key 的位置信息, 返回旧的位置信息
	Put(key []byte, pos *data.RecordPos) *data.RecordPos

	// Get 根据 key 取出对应索引位置信息
	Get(key []byte) *data.RecordPos

	// Delete 根据 key 删除对应索引位置信息
	Delete(key []byte) (*data.RecordPos, bool)

	// Size 索引中的数据量
	Size() int

	// Iterator 索引迭代器
	Iterator(reverse bool) Iterator

	// Close 关闭索引
	Close() error
}

type IndexType = int8

const (
	// Btree 索引
	Btree IndexType = iota + 1

	// ART 自适应基数树索引
	ART

	// BPTree B+ 树索引, 将索引存储到磁盘上
	BPTree
)

// NewIndexer 根据类型初始化索引
func NewIndexer(typ IndexType, fileName string, syncWrites bool) Indexer {
	switch typ {
	case Btree:
		return NewBTree()
	case ART:
		return NewART()
	case BPTree:
		return NewBPlusTree(fileName, syncWrites)
	default:
		panic("unsupported index type")
	}
}

// Item btree 中存储的元素
type Item struct {
	key []byte
	pos *data.RecordPos
}

// Less 自定义 btree 中 key 的比较方法(排序规则)
func (ai *Item) Less(bi btree.Item) bool {
	return bytes.Compare(ai.key, bi.(*Item).key) == -1
}

// Iterator 通用索引迭代器
type Iterator interface {
	// Rewind 重新回到迭代器的起点, 即第一个数据
	Rewind()

	// Seek 根据传入的 key 查找到第一个大于(或小于)等于的目标 key, 从这个 key 开始遍历
	Seek(key []byte)

	// Next 跳转到下一个 key
	Next()

	// Valid 是否有效, 即是否已经遍历完了所有的 key, 用于退出遍历
	Valid() bool

	// Key 当前遍历位置的 key 数据
	Key() []byte

	// Value 当前遍历位置的位置信息
	Value() *data.RecordPos

	// Close 关闭迭代器, 释放相应资源
	Close()
}
