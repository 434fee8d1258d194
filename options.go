package simplekv

import (
	"os"
	"path/filepath"
)

type Options struct {
	// 日志文件路径, 整个存储引擎的数据都在这一个文件中
	FilePath string

	// 是否每次写入都持久化
	SyncWrites bool

	// 累计写到多少字节后进行持久化
	BytesPerSync uint

	// 索引类型
	IndexType IndexType

	// 是否在启动的时候使用 MMap 加载数据
	MMapAtStartup bool
}

// IteratorOptions 索引迭代器配置项
type IteratorOptions struct {
	// 遍历前缀为指定值的 Key, 默认为空
	Prefix []byte

	// 是否反向遍历, 默认 false 是正向
	Reverse bool
}

type IndexType = int8

const (
	// BTree 索引
	BTree IndexType = iota + 1

	// ART 自适应基数树索引
	ART

	// BPlusTree B+ 树索引, 将索引存储到磁盘上, 重启时无需重新扫描日志文件
	BPlusTree
)

var DefaultOptions = Options{
	FilePath:      filepath.Join(os.TempDir(), "simplekv.data"),
	SyncWrites:    false,
	BytesPerSync:  0,
	IndexType:     BTree,
	MMapAtStartup: false,
}

var DefaultIteratorOptions = IteratorOptions{
	Prefix:  nil,
	Reverse: false,
}
