package simplekv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/ozerovandrei/simplekv/data"
	"github.com/ozerovandrei/simplekv/fio"
	"github.com/ozerovandrei/simplekv/index"
)

const (
	lockFileSuffix  = ".lock"
	indexFileSuffix = ".index"
)

// DB 存储引擎实例, 持有唯一的日志文件和内存索引
// 日志文件是唯一的权威数据, 索引是可以随时通过 Load 重建的派生视图
type DB struct {
	options     Options
	mu          *sync.RWMutex
	logFile     *data.LogFile // 追加写日志文件
	index       index.Indexer // 内存索引, key -> 最后一条记录的位置
	fileLock    *flock.Flock  // 文件锁, 保证单写者
	bytesWrite  uint          // 当前累计写了多少个字节
	reclaimSize int64         // 表示有多少数据是无效的(被后写的记录覆盖)
}

// Stat 存储引擎统计信息
type Stat struct {
	KeyNum          uint  // key 总数量
	LogFileSize     int64 // 日志文件大小, 以字节为单位
	ReclaimableSize int64 // 被覆盖的数据量, 以字节为单位
}

// Open 打开存储引擎实例
func Open(options Options) (*DB, error) {
	// 对用户传入的配置项进行校验
	if err := checkOptions(options); err != nil {
		return nil, err
	}

	// 判断文件所在目录是否存在, 如果不存在的话, 则创建这个目录
	dir := filepath.Dir(options.FilePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
	}

	// 判断文件是否正在被其他进程使用
	fileLock := flock.New(options.FilePath + lockFileSuffix)
	hold, err := fileLock.TryLock()
	if err != nil {
		return nil, err
	}
	if !hold {
		return nil, ErrDatabaseIsUsing
	}

	// 启动时可以使用 mmap 加速索引加载
	ioType := fio.StandardFIO
	if options.MMapAtStartup {
		ioType = fio.MemoryMap
	}

	// 打开日志文件, 不存在则创建
	logFile, err := data.OpenLogFile(options.FilePath, ioType)
	if err != nil {
		_ = fileLock.Unlock()
		return nil, err
	}

	db := &DB{
		options:  options,
		mu:       new(sync.RWMutex),
		logFile:  logFile,
		index:    index.NewIndexer(options.IndexType, options.FilePath+indexFileSuffix, options.SyncWrites),
		fileLock: fileLock,
	}

	// B+ 树索引存储在磁盘上, 不需要扫描日志文件重建
	if options.IndexType != BPlusTree {
		if err := db.loadIndexFromLogFile(); err != nil {
			_ = db.index.Close()
			_ = db.logFile.Close()
			_ = fileLock.Unlock()
			return nil, err
		}
	}

	// 加载完成之后切回标准文件 IO, mmap 只能读
	if options.MMapAtStartup {
		if err := db.logFile.SetIOManager(options.FilePath, fio.StandardFIO); err != nil {
			_ = db.index.Close()
			_ = fileLock.Unlock()
			return nil, err
		}
	}

	return db, nil
}

// Close 关闭数据库, 释放文件锁
func (db *DB) Close() error {
	defer func() {
		if err := db.fileLock.Unlock(); err != nil {
			panic(fmt.Sprintf("failed to unlock the database file, %v", err))
		}
	}()
	db.mu.Lock()
	defer db.mu.Unlock()

	// 关闭索引
	if err := db.index.Close(); err != nil {
		return err
	}
	// 关闭日志文件
	return db.logFile.Close()
}

// Sync 持久化日志文件到磁盘
func (db *DB) Sync() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.logFile.Sync()
}

// Stat 返回数据库的相关统计信息
// 日志只增不减, LogFileSize 和 ReclaimableSize 可以交给外部的维护任务做决策
func (db *DB) Stat() *Stat {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return &Stat{
		KeyNum:          uint(db.index.Size()),
		LogFileSize:     db.logFile.WriteOff,
		ReclaimableSize: db.reclaimSize,
	}
}

// Load 全量扫描日志文件重建索引
// 任何时候都可以调用, 扫描结果只取决于日志文件内容
func (db *DB) Load() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.loadIndexFromLogFile()
}

// Insert 写入 Key/Value 数据, 返回这条记录在日志文件中的起始偏移
// key 已存在时直接追加新记录覆盖旧值, 不做存在性检查
func (db *DB) Insert(key []byte, value []byte) (int64, error) {
	if len(key) == 0 {
		return 0, ErrKeyIsEmpty
	}

	record := &data.Record{Key: key, Value: value}

	db.mu.Lock()
	defer db.mu.Unlock()

	// 追加写入到日志文件末尾
	pos, err := db.appendRecord(record)
	if err != nil {
		return 0, err
	}

	// 更新内存索引
	if oldPos := db.index.Put(key, pos); oldPos != nil {
		db.reclaimSize += int64(oldPos.Size)
	}

	return pos.Offset, nil
}

// Update 与 Insert 行为完全一致, 仅为 API 清晰度而单独命名
func (db *DB) Update(key []byte, value []byte) (int64, error) {
	return db.Insert(key, value)
}

// Delete 根据 key 删除对应的数据, 实现为写入一条 value 为空的墓碑记录
// key 仍然保留在索引中, 此后 Get 返回的是存在的空 value 而不是不存在
func (db *DB) Delete(key []byte) (int64, error) {
	return db.Insert(key, nil)
}

// Get 根据 key 读取数据
func (db *DB) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(key) == 0 {
		return nil, ErrKeyIsEmpty
	}

	// 从内存索引中取出 key 对应的位置信息
	pos := db.index.Get(key)
	// 如果 key 不在内存索引中, 说明 key 不存在
	if pos == nil {
		return nil, ErrKeyNotFound
	}

	// 此处的校验失败是致命错误, 说明索引和日志文件已经不一致
	return db.getValueByPosition(pos)
}

// GetAt 根据文件偏移直接读取一条记录, 不经过索引
// 供诊断和恢复场景使用
func (db *DB) GetAt(offset int64) (*data.Record, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	record, _, err := db.logFile.ReadRecord(offset)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Find 全量扫描日志文件, 返回目标 key 最后一次出现的偏移和 value
// 不依赖内存索引, 可以用来校验索引的正确性或者在索引损坏时恢复数据
func (db *DB) Find(key []byte) (int64, []byte, error) {
	if len(key) == 0 {
		return 0, nil, ErrKeyIsEmpty
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	var (
		found    bool
		foundOff int64
		foundVal []byte
	)

	var offset int64 = 0
	for {
		record, size, err := db.logFile.ReadRecord(offset)
		if err != nil {
			// 读到了文件末尾, 扫描正常结束
			if err == io.EOF {
				break
			}
			return 0, nil, err
		}

		// 同一个 key 可能被多次写入, 继续扫描直到文件末尾, 保留最后一次出现
		if bytes.Equal(record.Key, key) {
			found = true
			foundOff = offset
			foundVal = record.Value
		}

		offset += size
	}

	if !found {
		return 0, nil, ErrKeyNotFound
	}
	return foundOff, foundVal, nil
}

// ListKeys 获取数据库中所有的 key
func (db *DB) ListKeys() [][]byte {
	db.mu.RLock()
	defer db.mu.RUnlock()

	iterator := db.index.Iterator(false)
	defer iterator.Close()
	keys := make([][]byte, db.index.Size())
	var idx int
	for iterator.Rewind(); iterator.Valid(); iterator.Next() {
		keys[idx] = iterator.Key()
		idx++
	}
	return keys
}

// Fold 获取所有的数据, 并执行用户指定的操作, 函数返回 false 时终止遍历
func (db *DB) Fold(fn func(key []byte, value []byte) bool) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	iterator := db.index.Iterator(false)
	defer iterator.Close()
	for iterator.Rewind(); iterator.Valid(); iterator.Next() {
		value, err := db.getValueByPosition(iterator.Value())
		if err != nil {
			return err
		}
		if !fn(iterator.Key(), value) {
			break
		}
	}
	return nil
}

// 根据位置信息获取对应的 value
func (db *DB) getValueByPosition(pos *data.RecordPos) ([]byte, error) {
	record, _, err := db.logFile.ReadRecord(pos.Offset)
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}

// 追加写记录到日志文件末尾, 返回记录的位置信息
// 在访问此方法前必须持有互斥锁
func (db *DB) appendRecord(record *data.Record) (*data.RecordPos, error) {
	encRecord, size := data.EncodeRecord(record)

	// 记录写入前的文件末尾位置, 也就是这条记录的起始偏移
	writeOff := db.logFile.WriteOff
	if err := db.logFile.Write(encRecord); err != nil {
		return nil, err
	}

	db.bytesWrite += uint(size)
	// 根据用户配置决定是否持久化
	var needSync = db.options.SyncWrites
	if !needSync && db.options.BytesPerSync > 0 && db.bytesWrite >= db.options.BytesPerSync {
		needSync = true
	}
	if needSync {
		if err := db.logFile.Sync(); err != nil {
			return nil, err
		}
		if db.bytesWrite > 0 {
			db.bytesWrite = 0
		}
	}

	return &data.RecordPos{Offset: writeOff, Size: uint32(size)}, nil
}

// 从日志文件中加载索引
// 从头遍历文件中的所有记录, 并更新到内存索引中
func (db *DB) loadIndexFromLogFile() error {
	// 全量重建, 可回收数据量从头统计, 重复调用的结果一致
	db.reclaimSize = 0

	var offset int64 = 0
	for {
		record, size, err := db.logFile.ReadRecord(offset)
		if err != nil {
			// 读到了文件末尾, 这是扫描的正常终止条件
			if err == io.EOF {
				break
			}
			return err
		}

		// 后写入的记录覆盖先写入的, 索引中始终是 key 最后一次出现的位置
		// 索引中可能已经有这个 key, 只有位置更早的记录才是被覆盖的数据
		pos := &data.RecordPos{Offset: offset, Size: uint32(size)}
		if oldPos := db.index.Put(record.Key, pos); oldPos != nil && oldPos.Offset < offset {
			db.reclaimSize += int64(oldPos.Size)
		}

		// 递增 offset, 下一次从新的位置开始读取
		offset += size
	}
	return nil
}

func checkOptions(options Options) error {
	if options.FilePath == "" {
		return errors.New("database file path is empty")
	}
	return nil
}
