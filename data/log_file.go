package data

import (
	"hash/crc32"
	"io"

	"github.com/ozerovandrei/simplekv/fio"
)

// LogFile 追加写日志文件抽象, 整个存储引擎只有这一个数据文件
// 文件中是连续排列的 Record, 没有文件头和文件尾
type LogFile struct {
	WriteOff  int64         // 文件写到了哪个位置, 即下一条记录的起始偏移
	IoManager fio.IOManager // 数据读写接口
}

// OpenLogFile 打开日志文件, 文件不存在则创建
func OpenLogFile(fileName string, ioType fio.FileIOType) (*LogFile, error) {
	ioManager, err := fio.NewIOManager(fileName, ioType)
	if err != nil {
		return nil, err
	}
	size, err := ioManager.Size()
	if err != nil {
		_ = ioManager.Close()
		return nil, err
	}
	return &LogFile{WriteOff: size, IoManager: ioManager}, nil
}

// ReadRecord 根据 offset 读取一条记录, 返回记录及其在磁盘上的总长度
// 头部未读完返回 io.EOF, 这是扫描到文件末尾的正常信号
// 头部完整而数据不足返回 ErrMalformedRecord
// crc 校验失败返回 *CorruptionError
func (lf *LogFile) ReadRecord(offset int64) (*Record, int64, error) {
	headerBuf := make([]byte, HeaderSize)
	if _, err := lf.IoManager.Read(headerBuf, offset); err != nil {
		if err == io.EOF {
			return nil, 0, io.EOF
		}
		return nil, 0, err
	}

	header := decodeRecordHeader(headerBuf)
	bodySize := int64(header.keySize) + int64(header.valueSize)

	body := make([]byte, bodySize)
	if bodySize > 0 {
		if _, err := lf.IoManager.Read(body, offset+HeaderSize); err != nil {
			if err == io.EOF {
				// 头部承诺的数据长度没有被完整写入, 和干净的文件末尾不是一回事
				return nil, 0, ErrMalformedRecord
			}
			return nil, 0, err
		}
	}

	if crc := crc32.ChecksumIEEE(body); crc != header.crc {
		return nil, 0, &CorruptionError{Want: header.crc, Got: crc}
	}

	record := &Record{
		Key:   body[:header.keySize],
		Value: body[header.keySize:],
	}
	return record, HeaderSize + bodySize, nil
}

// Write 追加字节数组到日志文件末尾
func (lf *LogFile) Write(buf []byte) error {
	n, err := lf.IoManager.Write(buf)
	if err != nil {
		return err
	}
	lf.WriteOff += int64(n)
	return nil
}

// Sync 持久化日志文件到磁盘
func (lf *LogFile) Sync() error {
	return lf.IoManager.Sync()
}

// Close 关闭日志文件
func (lf *LogFile) Close() error {
	return lf.IoManager.Close()
}

// SetIOManager 重置文件的 IO 类型
func (lf *LogFile) SetIOManager(fileName string, ioType fio.FileIOType) error {
	if err := lf.IoManager.Close(); err != nil {
		return err
	}
	ioManager, err := fio.NewIOManager(fileName, ioType)
	if err != nil {
		return err
	}
	lf.IoManager = ioManager
	return nil
}
