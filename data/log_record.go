package data

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

// HeaderSize 记录头部的固定长度: crc(4) + keySize(4) + valueSize(4)
const HeaderSize = 12

// ErrMalformedRecord 头部声明的数据长度超出了文件实际内容
var ErrMalformedRecord = errors.New("record body is shorter than the header declared")

// CorruptionError 记录的 crc 校验失败, 携带保存值和实际计算值用于诊断
type CorruptionError struct {
	Want uint32 // 头部中保存的 crc
	Got  uint32 // 根据 key 和 value 重新计算的 crc
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("data corruption encountered (%08x != %08x)", e.Got, e.Want)
}

// Record 写入到日志文件的记录
// 日志文件中的数据是追加写入的, 记录一旦写入便不会原地修改
type Record struct {
	Key   []byte
	Value []byte
}

// recordHeader Record 头部信息
type recordHeader struct {
	crc       uint32 // crc 校验值
	keySize   uint32 // key 的长度
	valueSize uint32 // value 的长度
}

// RecordPos 数据内存索引, 主要描述数据在日志文件中的位置
type RecordPos struct {
	Offset int64  // 偏移量, 表示记录在文件中的起始位置
	Size   uint32 // 记录在磁盘上的总长度
}

// EncodeRecord 对 Record 进行编码, 返回字节数组及长度
//
//	+------------+------------+--------------+---------------+-----------------+
//	| crc 校验值 |  key 长度  |  value 长度  |      key      |      value      |
//	+------------+------------+--------------+---------------+-----------------+
//	   4 字节       4 字节        4 字节       keySize 字节    valueSize 字节
//
// 所有整数均为小端序, crc 是对 key 和 value 拼接后的字节计算的 CRC-32/IEEE
func EncodeRecord(record *Record) ([]byte, int64) {
	size := HeaderSize + len(record.Key) + len(record.Value)
	buf := make([]byte, size)

	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(record.Key)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(record.Value)))
	copy(buf[HeaderSize:], record.Key)
	copy(buf[HeaderSize+len(record.Key):], record.Value)

	crc := crc32.ChecksumIEEE(buf[HeaderSize:])
	binary.LittleEndian.PutUint32(buf[:4], crc)

	return buf, int64(size)
}

// decodeRecordHeader 对字节数组中的头部信息进行解码
func decodeRecordHeader(buf []byte) *recordHeader {
	return &recordHeader{
		crc:       binary.LittleEndian.Uint32(buf[:4]),
		keySize:   binary.LittleEndian.Uint32(buf[4:8]),
		valueSize: binary.LittleEndian.Uint32(buf[8:12]),
	}
}

// EncodeRecordPos 对位置信息进行编码
func EncodeRecordPos(pos *RecordPos) []byte {
	buf := make([]byte, binary.MaxVarintLen64+binary.MaxVarintLen32)
	var index = 0
	index += binary.PutVarint(buf[index:], pos.Offset)
	index += binary.PutVarint(buf[index:], int64(pos.Size))
	return buf[:index]
}

// DecodeRecordPos 解码位置信息
func DecodeRecordPos(buf []byte) *RecordPos {
	var index = 0
	offset, n := binary.Varint(buf[index:])
	index += n
	size, _ := binary.Varint(buf[index:])
	return &RecordPos{Offset: offset, Size: uint32(size)}
}
