package data

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeRecord(t *testing.T) {
	// 正常情况
	record1 := &Record{
		Key:   []byte("name"),
		Value: []byte("simplekv"),
	}
	buf1, n1 := EncodeRecord(record1)
	assert.NotNil(t, buf1)
	assert.Equal(t, int64(HeaderSize+12), n1)
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(buf1[4:8]))
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(buf1[8:12]))
	assert.Equal(t, []byte("name"), buf1[HeaderSize:HeaderSize+4])
	assert.Equal(t, []byte("simplekv"), buf1[HeaderSize+4:])
	// crc 是对 key 和 value 拼接后的字节计算的
	assert.Equal(t, crc32.ChecksumIEEE(buf1[HeaderSize:]), binary.LittleEndian.Uint32(buf1[:4]))

	// value 为空的情况(墓碑记录)
	record2 := &Record{Key: []byte("name")}
	buf2, n2 := EncodeRecord(record2)
	assert.Equal(t, int64(HeaderSize+4), n2)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf2[8:12]))
	assert.Equal(t, crc32.ChecksumIEEE(buf2[HeaderSize:]), binary.LittleEndian.Uint32(buf2[:4]))

	// key 为空的情况
	record3 := &Record{Value: []byte("simplekv")}
	buf3, n3 := EncodeRecord(record3)
	assert.Equal(t, int64(HeaderSize+8), n3)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf3[4:8]))
}

func TestDecodeRecordHeader(t *testing.T) {
	record := &Record{
		Key:   []byte("name"),
		Value: []byte("simplekv"),
	}
	buf, _ := EncodeRecord(record)

	header := decodeRecordHeader(buf[:HeaderSize])
	assert.NotNil(t, header)
	assert.Equal(t, binary.LittleEndian.Uint32(buf[:4]), header.crc)
	assert.Equal(t, uint32(4), header.keySize)
	assert.Equal(t, uint32(8), header.valueSize)
}

func TestEncodeDecodeRecordPos(t *testing.T) {
	pos := &RecordPos{Offset: 1024, Size: 99}
	buf := EncodeRecordPos(pos)
	assert.NotNil(t, buf)

	decoded := DecodeRecordPos(buf)
	assert.Equal(t, pos.Offset, decoded.Offset)
	assert.Equal(t, pos.Size, decoded.Size)

	// 偏移为 0 的记录也要能正确编解码
	pos2 := &RecordPos{Offset: 0, Size: HeaderSize}
	decoded2 := DecodeRecordPos(EncodeRecordPos(pos2))
	assert.Equal(t, pos2.Offset, decoded2.Offset)
	assert.Equal(t, pos2.Size, decoded2.Size)
}
