package benchmark

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	simplekv "github.com/ozerovandrei/simplekv"
	"github.com/ozerovandrei/simplekv/utils"
)

var db *simplekv.DB

func init() {
	// 初始化用于基准测试的存储引擎
	var err error
	options := simplekv.DefaultOptions
	dir, _ := os.MkdirTemp("", "simplekv-benchmark")
	options.FilePath = filepath.Join(dir, "simplekv.data")
	db, err = simplekv.Open(options)
	if err != nil {
		panic(fmt.Sprintf("failed to open db: %v", err))
	}
}

func Benchmark_Insert(b *testing.B) {
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := db.Insert(utils.GetTestKey(i), utils.RandomValue(1024))
		assert.Nil(b, err)
	}
}

func Benchmark_Get(b *testing.B) {
	for i := 0; i < 100000; i++ {
		_, err := db.Insert(utils.GetTestKey(i), utils.RandomValue(1024))
		assert.Nil(b, err)
	}

	rand.Seed(time.Now().Unix())
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := db.Get(utils.GetTestKey(rand.Int()))
		if err != nil && !errors.Is(err, simplekv.ErrKeyNotFound) {
			b.Fatal(err)
		}
	}
}

func Benchmark_Delete(b *testing.B) {
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := db.Delete(utils.GetTestKey(rand.Int()))
		assert.Nil(b, err)
	}
}
