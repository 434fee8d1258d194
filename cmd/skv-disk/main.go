package main

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log"
	"os"

	simplekv "github.com/ozerovandrei/simplekv"
)

const usage = `Usage:
    skv-disk FILE get KEY
    skv-disk FILE delete KEY
    skv-disk FILE insert KEY VALUE
    skv-disk FILE update KEY VALUE
`

// indexKey 保留 key, 索引快照以普通记录的形式存储在这个 key 下
// 对引擎来说它只是一个普通的 key, 没有任何特殊处理
const indexKey = "+index"

// storeIndexOnDisk 把当前索引的快照序列化后写回存储引擎本身
func storeIndexOnDisk(db *simplekv.DB) error {
	snapshot := make(map[string]int64)

	it := db.NewIterator(simplekv.DefaultIteratorOptions)
	for it.Rewind(); it.Valid(); it.Next() {
		if string(it.Key()) == indexKey {
			continue
		}
		snapshot[string(it.Key())] = it.Offset()
	}
	it.Close()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snapshot); err != nil {
		return err
	}
	_, err := db.Insert([]byte(indexKey), buf.Bytes())
	return err
}

func main() {
	if len(os.Args) < 4 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	fname, action, key := os.Args[1], os.Args[2], os.Args[3]

	opts := simplekv.DefaultOptions
	opts.FilePath = fname
	db, err := simplekv.Open(opts)
	if err != nil {
		log.Fatalf("unable to open %s: %v", fname, err)
	}
	defer db.Close()

	if err := storeIndexOnDisk(db); err != nil {
		log.Fatalf("unable to store index: %v", err)
	}

	switch action {
	case "get":
		data, err := db.Get([]byte(indexKey))
		if err != nil {
			log.Fatalf("unable to read the stored index: %v", err)
		}

		// 把磁盘上的索引快照还原成内存结构
		snapshot := make(map[string]int64)
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snapshot); err != nil {
			log.Fatalf("unable to decode the stored index: %v", err)
		}

		offset, ok := snapshot[key]
		if !ok {
			fmt.Fprintf(os.Stderr, "%q not found\n", key)
			return
		}
		fmt.Printf("%d\n", offset)
	case "delete":
		if _, err := db.Delete([]byte(key)); err != nil {
			log.Fatalf("unable to delete %q: %v", key, err)
		}
	case "insert", "update":
		if len(os.Args) < 5 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
		value := os.Args[4]
		if _, err := db.Insert([]byte(key), []byte(value)); err != nil {
			log.Fatalf("unable to %s %q: %v", action, key, err)
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}
