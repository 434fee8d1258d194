package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	simplekv "github.com/ozerovandrei/simplekv"
)

const usage = `Usage:
    skv FILE get KEY
    skv FILE delete KEY
    skv FILE insert KEY VALUE
    skv FILE update KEY VALUE
    skv FILE find KEY
`

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

	switch action {
	case "get":
		value, err := db.Get([]byte(key))
		if errors.Is(err, simplekv.ErrKeyNotFound) {
			fmt.Fprintf(os.Stderr, "%q not found\n", key)
			return
		}
		if err != nil {
			log.Fatalf("unable to get %q: %v", key, err)
		}
		fmt.Printf("%s\n", value)
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
	case "find":
		offset, value, err := db.Find([]byte(key))
		if errors.Is(err, simplekv.ErrKeyNotFound) {
			fmt.Fprintf(os.Stderr, "%q not found\n", key)
			return
		}
		if err != nil {
			log.Fatalf("unable to find %q: %v", key, err)
		}
		fmt.Printf("%d %s\n", offset, value)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}
