// Copyright 2026 The go-tokenledger Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package boltdb

import (
	"bytes"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/tokenledger/go-tokenledger/db"
)

type boltdb struct {
	db *bolt.DB
}

// Open opens a boltdb instance in the specified path. The instance
// can be shared by multiple goroutines of the same process, BoltDB
// obtains a file lock on the data file so multiple processes cannot
// open the same database at the same time.
func Open(path string) (db.Database, error) {
	bt, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open boltdb in %s failed: %v", path, err)
	}
	return &boltdb{db: bt}, nil
}

func (bt *boltdb) NewBucket(name string) error {
	if name == "" {
		return fmt.Errorf("bucket name is empty")
	}
	if err := bt.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	}); err != nil {
		return err
	}
	return nil
}

// Put writes the key/value pair to the bucket.
func (bt *boltdb) Put(bucket string, key, value []byte) error {
	if err := bt.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket %s not exist", bucket)
		}
		return b.Put(key, value)
	}); err != nil {
		return err
	}
	return nil
}

// Delete deletes the key from the bucket.
func (bt *boltdb) Delete(bucket string, key []byte) error {
	if err := bt.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket %s not exist", bucket)
		}
		return b.Delete(key)
	}); err != nil {
		return err
	}
	return nil
}

// Get retrieves the value of the key from the bucket.
func (bt *boltdb) Get(bucket string, key []byte) ([]byte, error) {
	var val []byte
	if err := bt.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket %s not exist", bucket)
		}
		if v := b.Get(key); v != nil {
			val = append(val, v...)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return val, nil
}

// GetAll retrieves the values of the keys with prefix from the bucket.
func (bt *boltdb) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	var vals [][]byte
	if err := bt.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket %s not exist", bucket)
		}
		c := b.Cursor()
		for k, v := c.Seek(keyPrefix); k != nil && bytes.HasPrefix(k, keyPrefix); k, v = c.Next() {
			val := append([]byte(nil), v...)
			vals = append(vals, val)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return vals, nil
}

// Close closes the underlying database.
func (bt *boltdb) Close() error {
	if bt.db != nil {
		return bt.db.Close()
	}
	return nil
}

// Begin returns a writable database transaction object which can
// be used for manually managing the transaction.
func (bt *boltdb) Begin() (db.Tx, error) {
	tx, err := bt.db.Begin(true)
	if err != nil {
		return nil, err
	}
	return &boltdbTx{tx: tx}, nil
}

// boltdbTx wraps the boltdb transaction to provide the desired interface.
type boltdbTx struct {
	tx *bolt.Tx
}

func (btx *boltdbTx) Get(bucket string, key []byte) ([]byte, error) {
	b := btx.tx.Bucket([]byte(bucket))
	if b == nil {
		return nil, fmt.Errorf("bucket %s not exist", bucket)
	}
	var val []byte
	if v := b.Get(key); v != nil {
		val = append(val, v...)
	}
	return val, nil
}

func (btx *boltdbTx) GetAll(bucket string, keyPrefix []byte) ([][]byte, error) {
	b := btx.tx.Bucket([]byte(bucket))
	if b == nil {
		return nil, fmt.Errorf("bucket %s not exist", bucket)
	}
	var vals [][]byte
	c := b.Cursor()
	for k, v := c.Seek(keyPrefix); k != nil && bytes.HasPrefix(k, keyPrefix); k, v = c.Next() {
		val := append([]byte(nil), v...)
		vals = append(vals, val)
	}
	return vals, nil
}

func (btx *boltdbTx) Put(bucket string, key, value []byte) error {
	b := btx.tx.Bucket([]byte(bucket))
	if b == nil {
		return fmt.Errorf("bucket %s not exist", bucket)
	}
	return b.Put(key, value)
}

func (btx *boltdbTx) Delete(bucket string, key []byte) error {
	b := btx.tx.Bucket([]byte(bucket))
	if b == nil {
		return fmt.Errorf("bucket %s not exist", bucket)
	}
	return b.Delete(key)
}

func (btx *boltdbTx) Rollback() error {
	return btx.tx.Rollback()
}

func (btx *boltdbTx) Commit() error {
	return btx.tx.Commit()
}
