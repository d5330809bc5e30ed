package db

// Getter wraps the read methods of the database.
type Getter interface {
	// Get retrieves the value of the key from the bucket, a nil
	// value with a nil error means the key does not exist.
	Get(bucket string, key []byte) ([]byte, error)
	// GetAll retrieves the values of all the keys with the
	// supplied prefix from the bucket.
	GetAll(bucket string, keyPrefix []byte) ([][]byte, error)
}

// Putter wraps the write methods of the database.
type Putter interface {
	Put(bucket string, key, value []byte) error
	Delete(bucket string, key []byte) error
}

// Tx is a writable database transaction which buffers a group of
// reads and writes so that they can be committed or discarded as
// one unit.
type Tx interface {
	Getter
	Putter
	Commit() error
	Rollback() error
}

// Database is the generic interface with which every database
// backend should comply.
type Database interface {
	Getter
	Putter
	NewBucket(name string) error
	Begin() (Tx, error)
	Close() error
}
