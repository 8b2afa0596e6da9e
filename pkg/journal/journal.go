/*
Package journal keeps a local record of transactions sent by the operation
commands. Records are stored in a single BoltDB bucket keyed by a monotonic
sequence number, so listing returns them in submission order.
*/
package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"go.etcd.io/bbolt"
)

// Bucket is the BoltDB bucket holding journal records.
var Bucket = []byte("txs")

// ErrClosed is returned for operations on a closed journal.
var ErrClosed = errors.New("journal is closed")

// Record describes a single sent transaction.
type Record struct {
	Program   string
	Method    string
	Hash      util.Uint256
	State     vmstate.State
	Exception string
	Time      time.Time
}

// Journal is a BoltDB-backed transaction journal.
type Journal struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the journal file at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("could not create dir for journal: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(Bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not create journal bucket: %w", err)
	}
	return &Journal{db: db}, nil
}

// Put appends the record to the journal.
func (j *Journal) Put(r Record) error {
	if j.db == nil {
		return ErrClosed
	}
	w := io.NewBufBinWriter()
	r.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return w.Err
	}
	data := w.Bytes()
	return j.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(Bucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, data)
	})
}

// List returns up to limit most recent records in submission order, all of
// them if limit is not positive.
func (j *Journal) List(limit int) ([]Record, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	var res []Record
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(Bucket).Cursor()
		for k, v := c.Last(); k != nil && (limit <= 0 || len(res) < limit); k, v = c.Prev() {
			var r Record
			br := io.NewBinReaderFromBuf(v)
			r.DecodeBinary(br)
			if br.Err != nil {
				return fmt.Errorf("record %x: %w", k, br.Err)
			}
			res = append(res, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, k := 0, len(res)-1; i < k; i, k = i+1, k-1 {
		res[i], res[k] = res[k], res[i]
	}
	return res, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// EncodeBinary implements io.Serializable.
func (r *Record) EncodeBinary(w *io.BinWriter) {
	w.WriteString(r.Program)
	w.WriteString(r.Method)
	w.WriteBytes(r.Hash[:])
	w.WriteB(byte(r.State))
	w.WriteString(r.Exception)
	w.WriteU64LE(uint64(r.Time.UnixMilli()))
}

// DecodeBinary implements io.Serializable.
func (r *Record) DecodeBinary(br *io.BinReader) {
	r.Program = br.ReadString()
	r.Method = br.ReadString()
	br.ReadBytes(r.Hash[:])
	r.State = vmstate.State(br.ReadB())
	r.Exception = br.ReadString()
	r.Time = time.UnixMilli(int64(br.ReadU64LE()))
}
