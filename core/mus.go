package core

import (
	"fmt"
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// IDMUS serializes IDs for storage keys and index values.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// DocumentChunkMUS serializes document chunks for the storage backend.
// Vectors are encoded element-wise as float32 bit patterns; timestamps
// as Unix microseconds.
var DocumentChunkMUS = documentChunkMUS{}

type documentChunkMUS struct{}

func (documentChunkMUS) Marshal(c DocumentChunk, bs []byte) (n int) {
	n = IDMUS.Marshal(c.Id, bs)
	n += ord.String.Marshal(c.Document, bs[n:])
	n += varint.Int.Marshal(c.Seq, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += varint.Int.Marshal(len(c.Vector), bs[n:])
	for _, v := range c.Vector {
		n += varint.Uint32.Marshal(math.Float32bits(v), bs[n:])
	}
	n += varint.Int64.Marshal(c.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (documentChunkMUS) Unmarshal(bs []byte) (c DocumentChunk, n int, err error) {
	var m int
	c.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	c.Document, m, err = ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	c.Seq, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	c.Text, m, err = ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}

	var count int
	count, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	if count < 0 {
		err = fmt.Errorf("invalid vector length %d", count)
		return
	}
	if count > 0 {
		c.Vector = make([]float32, count)
		for i := range c.Vector {
			var bits uint32
			bits, m, err = varint.Uint32.Unmarshal(bs[n:])
			n += m
			if err != nil {
				return
			}
			c.Vector[i] = math.Float32frombits(bits)
		}
	}

	var micro int64
	micro, m, err = varint.Int64.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	c.InsertedAt = time.UnixMicro(micro).UTC()
	return
}

func (documentChunkMUS) Size(c DocumentChunk) (size int) {
	size = IDMUS.Size(c.Id)
	size += ord.String.Size(c.Document)
	size += varint.Int.Size(c.Seq)
	size += ord.String.Size(c.Text)
	size += varint.Int.Size(len(c.Vector))
	for _, v := range c.Vector {
		size += varint.Uint32.Size(math.Float32bits(v))
	}
	size += varint.Int64.Size(c.InsertedAt.UnixMicro())
	return size
}
