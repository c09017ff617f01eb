// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package sliceedit queues edits over a byte slice with rsc.io/edit and
// applies all of them in a single pass.
package sliceedit

import (
	"bytes"

	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
// The original slice is never modified.
type Buffer struct {
	ed  *edit.Buffer
	buf []byte
}

// NewBuffer returns a new buffer to accumulate changes to data.
// The caller must not modify data until the Buffer is done being used.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{
		ed:  edit.NewBuffer(data),
		buf: data,
	}
}

// FindAll returns the offsets of all non-overlapping instances of item in buf.
func FindAll(buf []byte, item string) []int {
	found := []int{}

	if len(item) == 0 {
		return found
	}

	offset := 0
	for {
		i := bytes.Index(buf[offset:], []byte(item))
		if i == -1 {
			return found
		}
		found = append(found, offset+i)
		offset += i + len(item)
	}
}

// ReplaceAll queues the replacement of every instance of old with new
// and returns the number of replacements.
func (b *Buffer) ReplaceAll(old string, new string) int {
	return b.ReplaceAllFunc(old, new, nil)
}

// ReplaceAllFunc is like ReplaceAll but only replaces the instances whose offset
// satisfies keep. A nil keep replaces all of them.
func (b *Buffer) ReplaceAllFunc(old string, new string, keep func(offset int) bool) int {
	n := 0
	for _, hit := range FindAll(b.buf, old) {
		if keep != nil && !keep(hit) {
			continue
		}
		b.ed.Replace(hit, hit+len(old), new)
		n++
	}
	return n
}

// Bytes returns a new byte slice with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns the data with the queued edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}
