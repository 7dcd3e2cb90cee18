// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/qamatch/core"
)

// Layout: varint ID, varint CreatedAt (unix micro), varint length, then
// length little endian float32 values.

// MarshalCachedVector serializes a CachedVector to bytes.
func MarshalCachedVector(v *core.CachedVector) []byte {
	id := uint64(v.ID)
	created := v.CreatedAt.UnixMicro()
	length := uint64(len(v.Vector))

	size := varint.Uint64.Size(id) + varint.Int64.Size(created) + varint.Uint64.Size(length)
	for _, f := range v.Vector {
		size += raw.Float32.Size(f)
	}

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(id, buf)
	n += varint.Int64.Marshal(created, buf[n:])
	n += varint.Uint64.Marshal(length, buf[n:])
	for _, f := range v.Vector {
		n += raw.Float32.Marshal(f, buf[n:])
	}
	return buf
}

// UnmarshalCachedVector deserializes a CachedVector from bytes.
func UnmarshalCachedVector(data []byte) (*core.CachedVector, error) {
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	off := n

	created, n, err := varint.Int64.Unmarshal(data[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: created_at: %w", ErrSerializationFailed, err)
	}
	off += n

	length, n, err := varint.Uint64.Unmarshal(data[off:])
	if err != nil {
		return nil, fmt.Errorf("%w: length: %w", ErrSerializationFailed, err)
	}
	off += n

	if remaining := uint64(len(data) - off); remaining%4 != 0 || length != remaining/4 {
		return nil, fmt.Errorf("%w: %d values in %d bytes", ErrTruncatedData, length, remaining)
	}

	vec := make([]float32, length)
	for i := range vec {
		vec[i], n, err = raw.Float32.Unmarshal(data[off:])
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %w", ErrSerializationFailed, i, err)
		}
		off += n
	}

	return &core.CachedVector{
		ID:        core.ID(id),
		Vector:    vec,
		CreatedAt: time.UnixMicro(created).UTC(),
	}, nil
}
