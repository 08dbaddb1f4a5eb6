// Copyright 2021 Google LLC
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

package idx

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"time"
	"unsafe"

	"github.com/gofrs/flock"
)

// oftMagic is the .oft cache file's 30-byte magic prefix.
const oftMagic = "StarDict's Cache, Version: 0.2"

// oftSentinel follows the magic as a host-endian u32 guard value.
const oftSentinel = uint32(0x51a4d1c1)

// nativeEndian is the host byte order, used because the .oft cache is
// written and read back on the same machine and never shared across
// architectures.
var nativeEndian = detectNativeEndian()

func detectNativeEndian() binary.ByteOrder {
	var x uint16 = 0x1
	b := *(*[2]byte)(unsafe.Pointer(&x))
	if b[0] == 0x1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// oftCandidatePaths returns the two cache paths tried in order: a sidecar
// next to the .idx file itself, then a per-user cache directory fallback.
func oftCandidatePaths(idxPath string) []string {
	paths := []string{idxPath + ".oft"}
	if dir, err := os.UserCacheDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "sdcv", filepath.Base(idxPath)+".oft"))
	}
	return paths
}

// loadOftCache tries each candidate cache path in turn and returns the
// page-offset table from the first one that is present, fresh (mtime not
// older than idxModTime) and well-formed.
func loadOftCache(idxPath string, idxModTime time.Time, npages int) ([]uint32, bool) {
	for _, path := range oftCandidatePaths(idxPath) {
		if offsets, ok := tryLoadOftCache(path, idxModTime, npages); ok {
			return offsets, true
		}
	}
	return nil, false
}

func tryLoadOftCache(path string, idxModTime time.Time, npages int) ([]uint32, bool) {
	fi, err := os.Stat(path)
	if err != nil || fi.ModTime().Before(idxModTime) {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	want := len(oftMagic) + 4 + npages*4
	if len(data) != want {
		return nil, false
	}
	if string(data[:len(oftMagic)]) != oftMagic {
		return nil, false
	}
	if nativeEndian.Uint32(data[len(oftMagic):len(oftMagic)+4]) != oftSentinel {
		return nil, false
	}

	body := data[len(oftMagic)+4:]
	offsets := make([]uint32, npages)
	for i := range offsets {
		offsets[i] = nativeEndian.Uint32(body[i*4:])
	}
	return offsets, true
}

// saveOftCache writes offsets to the primary cache path next to idxPath,
// falling back to the user-cache-dir location (creating its sdcv
// directory, mode 0700, if necessary) when the sidecar path is not
// writable, e.g. a read-only dictionary install directory. A failure here
// is never fatal: the index already has the offsets it needs in memory,
// so the cache is purely an optimization for the next load. Concurrent
// writers are serialized with a sibling lock file so a half-written cache
// is never read back.
func saveOftCache(idxPath string, offsets []uint32) {
	if writeOftCache(idxPath+".oft", offsets) {
		return
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return
	}
	sdcvDir := filepath.Join(dir, "sdcv")
	if err := os.MkdirAll(sdcvDir, 0o700); err != nil {
		return
	}
	writeOftCache(filepath.Join(sdcvDir, filepath.Base(idxPath)+".oft"), offsets)
}

func writeOftCache(path string, offsets []uint32) bool {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil || !locked {
		return false
	}
	defer lock.Unlock()

	data := make([]byte, len(oftMagic)+4+len(offsets)*4)
	copy(data, oftMagic)
	nativeEndian.PutUint32(data[len(oftMagic):], oftSentinel)
	body := data[len(oftMagic)+4:]
	for i, o := range offsets {
		nativeEndian.PutUint32(body[i*4:], o)
	}

	return os.WriteFile(path, data, 0o600) == nil
}
