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
	"bytes"
	"container/list"
	"fmt"
	"io"
	"os"
)

// PageSize is the number of entries per page of an OffsetIndex.
const PageSize = 32

// firstKeyBufSize bounds the short read used to fetch just the first key
// of a page: the longest possible headword (255 bytes) plus its NUL
// terminator plus the widest trailer (a 64-bit offset and a 32-bit size).
const firstKeyBufSize = 256 + 12

// pageCacheSize is the number of pages kept in memory at once. The format
// requires only a single active page; this is a small enlargement that
// does not change observable lookup semantics, only how often pages are
// re-read from disk.
const pageCacheSize = 4

// OffsetIndex is a demand-paged .idx index: entries are read off disk a
// page (32 entries) at a time rather than held fully in memory, with a
// page-offset table and a handful of anchor keys cached to keep random
// lookups cheap.
type OffsetIndex struct {
	r             io.ReaderAt
	idxoffsetbits int
	cmp           func(string, string) int
	wordcount     int

	pageOffsets []uint32 // len dataPages+1, last slot is EOF

	first, last, middle, realLast *Word

	cache *pageCache
}

// OffsetIndexOptions configures OpenOffsetIndex.
type OffsetIndexOptions struct {
	// OffsetBits is the width of the offset field: 32 or 64.
	OffsetBits int
}

// OpenOffsetIndex opens idxPath as a demand-paged index of wordcount
// entries. It tries to load a fresh page-offset cache (the .oft file) and
// falls back to scanning the whole file once to build one, saving it for
// next time.
func OpenOffsetIndex(idxPath string, wordcount int, cmp func(string, string) int, opts *OffsetIndexOptions) (*OffsetIndex, error) {
	if opts == nil {
		opts = &OffsetIndexOptions{OffsetBits: 32}
	}

	f, err := os.Open(idxPath)
	if err != nil {
		return nil, fmt.Errorf("idx: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("idx: %w", err)
	}

	o := &OffsetIndex{
		r:             f,
		idxoffsetbits: opts.OffsetBits,
		cmp:           cmp,
		wordcount:     wordcount,
		cache:         newPageCache(pageCacheSize),
	}

	npages := dataPageCount(wordcount) + 1
	if offsets, ok := loadOftCache(idxPath, fi.ModTime(), npages); ok {
		o.pageOffsets = offsets
	} else {
		offsets, err := buildPageOffsets(f, wordcount, opts.OffsetBits)
		if err != nil {
			f.Close()
			return nil, err
		}
		o.pageOffsets = offsets
		saveOftCache(idxPath, offsets)
	}

	if err := o.loadAnchors(); err != nil {
		f.Close()
		return nil, err
	}

	return o, nil
}

// NewOffsetIndex builds an OffsetIndex directly from an already-open
// reader and a precomputed page-offset table, bypassing the .oft cache
// machinery. Used by tests and by callers with their own caching policy.
func NewOffsetIndex(r io.ReaderAt, wordcount int, pageOffsets []uint32, cmp func(string, string) int, opts *OffsetIndexOptions) (*OffsetIndex, error) {
	if opts == nil {
		opts = &OffsetIndexOptions{OffsetBits: 32}
	}
	o := &OffsetIndex{
		r:             r,
		idxoffsetbits: opts.OffsetBits,
		cmp:           cmp,
		wordcount:     wordcount,
		pageOffsets:   pageOffsets,
		cache:         newPageCache(pageCacheSize),
	}
	if err := o.loadAnchors(); err != nil {
		return nil, err
	}
	return o, nil
}

func dataPageCount(wordcount int) int {
	return (wordcount + PageSize - 1) / PageSize
}

// buildPageOffsets scans r sequentially to produce the page-offset table:
// the byte position of every 32nd entry boundary, plus a final slot for
// EOF.
func buildPageOffsets(r io.Reader, wordcount, idxoffsetbits int) ([]uint32, error) {
	npages := dataPageCount(wordcount) + 1
	offsets := make([]uint32, 0, npages)
	offsets = append(offsets, 0)

	s, err := NewScanner(r, &ScannerOptions{OffsetBits: idxoffsetbits})
	if err != nil {
		return nil, err
	}

	var pos uint32
	count := 0
	for s.Scan() {
		pos += uint32(len(s.s.Bytes()))
		count++
		if count%PageSize == 0 {
			offsets = append(offsets, pos)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("idx: %w", err)
	}
	if count != wordcount {
		return nil, fmt.Errorf("idx: wordcount mismatch: .ifo says %d, .idx has %d", wordcount, count)
	}

	if len(offsets) < npages {
		offsets = append(offsets, pos)
	}
	return offsets, nil
}

// Len returns the number of entries in the index.
func (o *OffsetIndex) Len() int {
	return o.wordcount
}

func (o *OffsetIndex) dataPages() int {
	return len(o.pageOffsets) - 1
}

func (o *OffsetIndex) loadAnchors() error {
	if o.dataPages() == 0 {
		return nil
	}

	first, err := o.readFirstOnPage(0)
	if err != nil {
		return err
	}
	o.first = first

	lastPage := o.dataPages() - 1
	last, err := o.readFirstOnPage(lastPage)
	if err != nil {
		return err
	}
	o.last = last

	middle, err := o.readFirstOnPage(o.middlePage())
	if err != nil {
		return err
	}
	o.middle = middle

	lastEntries, err := o.loadPage(lastPage)
	if err != nil {
		return err
	}
	if len(lastEntries) == 0 {
		return fmt.Errorf("idx: final page is empty")
	}
	o.realLast = lastEntries[len(lastEntries)-1]

	return nil
}

func (o *OffsetIndex) middlePage() int {
	return (o.dataPages() - 1) / 2
}

// readFirstOnPage reads just enough bytes from the front of page p to
// parse its first entry, without loading (or caching) the whole page.
func (o *OffsetIndex) readFirstOnPage(p int) (*Word, error) {
	start := o.pageOffsets[p]
	end := o.pageOffsets[p+1]

	n := int64(firstKeyBufSize)
	if avail := int64(end - start); n > avail {
		n = avail
	}

	buf := make([]byte, n)
	read, err := o.r.ReadAt(buf, int64(start))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("idx: reading first key of page %d: %w", p, err)
	}
	buf = buf[:read]

	s, err := NewScanner(bytes.NewReader(buf), &ScannerOptions{OffsetBits: o.idxoffsetbits})
	if err != nil {
		return nil, err
	}
	if !s.Scan() {
		return nil, fmt.Errorf("idx: page %d has no entries", p)
	}
	return s.Word(), nil
}

// getFirstOnPageKey returns the first entry of page p, using the cached
// anchors when p is one of the three anchor pages to avoid a read.
func (o *OffsetIndex) getFirstOnPageKey(p int) (*Word, error) {
	switch p {
	case 0:
		return o.first, nil
	case o.dataPages() - 1:
		return o.last, nil
	case o.middlePage():
		return o.middle, nil
	default:
		return o.readFirstOnPage(p)
	}
}

// loadPage returns the entries of page p, from cache if present.
func (o *OffsetIndex) loadPage(p int) ([]*Word, error) {
	if entries, ok := o.cache.get(p); ok {
		return entries, nil
	}

	start := o.pageOffsets[p]
	end := o.pageOffsets[p+1]
	buf := make([]byte, end-start)
	if _, err := o.r.ReadAt(buf, int64(start)); err != nil {
		return nil, fmt.Errorf("idx: reading page %d: %w", p, err)
	}

	s, err := NewScanner(bytes.NewReader(buf), &ScannerOptions{OffsetBits: o.idxoffsetbits})
	if err != nil {
		return nil, err
	}
	var entries []*Word
	for s.Scan() {
		entries = append(entries, s.Word())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("idx: parsing page %d: %w", p, err)
	}

	o.cache.put(p, entries)
	return entries, nil
}

// wordAt returns the entry at absolute position pos (0-based, across the
// whole index, not just a single page).
func (o *OffsetIndex) wordAt(pos int) (*Word, error) {
	entries, err := o.loadPage(pos / PageSize)
	if err != nil {
		return nil, err
	}
	idx := pos % PageSize
	if idx >= len(entries) {
		return nil, fmt.Errorf("idx: position %d out of range", pos)
	}
	return entries[idx], nil
}

// findPage locates, via binary search over page first-keys, the page
// whose first key equals query (exact hit) or the last page whose first
// key precedes query. page is -1 if query is less than every page's first
// key (the caller is expected to have already ruled this out via the
// `first` anchor).
func (o *OffsetIndex) findPage(query string) (page int, firstKeyEqual bool, err error) {
	lo, hi := 0, o.dataPages()-1
	result := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		key, err := o.getFirstOnPageKey(mid)
		if err != nil {
			return 0, false, err
		}
		c := o.cmp(query, key.Word)
		switch {
		case c == 0:
			return mid, true, nil
		case c < 0:
			hi = mid - 1
		default:
			result = mid
			lo = mid + 1
		}
	}
	return result, false, nil
}

// searchPage binary searches within an already-loaded page's entries for
// query, returning its in-page index and whether it was found; on a miss
// the index is the in-page insertion point.
func searchPage(entries []*Word, query string, cmp func(string, string) int) (idx int, found bool) {
	lo, hi := 0, len(entries)
	for lo < hi {
		mid := (lo + hi) / 2
		c := cmp(query, entries[mid].Word)
		switch {
		case c == 0:
			return mid, true
		case c < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	return lo, false
}

// Lookup performs the two-stage binary search described by the format: an
// outer search over page first-keys, then an inner search within the
// located page, then a walk across page boundaries to collect every
// entry equal to query.
func (o *OffsetIndex) Lookup(query string) (indices []int, nextIdx int, found bool, err error) {
	if o.dataPages() == 0 {
		return nil, InvalidIndex, false, nil
	}

	if o.cmp(query, o.first.Word) < 0 {
		return nil, 0, false, nil
	}
	if o.cmp(query, o.realLast.Word) > 0 {
		return nil, InvalidIndex, false, nil
	}

	page, pageFirstEqual, err := o.findPage(query)
	if err != nil {
		return nil, 0, false, err
	}
	if page < 0 {
		return nil, 0, false, nil
	}

	entries, err := o.loadPage(page)
	if err != nil {
		return nil, 0, false, err
	}

	var innerIdx int
	var innerFound bool
	if pageFirstEqual {
		innerIdx, innerFound = 0, true
	} else {
		innerIdx, innerFound = searchPage(entries, query, o.cmp)
	}

	if !innerFound {
		return nil, page*PageSize + innerIdx, false, nil
	}

	matchPos := page*PageSize + innerIdx
	indices, err = o.collectEquals(matchPos, query)
	if err != nil {
		return nil, 0, false, err
	}
	return indices, matchPos, true, nil
}

// collectEquals walks outward from matchPos across page boundaries,
// collecting every position whose key equals query.
func (o *OffsetIndex) collectEquals(matchPos int, query string) ([]int, error) {
	lo := matchPos
	for lo > 0 {
		w, err := o.wordAt(lo - 1)
		if err != nil {
			return nil, err
		}
		if o.cmp(query, w.Word) != 0 {
			break
		}
		lo--
	}

	hi := matchPos + 1
	for hi < o.wordcount {
		w, err := o.wordAt(hi)
		if err != nil {
			return nil, err
		}
		if o.cmp(query, w.Word) != 0 {
			break
		}
		hi++
	}

	indices := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		indices = append(indices, i)
	}
	return indices, nil
}

// At returns the entry at absolute position i, for iteration (pattern
// and fuzzy lookups walk every headword).
func (o *OffsetIndex) At(i int) (*Word, error) {
	return o.wordAt(i)
}

// Close releases the underlying file, if OpenOffsetIndex opened one.
func (o *OffsetIndex) Close() error {
	if c, ok := o.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// pageCache is a small fixed-capacity LRU of decoded pages.
type pageCache struct {
	capacity int
	ll       *list.List
	items    map[int]*list.Element
}

type pageCacheEntry struct {
	page    int
	entries []*Word
}

func newPageCache(capacity int) *pageCache {
	return &pageCache{
		capacity: capacity,
		ll:       list.New(),
		items:    map[int]*list.Element{},
	}
}

func (c *pageCache) get(page int) ([]*Word, bool) {
	el, ok := c.items[page]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*pageCacheEntry).entries, true
}

func (c *pageCache) put(page int, entries []*Word) {
	if el, ok := c.items[page]; ok {
		el.Value.(*pageCacheEntry).entries = entries
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&pageCacheEntry{page: page, entries: entries})
	c.items[page] = el
	if c.ll.Len() > c.capacity {
		back := c.ll.Back()
		if back != nil {
			c.ll.Remove(back)
			delete(c.items, back.Value.(*pageCacheEntry).page)
		}
	}
}
