// Package texture is the image manager: a fixed-size slot table of
// decoded images keyed by name and type, the format search that fills it,
// and the epoch sweep that empties it.
package texture

import (
	"fmt"
	"hash/fnv"

	"github.com/hashicorp/go-hclog"

	"q2images/internal/decode"
	"q2images/internal/vfs"
)

const (
	// DefaultMaxImages is the slot table capacity, placeholder included.
	DefaultMaxImages = 1024
	// DefaultFormats enables PNG, JPEG and TGA in that order.
	DefaultFormats = "pjt"

	numBuckets = 256
)

// Options configure a Manager.
type Options struct {
	FS       vfs.FS
	Uploader Uploader
	Logger   hclog.Logger

	// MaxImages defaults to DefaultMaxImages.
	MaxImages int
	// Formats is the high-color search order, e.g. "pjt". Empty disables
	// every high-color format.
	Formats string
	// Override tries high-color replacements even when the requested
	// file exists.
	Override bool

	// Fatal is called for unrecoverable conditions and must not return
	// normally. Defaults to panic.
	Fatal func(error)
}

// Manager owns the slot table. It is not safe for concurrent use.
type Manager struct {
	fs       vfs.FS
	uploader Uploader
	logger   hclog.Logger
	fatal    func(error)

	slots     []Image
	numImages int
	free      []Handle
	buckets   [numBuckets]Handle

	epoch    uint32
	formats  string
	search   []decode.Format
	override bool

	palette *decode.Palette
}

// New returns an initialized manager holding only the placeholder slot.
func New(opts Options) *Manager {
	m := &Manager{
		fs:       opts.FS,
		uploader: opts.Uploader,
		logger:   opts.Logger,
		fatal:    opts.Fatal,
		override: opts.Override,
	}
	if m.uploader == nil {
		m.uploader = nopUploader{}
	}
	if m.logger == nil {
		m.logger = hclog.NewNullLogger()
	}
	if m.fatal == nil {
		m.fatal = func(err error) { panic(err) }
	}
	capacity := opts.MaxImages
	if capacity <= 1 {
		capacity = DefaultMaxImages
	}
	m.slots = make([]Image, capacity)
	m.formats = opts.Formats
	m.search = decode.ParseSearchOrder(opts.Formats)
	m.epoch = 1
	m.Init()
	return m
}

// Init resets the table to the placeholder slot. Calling it on a table
// that was not shut down is fatal.
func (m *Manager) Init() {
	if m.numImages != 0 {
		m.fatal(fmt.Errorf("texture: init: %d images not freed", m.numImages))
		return
	}
	m.reset()
}

// Shutdown marks the table uninitialized. Call FreeAll first.
func (m *Manager) Shutdown() {
	m.numImages = 0
	m.free = m.free[:0]
}

func (m *Manager) reset() {
	for i := range m.buckets {
		m.buckets[i] = NoTexture
	}
	m.free = m.free[:0]
	m.slots[0] = Image{
		Name:         "*notexture",
		Flags:        Permanent,
		Width:        16,
		Height:       16,
		UploadWidth:  16,
		UploadHeight: 16,
		Registration: 1,
	}
	m.numImages = 1
}

// SetTextureFormats changes the high-color search order. The list is only
// rebuilt when s differs from the current string.
func (m *Manager) SetTextureFormats(s string) {
	if s == m.formats {
		return
	}
	m.formats = s
	m.search = decode.ParseSearchOrder(s)
	m.logger.Debug("texture search order changed", "formats", s, "order", m.search)
}

// SearchOrder returns the enabled high-color formats in probe order.
func (m *Manager) SearchOrder() []decode.Format {
	return append([]decode.Format(nil), m.search...)
}

// NumImages returns the slot high-water mark, placeholder included.
func (m *Manager) NumImages() int { return m.numImages }

// Capacity returns the fixed size of the slot table.
func (m *Manager) Capacity() int { return len(m.slots) }

// foldPath makes path bytes compare equal regardless of case and
// separator style.
func foldPath(c byte) byte {
	switch {
	case c >= 'A' && c <= 'Z':
		return c + ('a' - 'A')
	case c == '\\':
		return '/'
	}
	return c
}

func hashPath(name string, n int) uint8 {
	h := fnv.New32a()
	var b [1]byte
	for i := 0; i < n; i++ {
		b[0] = foldPath(name[i])
		h.Write(b[:])
	}
	return uint8(h.Sum32() % numBuckets)
}

func pathEqualFold(a, b string, n int) bool {
	for i := 0; i < n; i++ {
		if foldPath(a[i]) != foldPath(b[i]) {
			return false
		}
	}
	return true
}

// lookup finds a live slot by base name and type.
func (m *Manager) lookup(name string, typ Type, bucket uint8, baselen int) Handle {
	for h := m.buckets[bucket]; h != NoTexture; h = m.slots[h].next {
		img := &m.slots[h]
		if img.Type != typ || img.baselen != baselen {
			continue
		}
		if pathEqualFold(img.Name, name, baselen) {
			return h
		}
	}
	return NoTexture
}

// alloc takes a slot from the free list, or grows the high-water mark.
func (m *Manager) alloc() (Handle, bool) {
	if n := len(m.free); n > 0 {
		h := m.free[n-1]
		m.free = m.free[:n-1]
		return h, true
	}
	if m.numImages == len(m.slots) {
		return NoTexture, false
	}
	h := Handle(m.numImages)
	m.numImages++
	return h, true
}

func (m *Manager) link(h Handle) {
	img := &m.slots[h]
	img.next = m.buckets[img.bucket]
	m.buckets[img.bucket] = h
}

func (m *Manager) unlink(h Handle) {
	img := &m.slots[h]
	for p := &m.buckets[img.bucket]; *p != NoTexture; p = &m.slots[*p].next {
		if *p == h {
			*p = img.next
			return
		}
	}
}

// release unloads a slot and returns it to the free list.
func (m *Manager) release(h Handle) {
	img := &m.slots[h]
	m.uploader.Unload(img)
	if buf := img.retained; buf != nil && buf.Borrowed() {
		m.fs.FreeFile(buf.Source())
	}
	*img = Image{}
	m.free = append(m.free, h)
}
