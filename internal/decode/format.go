package decode

import "strings"

// Format identifies an on-disk image encoding. Paletted formats sort before
// high-color ones.
type Format int

const (
	PCX Format = iota
	WAL
	TGA
	JPG
	PNG
	WEBP

	NumFormats
	// None marks an extension no decoder claims.
	None Format = -1
)

// Func decodes raw file bytes.
type Func func(raw []byte) (*Buffer, error)

// Descriptor binds a format to its extension and decoder.
type Descriptor struct {
	Format Format
	Ext    string
	Letter byte
	Decode Func
}

var descriptors = [NumFormats]Descriptor{
	PCX:  {PCX, "pcx", 0, DecodePCX},
	WAL:  {WAL, "wal", 0, DecodeWAL},
	TGA:  {TGA, "tga", 't', DecodeTGA},
	JPG:  {JPG, "jpg", 'j', DecodeJPEG},
	PNG:  {PNG, "png", 'p', DecodePNG},
	WEBP: {WEBP, "webp", 'w', DecodeWebP},
}

// Lookup returns the descriptor for f. f must be a valid format.
func Lookup(f Format) Descriptor { return descriptors[f] }

// Ext returns the file extension for f without the dot.
func (f Format) Ext() string {
	if f < 0 || f >= NumFormats {
		return ""
	}
	return descriptors[f].Ext
}

// HighColor reports whether f decodes to RGBA.
func (f Format) HighColor() bool { return f > WAL && f < NumFormats }

func (f Format) String() string {
	if s := f.Ext(); s != "" {
		return s
	}
	return "none"
}

// ForExt returns the format whose extension matches ext case-insensitively.
func ForExt(ext string) Format {
	ext = strings.TrimPrefix(ext, ".")
	for _, d := range descriptors {
		if strings.EqualFold(d.Ext, ext) {
			return d.Format
		}
	}
	return None
}

// ParseSearchOrder turns a format-priority string such as "pjt" into the
// ordered list of enabled high-color formats. Unknown letters are skipped,
// as are repeats.
func ParseSearchOrder(s string) []Format {
	var order []Format
	var seen [NumFormats]bool
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		for _, d := range descriptors {
			if d.Letter == 0 || d.Letter != c || seen[d.Format] {
				continue
			}
			seen[d.Format] = true
			order = append(order, d.Format)
		}
	}
	return order
}
