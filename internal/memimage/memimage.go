// Package memimage provides byte access into an executable image by
// virtual address, dispatched on file format (ELF64 or PE64).
package memimage

import (
	"debug/elf"
	"debug/pe"
	"errors"
	"fmt"
	"io"
	"os"
)

// Format identifies the binary container format of an Image.
type Format int

const (
	// FormatELF64 is a 64-bit ELF executable or shared object.
	FormatELF64 Format = iota
	// FormatPE64 is a 64-bit PE executable or DLL.
	FormatPE64
)

// ErrUnsupportedFormat is returned by Open for an unrecognized Format value
// or a file that does not match the requested format.
var ErrUnsupportedFormat = errors.New("memimage: unsupported format")

// segment is one VA-mapped region of the underlying file.
type segment struct {
	va     uint64
	size   uint64
	offset uint64
}

// Image provides byte access into an executable by virtual address. It is
// read-only after Open and safe for concurrent reads; no Image method
// mutates shared state.
type Image struct {
	format   Format
	file     *os.File
	size     int64
	segments []segment
}

// Open opens path and validates it against format, returning
// ErrUnsupportedFormat if the file does not match.
func Open(path string, format Format) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("memimage: open: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("memimage: stat: %w", err)
	}

	img := &Image{format: format, file: f, size: info.Size()}

	switch format {
	case FormatELF64:
		err = img.loadELF64()
	case FormatPE64:
		err = img.loadPE64()
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return img, nil
}

func (img *Image) loadELF64() error {
	ef, err := elf.NewFile(img.file)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer ef.Close()

	if ef.Class != elf.ELFCLASS64 {
		return fmt.Errorf("%w: not a 64-bit ELF", ErrUnsupportedFormat)
	}

	for _, p := range ef.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		img.segments = append(img.segments, segment{
			va:     p.Vaddr,
			size:   p.Memsz,
			offset: p.Off,
		})
	}
	if len(img.segments) == 0 {
		return fmt.Errorf("%w: no PT_LOAD segments", ErrUnsupportedFormat)
	}
	return nil
}

func (img *Image) loadPE64() error {
	pf, err := pe.NewFile(img.file)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer pf.Close()

	opt, ok := pf.OptionalHeader.(*pe.OptionalHeader64)
	if !ok {
		return fmt.Errorf("%w: not a 64-bit PE", ErrUnsupportedFormat)
	}
	base := uint64(opt.ImageBase)

	for _, sec := range pf.Sections {
		if sec.VirtualAddress == 0 {
			continue
		}
		img.segments = append(img.segments, segment{
			va:     base + uint64(sec.VirtualAddress),
			size:   uint64(sec.VirtualSize),
			offset: uint64(sec.Offset),
		})
	}
	if len(img.segments) == 0 {
		return fmt.Errorf("%w: no mapped sections", ErrUnsupportedFormat)
	}
	return nil
}

// Close releases the underlying file handle.
func (img *Image) Close() error {
	return img.file.Close()
}

// FileSize returns the size of the underlying file.
func (img *Image) FileSize() int64 { return img.size }

// findSegment returns the segment covering va, or ok=false.
func (img *Image) findSegment(va uint64) (segment, bool) {
	for _, s := range img.segments {
		if va >= s.va && va < s.va+s.size {
			return s, true
		}
	}
	return segment{}, false
}

// CodeAt returns up to n bytes starting at virtual address va, clamped to
// the bounds of the owning segment and the underlying file. The returned
// slice is valid for the lifetime of the Image and covers at least enough
// bytes for one basic block whenever the segment has that many remaining.
func (img *Image) CodeAt(va uint64, n int) ([]byte, error) {
	seg, ok := img.findSegment(va)
	if !ok {
		return nil, fmt.Errorf("memimage: no segment covers VA 0x%x", va)
	}

	fileOff := int64(seg.offset + (va - seg.va))
	avail := seg.va + seg.size - va
	if uint64(n) > avail {
		n = int(avail)
	}
	if fileOff >= img.size {
		return nil, fmt.Errorf("memimage: VA 0x%x maps past end of file", va)
	}
	if remaining := img.size - fileOff; int64(n) > remaining {
		n = int(remaining)
	}
	if n <= 0 {
		return nil, fmt.Errorf("memimage: no bytes available at VA 0x%x", va)
	}

	buf := make([]byte, n)
	read, err := img.file.ReadAt(buf, fileOff)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("memimage: read at 0x%x: %w", fileOff, err)
	}
	return buf[:read], nil
}
