package sdimage

import (
	"debug/elf"
	"errors"
	"fmt"
)

// LoadAddr is where the firmware loads kernel8.img and jumps to.
const LoadAddr = 0x8_0000

var (
	ErrEntryAddr  = fmt.Errorf("entry point isn't at load address %#x", LoadAddr)
	ErrBeforeLoad = errors.New("data before entry point")
)

// Objcopy returns the flat image of f's loadable sections, each placed at its
// offset from the entry point. Sections that occupy no space in the file
// (.bss) are left out, the kernel clears them itself.
func Objcopy(f *elf.File) ([]byte, error) {
	if f.Entry != LoadAddr {
		return nil, fmt.Errorf("%w: %#x", ErrEntryAddr, f.Entry)
	}

	var img []byte
	for _, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		if s.Addr < f.Entry {
			return nil, fmt.Errorf("%w: section %s at %#x", ErrBeforeLoad, s.Name, s.Addr)
		}
		data, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", s.Name, err)
		}

		off := s.Addr - f.Entry
		if end := off + uint64(len(data)); end > uint64(len(img)) {
			img = append(img, make([]byte, end-uint64(len(img)))...)
		}
		copy(img[off:], data)
	}
	return img, nil
}
