// Package sdimage builds bootable SD card images for the Raspberry Pi.
//
// The firmware expects an MBR partitioned card whose first partition is FAT32
// and holds its own boot files, config.txt and the kernel image.
package sdimage

import (
	"debug/elf"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/partition/mbr"
	"github.com/golang/glog"
)

const (
	sectorSize  = 512
	bootStart   = 2048 // first sector of the boot partition
	DefaultSize = 64 << 20
)

// File is a file placed in the root of the boot partition.
type File struct {
	Name string
	Data []byte
}

// Build creates the image at path with size bytes and copies files into its
// boot partition.
func Build(path string, size int64, files []File) (err error) {
	if size < 32<<20 {
		return fmt.Errorf("image size %d too small for FAT32", size)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	d, err := diskfs.Create(path, size, diskfs.Raw, diskfs.SectorSizeDefault)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := d.File.Close(); err == nil {
			err = cerr
		}
	}()

	table := &mbr.Table{
		LogicalSectorSize:  sectorSize,
		PhysicalSectorSize: sectorSize,
		Partitions: []*mbr.Partition{{
			Bootable: true,
			Type:     mbr.Fat32LBA,
			Start:    bootStart,
			Size:     uint32(size/sectorSize) - bootStart,
		}},
	}
	if err := d.Partition(table); err != nil {
		return fmt.Errorf("partition: %w", err)
	}

	fs, err := d.CreateFilesystem(disk.FilesystemSpec{
		Partition:   1,
		FSType:      filesystem.TypeFat32,
		VolumeLabel: "BOOT",
	})
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}

	for _, f := range files {
		if err := writeFile(fs, f); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		glog.V(1).Infof("wrote %s (%d bytes)", f.Name, len(f.Data))
	}
	return nil
}

func writeFile(fs filesystem.FileSystem, f File) (err error) {
	w, err := fs.OpenFile("/"+f.Name, os.O_CREATE|os.O_RDWR)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = w.Write(f.Data)
	return err
}

// LoadKernel returns the kernel image at path. ELF files are flattened with
// Objcopy, anything else is taken as an image already.
func LoadKernel(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ef, err := elf.NewFile(f)
	if err != nil {
		if _, ok := err.(*elf.FormatError); !ok {
			return nil, err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return io.ReadAll(f)
	}
	return Objcopy(ef)
}

// firmwareFiles returns all regular files in dir, sorted by name.
func firmwareFiles(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []File
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, File{e.Name(), data})
	}
	return files, nil
}

const usageString = `Build a bootable SD card image.

Usage: %s [flags] <kernel>

The kernel is either an ELF file or a flat kernel8.img.

Flags:
`

var (
	flags    = flag.NewFlagSet("image", flag.ExitOnError)
	output   = flags.String("o", "sd.img", "output `file`")
	size     = flags.Int64("size", DefaultSize, "image size in bytes")
	firmware = flags.String("firmware", "", "`dir` with bootcode.bin, start*.elf, fixup*.dat and the like")
	noConfig = flags.Bool("noconfig", false, "don't generate config.txt")
	extra    = flags.String("config", "", "`file` with lines appended to config.txt")
)

func Main(args []string) {
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), usageString, args[0])
		flags.PrintDefaults()
	}
	flags.Parse(args[1:])
	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	kernel, err := LoadKernel(flags.Arg(0))
	if err != nil {
		glog.Exitf("load kernel: %v", err)
	}

	var files []File
	if *firmware != "" {
		files, err = firmwareFiles(*firmware)
		if err != nil {
			glog.Exitf("firmware: %v", err)
		}
	} else {
		glog.Warning("no firmware given, image won't boot on hardware")
	}

	cfg := DefaultConfig
	if *extra != "" {
		lines, err := readLines(*extra)
		if err != nil {
			glog.Exitf("config: %v", err)
		}
		cfg.Extra = lines
	}
	files = append(files, File{cfg.Kernel, kernel})
	if !*noConfig {
		files = append(files, File{"config.txt", []byte(cfg.String())})
	}

	if err := Build(*output, *size, files); err != nil {
		glog.Exitf("build %s: %v", *output, err)
	}
	glog.Infof("wrote %s", *output)
}
