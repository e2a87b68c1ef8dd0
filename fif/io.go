package fif

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/gzip"
)

// Route trees can nest pathologically deep, so the decoder runs with its
// traversal limits at their maximums.
var decMode cbor.DecMode

func init() {
	dm, err := cbor.DecOptions{
		MaxNestedLevels:  65535,
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	decMode = dm
}

// ReadDevice reads a DeviceResources message, transparently decompressing
// gzipped files.
func ReadDevice(path string) (*Device, error) {
	data, err := readMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	var device Device
	if err := decMode.Unmarshal(data, &device); err != nil {
		return nil, fmt.Errorf("parse device resources %s: %w", path, err)
	}
	return &device, nil
}

// ReadNetlist reads a PhysicalNetlist message, transparently decompressing
// gzipped files.
func ReadNetlist(path string) (*PhysNetlist, error) {
	data, err := readMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	var phys PhysNetlist
	if err := decMode.Unmarshal(data, &phys); err != nil {
		return nil, fmt.Errorf("parse physical netlist %s: %w", path, err)
	}
	return &phys, nil
}

// WriteNetlist writes a PhysicalNetlist message gzipped at level 6.
func WriteNetlist(path string, phys *PhysNetlist) error {
	data, err := cbor.Marshal(phys)
	if err != nil {
		return fmt.Errorf("encode physical netlist: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw, err := gzip.NewWriterLevel(f, 6)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("write physical netlist %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readMaybeGzip loads a whole file, decompressing it when the gzip magic
// bytes 0x1f 0x8b lead the stream.
func readMaybeGzip(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream %s: %w", path, err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return io.ReadAll(br)
}
