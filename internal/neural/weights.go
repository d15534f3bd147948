package neural

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Weight file format constants, grounded on the teacher's nnue.LoadWeights
// magic+version header convention.
const (
	// MagicNumber reads "PCZN" (Perfect Clear Zero Net) as big-endian
	// ASCII; written little-endian, the file's first bytes are "NZCP".
	MagicNumber = 0x50435A4E
	Version     = 1
)

// FileHeader is the fixed-size header preceding the weight arrays.
type FileHeader struct {
	Magic      uint32
	Version    uint32
	InputSize  uint32
	HiddenSize uint32
}

// LoadWeights reads a network from r, validating the header against this
// build's InputSize/HiddenSize exactly as the teacher validates L1Size/L2Size.
func LoadWeights(r io.Reader) (*Network, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("invalid magic number: expected %x, got %x", MagicNumber, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("unsupported version: expected %d, got %d", Version, header.Version)
	}
	if header.InputSize != InputSize {
		return nil, fmt.Errorf("input size mismatch: expected %d, got %d", InputSize, header.InputSize)
	}
	if header.HiddenSize != HiddenSize {
		return nil, fmt.Errorf("hidden size mismatch: expected %d, got %d", HiddenSize, header.HiddenSize)
	}

	n := NewNetwork()
	if err := binary.Read(r, binary.LittleEndian, &n.HiddenWeights); err != nil {
		return nil, fmt.Errorf("failed to read hidden weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n.HiddenBias); err != nil {
		return nil, fmt.Errorf("failed to read hidden bias: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n.OutputWeights); err != nil {
		return nil, fmt.Errorf("failed to read output weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n.OutputBias); err != nil {
		return nil, fmt.Errorf("failed to read output bias: %w", err)
	}
	return n, nil
}

// SaveWeights writes n in the format LoadWeights reads.
func (n *Network) SaveWeights(w io.Writer) error {
	header := FileHeader{
		Magic:      MagicNumber,
		Version:    Version,
		InputSize:  InputSize,
		HiddenSize: HiddenSize,
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &n.HiddenWeights); err != nil {
		return fmt.Errorf("failed to write hidden weights: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &n.HiddenBias); err != nil {
		return fmt.Errorf("failed to write hidden bias: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &n.OutputWeights); err != nil {
		return fmt.Errorf("failed to write output weights: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("failed to write output bias: %w", err)
	}
	return nil
}

// Load opens path and loads a network from it, per the §6 NN contract's
// load(path) -> NN.
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weights file: %w", err)
	}
	defer f.Close()
	return LoadWeights(f)
}
