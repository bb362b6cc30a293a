package catalog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

const matrixHeaderSize = 8

// Matrix is a dense square similarity matrix stored row-major.
type Matrix struct {
	n    int
	data []float32
}

// NewMatrix copies rows into a Matrix. Every row must have len(rows) columns.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	m := &Matrix{n: n, data: make([]float32, n*n)}
	for i, row := range rows {
		if len(row) != n {
			return nil, integrityErrorf(nil, "similarity matrix is not square: row %d has %d columns, want %d", i, len(row), n)
		}
		for j, v := range row {
			m.data[i*n+j] = float32(v)
		}
	}
	return m, nil
}

// Size returns the matrix dimension.
func (m *Matrix) Size() int {
	return m.n
}

// Row returns the scores of position i against every position. The slice must not be modified.
func (m *Matrix) Row(i int) []float32 {
	return m.data[i*m.n : (i+1)*m.n]
}

// Score returns the similarity of i to j.
func (m *Matrix) Score(i, j int) float64 {
	return float64(m.data[i*m.n+j])
}

// ReadMatrix loads a matrix from path. Files ending in .json hold a nested array;
// anything else is read as the binary format written by Save.
func ReadMatrix(path string) (*Matrix, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return readMatrixJSON(path)
	}
	return readMatrixBinary(path)
}

func readMatrixJSON(path string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, integrityErrorf(err, "read similarity matrix")
	}
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, integrityErrorf(err, "parse similarity matrix")
	}
	return NewMatrix(rows)
}

// readMatrixBinary reads rows (uint32), cols (uint32), then rows*cols little-endian float32.
func readMatrixBinary(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, integrityErrorf(err, "open similarity matrix")
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, integrityErrorf(err, "stat similarity matrix")
	}

	r := bufio.NewReader(f)
	var rows, cols uint32
	if err := binary.Read(r, binary.LittleEndian, &rows); err != nil {
		return nil, integrityErrorf(err, "read matrix rows")
	}
	if err := binary.Read(r, binary.LittleEndian, &cols); err != nil {
		return nil, integrityErrorf(err, "read matrix cols")
	}
	if rows != cols {
		return nil, integrityErrorf(nil, "similarity matrix is not square: %dx%d", rows, cols)
	}
	want := int64(matrixHeaderSize) + int64(rows)*int64(cols)*4
	if info.Size() != want {
		return nil, integrityErrorf(nil, "similarity matrix file is %d bytes, want %d for %dx%d", info.Size(), want, rows, cols)
	}

	n := int(rows)
	m := &Matrix{n: n, data: make([]float32, n*n)}
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, integrityErrorf(err, "read matrix row %d", i)
		}
		row := m.data[i*n : (i+1)*n]
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:]))
		}
	}
	return m, nil
}

// Save writes the matrix in the binary format. The directory is created if needed.
func (m *Matrix) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create matrix dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create matrix file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := writeMatrix(w, m); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush matrix: %w", err)
	}
	return f.Close()
}

func writeMatrix(w io.Writer, m *Matrix) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(m.n)); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.n)); err != nil {
		return fmt.Errorf("write cols: %w", err)
	}
	buf := make([]byte, 4)
	for _, v := range m.data {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write score: %w", err)
		}
	}
	return nil
}
