package tensor

import "math/rand"

// Mat represents a dense row-major matrix of float32 values.
//
// R and C are the number of rows and columns. Stride is the number of
// elements between the starts of two consecutive rows; for freshly allocated
// matrices it equals C. Data holds the flattened values, with element (i,j)
// at offset i*Stride+j.
//
// Mat performs no memory safety checks beyond those of Go slices;
// out-of-range indices panic.
type Mat struct {
	R, C   int
	Stride int
	Data   []float32
}

// NewMat allocates a zero-initialised r by c matrix.
func NewMat(r, c int) Mat {
	if r < 0 || c < 0 {
		panic("negative dimension for matrix")
	}
	return Mat{
		R:      r,
		C:      c,
		Stride: c,
		Data:   make([]float32, r*c),
	}
}

// NewMatFromData creates a matrix view over existing data.
// It checks that the data length matches r*c.
func NewMatFromData(r, c int, data []float32) Mat {
	if r*c != len(data) {
		panic("data length mismatch")
	}
	return Mat{
		R:      r,
		C:      c,
		Stride: c,
		Data:   data,
	}
}

// Square reports whether the matrix is square.
func (m *Mat) Square() bool {
	return m.R == m.C
}

// Row returns a view of the i-th row. Modifications to the returned slice
// update the underlying matrix values.
func (m *Mat) Row(i int) []float32 {
	if i < 0 || i >= m.R {
		panic("row index out of range")
	}
	start := i * m.Stride
	return m.Data[start : start+m.C]
}

// At returns element (i,j).
func (m *Mat) At(i, j int) float32 {
	if i < 0 || i >= m.R || j < 0 || j >= m.C {
		panic("index out of range")
	}
	return m.Data[i*m.Stride+j]
}

// Set assigns element (i,j).
func (m *Mat) Set(i, j int, v float32) {
	if i < 0 || i >= m.R || j < 0 || j >= m.C {
		panic("index out of range")
	}
	m.Data[i*m.Stride+j] = v
}

// FillRand fills the matrix with reproducible pseudo-random values in a
// small range around zero to avoid overflow in long accumulations. The seed
// controls the sequence; equal seeds produce identical matrices.
func FillRand(m *Mat, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Data {
		m.Data[i] = rng.Float32() - 0.5
	}
}

// FillModSum fills element (i,j) with float32((i+j) mod 7), the left-operand
// test pattern used by the benchmark tooling.
func FillModSum(m *Mat) {
	for i := 0; i < m.R; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = float32((i + j) % 7)
		}
	}
}

// FillModDiff fills element (i,j) with float32((i-j) mod 5), reduced to a
// non-negative residue, the right-operand test pattern.
func FillModDiff(m *Mat) {
	for i := 0; i < m.R; i++ {
		row := m.Row(i)
		for j := range row {
			row[j] = float32(((i-j)%5 + 5) % 5)
		}
	}
}

// FillIdentity writes the identity matrix. Panics if m is not square.
func FillIdentity(m *Mat) {
	if !m.Square() {
		panic("identity requires a square matrix")
	}
	clear(m.Data)
	for i := 0; i < m.R; i++ {
		m.Data[i*m.Stride+i] = 1
	}
}

// FillConst sets every element to v.
func FillConst(m *Mat, v float32) {
	for i := range m.Data {
		m.Data[i] = v
	}
}

// Checksum returns the plain sum of all elements. It is used by the CLI and
// API to report a cheap fingerprint of an output matrix.
func Checksum(m *Mat) float64 {
	var sum float64
	for i := 0; i < m.R; i++ {
		for _, v := range m.Row(i) {
			sum += float64(v)
		}
	}
	return sum
}
