// Completion: 100% - Growable tape complete
package main

// Tape is the interpreter's memory: a row of byte cells and a pointer.
// Storage grows rightward on demand by doubling and is never shrunk
// during a run. Moving left of cell 0 is fatal.
type Tape struct {
	cells []byte
	ptr   int
}

const initialTapeSize = 30000

func NewTape() *Tape {
	return &Tape{cells: make([]byte, initialTapeSize)}
}

// Move displaces the pointer by delta, growing the tape as needed so that
// the pointer always indexes allocated storage.
func (t *Tape) Move(delta int) error {
	p := t.ptr + delta
	if p < 0 {
		return ErrTapeUnderflow
	}
	for p >= len(t.cells) {
		t.cells = append(t.cells, make([]byte, len(t.cells))...)
	}
	t.ptr = p
	return nil
}

func (t *Tape) Get() byte {
	return t.cells[t.ptr]
}

func (t *Tape) Set(v byte) {
	t.cells[t.ptr] = v
}

func (t *Tape) Add(delta byte) {
	t.cells[t.ptr] += delta
}
