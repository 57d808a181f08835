package render

import (
	"fmt"

	"golang.org/x/xerrors"
)

// PanicError reports a panic inside a render worker.  The frame it happened in
// is abandoned.
type PanicError struct {
	// Row is the image row the worker was rendering.
	Row int

	Value interface{}
	Stack []byte

	frame xerrors.Frame
}

func newPanicError(row int, value interface{}, stack []byte) *PanicError {
	return &PanicError{
		Row:   row,
		Value: value,
		Stack: stack,
		frame: xerrors.Caller(1),
	}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("render worker panicked on row %d: %v", e.Row, e.Value)
}

func (e *PanicError) Format(f fmt.State, c rune) { // implements fmt.Formatter
	xerrors.FormatError(e, f, c)
}

func (e *PanicError) FormatError(p xerrors.Printer) error { // implements xerrors.Formatter
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
		p.Printf("%s", e.Stack)
	}
	return nil
}

// Unwrap exposes the panic value if it was itself an error, such as a runtime
// error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
