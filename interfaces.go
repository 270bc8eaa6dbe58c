/*
 * interfaces.go, part of mdanalysis
 *
 * Copyright 2024 David E. Cruz <davidercruz{at}gmailDOTcom>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mdanalysis

// Traj is the interface for any trajectory reader. Frames are produced
// lazily, in on-disk order, one per call to Next.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into f. If f is nil the frame is read and
	//discarded, but the cursor still advances past its bytes. At the end
	//of the trajectory Next returns a LastFrameError.
	Next(f *Frame) error

	//Returns the number of atoms per frame
	Len() int
}

// FrameCounter is a Traj that knows how many frames it holds.
// Frames returns -1 when the count is unknown (forward-only formats).
type FrameCounter interface {
	Traj

	Frames() int
}

// FrameRandomAccess is a Traj supporting random access by frame index.
// FrameAt(i) must return the same data as sequentially iterating to i.
type FrameRandomAccess interface {
	FrameCounter

	FrameAt(i int, f *Frame) error
}

//Errors

// ErrKind classifies reading failures. All of them are fatal to the
// operation that produced them; frames already yielded remain valid.
type ErrKind int

const (
	//structurally invalid input: bad header, missing required
	//section/dimension, a field that fails to decode.
	ErrFormat ErrKind = iota + 1
	//a value count disagrees with the governing dimension count.
	ErrSizeMismatch
	//the stream ended in the middle of a record.
	ErrTruncation
	//a recognized but unhandled variant of the format.
	ErrUnsupported
	//failure of the underlying file or container.
	ErrIO
)

func (k ErrKind) String() string {
	switch k {
	case ErrFormat:
		return "format error"
	case ErrSizeMismatch:
		return "size mismatch"
	case ErrTruncation:
		return "truncated input"
	case ErrUnsupported:
		return "unsupported feature"
	case ErrIO:
		return "i/o error"
	}
	return "unknown error"
}

// Error is the interface all errors in this library implement. The
// Decorate method adds information (normally, the caller's name) as the
// error is passed up, without wrapping it in another type. If passed an
// empty string it just returns the current decoration slice.
type Error interface {
	Error() string
	Decorate(string) []string
}

// ParseError is the interface for errors produced while parsing a file,
// carrying the classification of the failure and the offending file.
type ParseError interface {
	Error
	Kind() ErrKind
	FileName() string
	Format() string
}

// LastFrameError signals the clean end of a trajectory. Its only purpose
// is to be distinguishable, in a type switch, from actual errors.
type LastFrameError interface {
	ParseError
	NormalLastFrameTermination() //does nothing
}

// IsKind reports whether err carries the error kind k. It works for
// ParseErrors and for the leaf decoder errors that have no file context.
func IsKind(err error, k ErrKind) bool {
	ke, ok := err.(interface{ Kind() ErrKind })
	return ok && ke.Kind() == k
}
