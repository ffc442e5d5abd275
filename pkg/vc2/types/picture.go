package types

// ChromaFormat identifies the chroma subsampling scheme, matching
// ST 2042's four supported colour formats.
type ChromaFormat int

const (
	Format444 ChromaFormat = iota
	Format422
	Format420
	FormatMono
)

// String names the chroma format.
func (c ChromaFormat) String() string {
	switch c {
	case Format444:
		return "4:4:4"
	case Format422:
		return "4:2:2"
	case Format420:
		return "4:2:0"
	case FormatMono:
		return "mono"
	default:
		return "unknown"
	}
}

// ChromaSize returns the chroma plane dimensions for a luma plane of
// size lumaH x lumaW under this chroma format.
func (c ChromaFormat) ChromaSize(lumaH, lumaW int) (h, w int) {
	switch c {
	case Format444:
		return lumaH, lumaW
	case Format422:
		return lumaH, lumaW / 2
	case Format420:
		return lumaH / 2, lumaW / 2
	case FormatMono:
		return 0, 0
	default:
		return 0, 0
	}
}

// Picture is a triple of component planes sharing a common logical
// origin. Chroma planes are zero-sized for FormatMono.
type Picture struct {
	Y, Cb, Cr Array2D
	Chroma    ChromaFormat
}

// NewPicture allocates a picture of the given luma dimensions under
// the given chroma format.
func NewPicture(height, width int, chroma ChromaFormat) Picture {
	p := Picture{Y: NewArray2D(height, width), Chroma: chroma}
	ch, cw := chroma.ChromaSize(height, width)
	if chroma != FormatMono {
		p.Cb = NewArray2D(ch, cw)
		p.Cr = NewArray2D(ch, cw)
	}
	return p
}

// Component returns the named component plane: 0=Y, 1=Cb, 2=Cr.
func (p Picture) Component(i int) Array2D {
	switch i {
	case 0:
		return p.Y
	case 1:
		return p.Cb
	case 2:
		return p.Cr
	default:
		panic("types: invalid component index")
	}
}

// SetComponent writes the named component plane back: 0=Y, 1=Cb, 2=Cr.
func (p *Picture) SetComponent(i int, a Array2D) {
	switch i {
	case 0:
		p.Y = a
	case 1:
		p.Cb = a
	case 2:
		p.Cr = a
	default:
		panic("types: invalid component index")
	}
}

// NumComponents returns 1 for FormatMono, 3 otherwise.
func (p Picture) NumComponents() int {
	if p.Chroma == FormatMono {
		return 1
	}
	return 3
}

// Frame is one Picture when progressive, or two fields (First,
// Second) when interlaced. TopFieldFirst records the temporal
// capture/display order of the two fields; it does not affect spatial
// row placement, which is fixed: First always occupies the even output
// rows, Second the odd rows, regardless of which was captured first.
type Frame struct {
	First, Second Picture
	Interlaced    bool
	TopFieldFirst bool
}

// NewProgressiveFrame wraps a single picture as a progressive frame.
func NewProgressiveFrame(pic Picture) Frame {
	return Frame{First: pic, Interlaced: false}
}

// Flatten returns the frame as one full-height Picture. For a
// progressive frame this is just First. For an interlaced frame,
// First's rows are placed at even row indices and Second's rows at
// odd row indices, reconstructing full spatial resolution.
func (f Frame) Flatten() Picture {
	if !f.Interlaced {
		return f.First
	}
	return Picture{
		Y:      interleaveRows(f.First.Y, f.Second.Y),
		Cb:     interleaveRows(f.First.Cb, f.Second.Cb),
		Cr:     interleaveRows(f.First.Cr, f.Second.Cr),
		Chroma: f.First.Chroma,
	}
}

func interleaveRows(top, bottom Array2D) Array2D {
	out := NewArray2D(top.Height+bottom.Height, top.Width)
	for y := 0; y < top.Height; y++ {
		copy(out.Row(2*y), top.Row(y))
	}
	for y := 0; y < bottom.Height; y++ {
		copy(out.Row(2*y+1), bottom.Row(y))
	}
	return out
}
