package sequence

import (
	"github.com/go-vc2/vc2/pkg/vc2/bitio"
	"github.com/go-vc2/vc2/pkg/vc2/wavelet"
)

// LDParams is the Low Delay slice-bytes fraction carried by a Low
// Delay picture preamble.
type LDParams struct {
	Numerator, Denominator int
}

// HQParams is the High Quality slice sizing carried by a High Quality
// picture preamble.
type HQParams struct {
	SlicePrefix int
	SliceScalar int
}

// PicturePreamble is the per-picture header that selects a wavelet
// kernel, decomposition depth, slice grid and slice-profile
// parameters. Exactly one of LD or HQ is set, chosen by the data
// unit's parse code.
type PicturePreamble struct {
	PictureNumber uint32
	Kernel        wavelet.Kernel
	Depth         int
	SlicesX       int
	SlicesY       int
	LD            *LDParams
	HQ            *HQParams
}

// ReadPicturePreamble reads a picture preamble: picture_number (4
// bytes), wavelet_kernel and depth (1 byte each), slices_x and
// slices_y (2 bytes each), then the profile-specific tail: for Low
// Delay, a numerator/denominator pair (4 bytes each); for High
// Quality, slice_prefix and slice_size_scalar (1 byte each).
func ReadPicturePreamble(br *bitio.Reader, lowDelay bool) (PicturePreamble, error) {
	num, err := br.ReadUint32BE()
	if err != nil {
		return PicturePreamble{}, err
	}
	kernelByte, err := br.ReadByte()
	if err != nil {
		return PicturePreamble{}, err
	}
	depthByte, err := br.ReadByte()
	if err != nil {
		return PicturePreamble{}, err
	}
	slicesX, err := br.ReadBits(16)
	if err != nil {
		return PicturePreamble{}, err
	}
	slicesY, err := br.ReadBits(16)
	if err != nil {
		return PicturePreamble{}, err
	}

	p := PicturePreamble{
		PictureNumber: num,
		Kernel:        wavelet.Kernel(kernelByte),
		Depth:         int(depthByte),
		SlicesX:       int(slicesX),
		SlicesY:       int(slicesY),
	}

	if lowDelay {
		n, err := br.ReadUint32BE()
		if err != nil {
			return PicturePreamble{}, err
		}
		d, err := br.ReadUint32BE()
		if err != nil {
			return PicturePreamble{}, err
		}
		p.LD = &LDParams{Numerator: int(n), Denominator: int(d)}
		return p, nil
	}

	prefix, err := br.ReadByte()
	if err != nil {
		return PicturePreamble{}, err
	}
	scalar, err := br.ReadByte()
	if err != nil {
		return PicturePreamble{}, err
	}
	p.HQ = &HQParams{SlicePrefix: int(prefix), SliceScalar: int(scalar)}
	return p, nil
}

// WritePicturePreamble is ReadPicturePreamble's write-side dual.
func WritePicturePreamble(bw *bitio.Writer, p PicturePreamble) error {
	if err := bw.WriteUint32BE(p.PictureNumber); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(p.Kernel)); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(p.Depth)); err != nil {
		return err
	}
	if err := bw.WriteBits(uint32(p.SlicesX), 16); err != nil {
		return err
	}
	if err := bw.WriteBits(uint32(p.SlicesY), 16); err != nil {
		return err
	}

	if p.LD != nil {
		if err := bw.WriteUint32BE(uint32(p.LD.Numerator)); err != nil {
			return err
		}
		return bw.WriteUint32BE(uint32(p.LD.Denominator))
	}

	if err := bw.WriteByte(byte(p.HQ.SlicePrefix)); err != nil {
		return err
	}
	return bw.WriteByte(byte(p.HQ.SliceScalar))
}
