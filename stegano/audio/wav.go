package audio
import (
	"bytes"
	"encoding/binary"

	"stegbox/stegano/stegerr"
)

/*
 * audio carrier codec. a decoy must be an uncompressed RIFF/WAVE file
 * with 8 or 16 bit samples. one payload bit goes into the least
 * significant bit of the first stored byte of each sample, in the
 * channel interleaved order the file already has. one bit per sample
 * even at 16 bit depth: the wire format has always worked that way and
 * old containers must stay readable.
 */

var (
	riffID = []byte("RIFF")
	waveID = []byte("WAVE")
	fmtID = []byte("fmt ")
	dataID = []byte("data")
)

// WAV is the bit addressable view over a validated decoy.
type WAV struct {
	raw		[]byte
	dataOffset	int
	dataLen		int
	channels	int
	sampleRate	int
	bitsPerSample	int
	bytesPerSample	int
}

// ParseWAV validates the RIFF layout and locates the sample region.
// the raw slice is kept, embedding mutates it in place.
func ParseWAV( decoy []byte ) (*WAV, error) {
	if len(decoy) < 12 || bytes.Equal( decoy[:4], riffID ) == false {
		return nil, stegerr.Formatf("Not a RIFF file.")
	}
	if bytes.Equal( decoy[8:12], waveID ) == false {
		return nil, stegerr.Formatf("Not a WAVE file.")
	}

	w := &WAV{ raw: decoy, dataOffset: -1 }
	haveFmt := false

	offset := 12
	for offset + 8 <= len(decoy) {
		id := decoy[ offset : offset + 4 ]
		size := int( binary.LittleEndian.Uint32( decoy[ offset + 4 : offset + 8 ] ) )
		body := offset + 8
		if body + size > len(decoy) {
			return nil, stegerr.Formatf("Chunk %q runs past the end of the file.", string(id) )
		}

		if bytes.Equal( id, fmtID ) {
			if size < 16 {
				return nil, stegerr.Formatf("Malformed fmt chunk.")
			}
			audioFormat := binary.LittleEndian.Uint16( decoy[ body : body + 2 ] )
			if audioFormat != 1 {
				return nil, stegerr.Formatf("Unsupported audio format tag %d, only uncompressed PCM is supported.", audioFormat )
			}
			w.channels = int( binary.LittleEndian.Uint16( decoy[ body + 2 : body + 4 ] ) )
			w.sampleRate = int( binary.LittleEndian.Uint32( decoy[ body + 4 : body + 8 ] ) )
			w.bitsPerSample = int( binary.LittleEndian.Uint16( decoy[ body + 14 : body + 16 ] ) )
			if w.bitsPerSample != 8 && w.bitsPerSample != 16 {
				return nil, stegerr.Formatf("Unsupported bit depth %d, only 8 and 16 bit samples are supported.", w.bitsPerSample )
			}
			haveFmt = true
		} else if bytes.Equal( id, dataID ) {
			w.dataOffset = body
			w.dataLen = size
		}

		offset = body + size
		if size % 2 == 1 {
			offset++	// riff chunks are word aligned
		}
	}

	if haveFmt == false {
		return nil, stegerr.Formatf("Missing fmt chunk.")
	}
	if w.dataOffset < 0 {
		return nil, stegerr.Formatf("Missing data chunk.")
	}
	w.bytesPerSample = w.bitsPerSample / 8
	return w, nil
}

func(w *WAV) Bytes() []byte {
	return w.raw
}

// one bit per sample, whatever the bit depth.
func(w *WAV) BitCapacity() uint64 {
	return uint64( w.dataLen / w.bytesPerSample )
}

// samples are little endian, so the first stored byte is the least
// significant one.
func(w *WAV) ReadBit( i uint64 ) uint8 {
	return w.raw[ w.dataOffset + int(i) * w.bytesPerSample ] & 0x1
}

func(w *WAV) WriteBit( i uint64, bit uint8 ) {
	idx := w.dataOffset + int(i) * w.bytesPerSample
	w.raw[ idx ] = (w.raw[ idx ] & 0xfe) | (bit & 0x1)
}

// Samples returns the least significant byte of every sample, the raw
// material for the statistical detector.
func(w *WAV) Samples() []byte {
	count := w.dataLen / w.bytesPerSample
	result := make( []byte, count )
	for i := 0; i < count; i++ {
		result[i] = w.raw[ w.dataOffset + i * w.bytesPerSample ]
	}
	return result
}
