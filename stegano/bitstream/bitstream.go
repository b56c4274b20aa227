package bitstream
import (
	"stegbox/stegano/stegerr"
)

/*
 * a sequential bit cursor over a carrier's writable sample positions.
 * bits are produced and consumed most significant bit first within each
 * byte, and the cursor refuses to move past the carrier's capacity
 * instead of handing back truncated data.
 */

// Carrier exposes a fixed number of writable bit positions.
type Carrier interface {
	BitCapacity() uint64
	ReadBit( i uint64 ) uint8
	WriteBit( i uint64, bit uint8 )
}

type Writer struct {
	carrier	Carrier
	pos	uint64
}

func NewWriter( c Carrier ) *Writer {
	return &Writer{ c, 0 }
}

func(w *Writer) WriteBytes( data []byte ) error {
	needed := w.pos + uint64(len(data)) * 8
	if needed > w.carrier.BitCapacity() {
		return stegerr.Capacity( needed, w.carrier.BitCapacity() )
	}
	for _, b := range data {
		for shift := 7; shift >= 0; shift-- {
			w.carrier.WriteBit( w.pos, (b >> uint(shift)) & 0x1 )
			w.pos++
		}
	}
	return nil
}

type Reader struct {
	carrier	Carrier
	pos	uint64
}

func NewReader( c Carrier ) *Reader {
	return &Reader{ c, 0 }
}

func(r *Reader) ReadBytes( n uint64 ) ([]byte, error) {
	needed := r.pos + n * 8
	if needed > r.carrier.BitCapacity() {
		return nil, stegerr.Capacity( needed, r.carrier.BitCapacity() )
	}
	buf := make( []byte, n )
	for i := range buf {
		var b uint8
		for j := 0; j < 8; j++ {
			b = (b << 1) | r.carrier.ReadBit( r.pos )
			r.pos++
		}
		buf[i] = b
	}
	return buf, nil
}
