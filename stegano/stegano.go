package stegano
import (
	"bytes"
	"encoding/binary"

	"stegbox/stegano/img"
	"stegbox/stegano/audio"
	"stegbox/stegano/payload"
	"stegbox/stegano/stegerr"
	"stegbox/stegano/envelope"
	"stegbox/stegano/bitstream"
)

/*
 * orchestration of the whole pipeline:
 *	embed:   items -> pack -> (encrypt) -> capacity check -> bit writer
 *	extract: bit reader -> peek magic -> (decrypt) -> parse -> items
 * every operation owns its buffers, runs to completion or aborts with a
 * typed error, and shares nothing with concurrent operations.
 */

const (
	KindImage = "image"
	KindAudio = "audio"
)

func Embed( decoy []byte, kind string, items []payload.SecretItem, password string ) ([]byte, error) {
	packed, err := payload.Pack( items )
	if err != nil {
		return nil, err
	}
	wire, err := envelope.Encrypt( packed, password )
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindImage:
		view, err := img.Decode( decoy )
		if err != nil {
			return nil, err
		}
		if err = embedInto( view, wire ); err != nil {
			return nil, err
		}
		return view.Encode()

	case KindAudio:
		// take our own copy so a failed embed leaves the caller's
		// buffer exactly as it was.
		view, err := audio.ParseWAV( bytes.Clone( decoy ) )
		if err != nil {
			return nil, err
		}
		if err = embedInto( view, wire ); err != nil {
			return nil, err
		}
		return view.Bytes(), nil
	}
	return nil, stegerr.Inputf("Unsupported carrier kind %q.", kind)
}

// the capacity check runs before a single bit is written.
func embedInto( c bitstream.Carrier, wire []byte ) error {
	needed := uint64(len(wire)) * 8
	if needed > c.BitCapacity() {
		return stegerr.Capacity( needed, c.BitCapacity() )
	}
	return bitstream.NewWriter( c ).WriteBytes( wire )
}

func Extract( decoy []byte, kind string, password string ) ([]payload.SecretItem, error) {
	var carrier bitstream.Carrier

	switch kind {
	case KindImage:
		view, err := img.Decode( decoy )
		if err != nil {
			return nil, err
		}
		carrier = view
	case KindAudio:
		view, err := audio.ParseWAV( decoy )
		if err != nil {
			return nil, err
		}
		carrier = view
	default:
		return nil, stegerr.Inputf("Unsupported carrier kind %q.", kind)
	}

	return extractFrom( bitstream.NewReader( carrier ), password )
}

func extractFrom( r *bitstream.Reader, password string ) ([]payload.SecretItem, error) {
	// the envelope magic is one byte shorter than the container magic,
	// so peek five bytes first and decide which path we are on.
	head, err := r.ReadBytes( envelope.MagicLen )
	if err != nil {
		return nil, err
	}

	if bytes.Equal( head, envelope.Magic[:] ) {
		rest, err := r.ReadBytes( envelope.HeaderSize - envelope.MagicLen )
		if err != nil {
			return nil, err
		}
		cipherLen := binary.BigEndian.Uint32( rest[ len(rest) - 4 : ] )
		ciphertext, err := r.ReadBytes( uint64(cipherLen) )
		if err != nil {
			return nil, err
		}

		env := make( []byte, 0, envelope.HeaderSize + int(cipherLen) )
		env = append( env, head... )
		env = append( env, rest... )
		env = append( env, ciphertext... )
		container, err := envelope.Decrypt( env, password )
		if err != nil {
			return nil, err
		}
		return payload.Parse( container )
	}

	// plain container: finish the six byte magic and validate it
	tail, err := r.ReadBytes( 1 )
	if err != nil {
		return nil, err
	}
	magic := append( head, tail... )
	if bytes.Equal( magic, payload.Magic[:] ) == false {
		return nil, stegerr.Formatf("Magic mismatch, the carrier holds no hidden data.")
	}

	lenField, err := r.ReadBytes( 4 )
	if err != nil {
		return nil, err
	}
	metaLen := binary.BigEndian.Uint32( lenField )
	metaJson, err := r.ReadBytes( uint64(metaLen) )
	if err != nil {
		return nil, err
	}
	dataLen, err := payload.DataLength( metaJson )
	if err != nil {
		return nil, err
	}
	data, err := r.ReadBytes( dataLen )
	if err != nil {
		return nil, err
	}

	container := make( []byte, 0, payload.HeaderLen + int(metaLen) + len(data) )
	container = append( container, magic... )
	container = append( container, lenField... )
	container = append( container, metaJson... )
	container = append( container, data... )
	return payload.Parse( container )
}

// CarrierSamples flattens any supported decoy into raw sample bytes for
// the statistical detector. dispatch is on magic bytes, like everywhere
// else: flac decoys are readable here even though they cannot carry data.
func CarrierSamples( decoy []byte ) ([]byte, error) {
	if len(decoy) >= 4 && bytes.Equal( decoy[:4], []byte("fLaC") ) {
		return audio.DecodeFlacSamples( decoy )
	}
	if len(decoy) >= 4 && bytes.Equal( decoy[:4], []byte("RIFF") ) {
		view, err := audio.ParseWAV( decoy )
		if err != nil {
			return nil, err
		}
		return view.Samples(), nil
	}
	view, err := img.Decode( decoy )
	if err != nil {
		return nil, err
	}
	return view.Samples(), nil
}

// DetectKind guesses the carrier kind from the leading magic bytes.
func DetectKind( decoy []byte ) string {
	if len(decoy) >= 4 && bytes.Equal( decoy[:4], []byte("RIFF") ) {
		return KindAudio
	}
	return KindImage
}
