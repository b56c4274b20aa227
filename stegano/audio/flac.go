package audio
import (
	"io"
	"bytes"
	"github.com/mewkiz/flac"

	"stegbox/stegano/stegerr"
)

// flac decoys cannot be embedding targets (re-encoding would disturb
// the bits), but the detector can still score them. DecodeFlacSamples
// flattens a flac stream into its raw sample bytes.
func DecodeFlacSamples( decoy []byte ) ([]byte, error) {
	stream, err := flac.Parse( bytes.NewReader( decoy ) )
	if err != nil {
		return nil, stegerr.Formatf("Failed to parse flac stream: %v.", err)
	}
	defer stream.Close()

	result := []byte{}
	for {
		frame, err := stream.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, stegerr.Formatf("Failed to read flac frame: %v.", err)
		}
		if err = frame.Parse(); err != nil {
			return nil, stegerr.Formatf("Failed to parse flac frame: %v.", err)
		}
		for _, subframe := range frame.Subframes {
			for _, sample := range subframe.Samples {
				result = append( result, byte( sample & 0xff ) )
			}
		}
	}
	return result, nil
}
