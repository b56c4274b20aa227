package stegano
import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"errors"
	"testing"
	"encoding/binary"

	"stegbox/stegano/payload"
	"stegbox/stegano/stegerr"
)

func makePNGDecoy( t *testing.T, width, height int ) []byte {
	rgba := image.NewRGBA( image.Rect( 0, 0, width, height ) )
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rgba.Set( x, y, color.RGBA{
				uint8( (x * 7 + y * 13) & 0xff ),
				uint8( (x * 3 + y * 5) & 0xff ),
				uint8( (x * 11 + y * 17) & 0xff ),
				255,
			})
		}
	}
	buf := bytes.NewBuffer( nil )
	if err := png.Encode( buf, rgba ); err != nil {
		t.Fatalf("Failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func makeWAVDecoy( t *testing.T, sampleCount int ) []byte {
	buf := bytes.NewBuffer( nil )
	buf.WriteString( "RIFF" )
	binary.Write( buf, binary.LittleEndian, uint32( 36 + sampleCount * 2 ) )
	buf.WriteString( "WAVE" )
	buf.WriteString( "fmt " )
	binary.Write( buf, binary.LittleEndian, uint32(16) )
	binary.Write( buf, binary.LittleEndian, uint16(1) )
	binary.Write( buf, binary.LittleEndian, uint16(1) )
	binary.Write( buf, binary.LittleEndian, uint32(44100) )
	binary.Write( buf, binary.LittleEndian, uint32(88200) )
	binary.Write( buf, binary.LittleEndian, uint16(2) )
	binary.Write( buf, binary.LittleEndian, uint16(16) )
	buf.WriteString( "data" )
	binary.Write( buf, binary.LittleEndian, uint32( sampleCount * 2 ) )
	for i := 0; i < sampleCount; i++ {
		binary.Write( buf, binary.LittleEndian, uint16( 0x1000 + i % 512 ) )
	}
	return buf.Bytes()
}

func testItems() []payload.SecretItem {
	return []payload.SecretItem{
		{ Kind: payload.KindText, Name: "message.txt", Mime: "text/plain", Data: []byte("hello") },
		{ Kind: payload.KindFile, Name: "secret.bin", Mime: "application/octet-stream",
			Data: bytes.Repeat( []byte{ 0x42 }, 17 ) },
	}
}

func checkRecovered( t *testing.T, items, got []payload.SecretItem ) {
	if len(got) != len(items) {
		t.Fatalf("Expected %d items, got %d", len(items), len(got))
	}
	for i := range items {
		if got[i].Kind != items[i].Kind || got[i].Name != items[i].Name ||
			got[i].Mime != items[i].Mime {
			t.Errorf("Item %d metadata changed: %+v != %+v", i, got[i], items[i])
		}
		if bytes.Equal( got[i].Data, items[i].Data ) == false {
			t.Errorf("Item %d bytes changed", i)
		}
	}
}

func TestRoundTripAllCarriers( t *testing.T ) {
	kinds := []string{ KindImage, KindAudio }
	passwords := []string{ "", "hunter2" }

	for _, kind := range kinds {
		for _, password := range passwords {
			decoy := makePNGDecoy( t, 64, 64 )
			if kind == KindAudio {
				decoy = makeWAVDecoy( t, 4096 )
			}

			stego, err := Embed( decoy, kind, testItems(), password )
			if err != nil {
				t.Fatalf("%s/%q: failed to embed: %v", kind, password, err)
			}
			got, err := Extract( stego, kind, password )
			if err != nil {
				t.Fatalf("%s/%q: failed to extract: %v", kind, password, err)
			}
			checkRecovered( t, testItems(), got )
		}
	}
}

func TestUnsupportedCarrierKind( t *testing.T ) {
	_, err := Embed( makePNGDecoy( t, 8, 8 ), "video", testItems(), "" )
	var inputErr *stegerr.InputError
	if errors.As( err, &inputErr ) == false {
		t.Errorf("Expected InputError for an unsupported kind, got %v", err)
	}

	_, err = Extract( makePNGDecoy( t, 8, 8 ), "video", "" )
	if errors.As( err, &inputErr ) == false {
		t.Errorf("Expected InputError for an unsupported kind, got %v", err)
	}
}

func TestEmbedRejectsEmptyItems( t *testing.T ) {
	_, err := Embed( makePNGDecoy( t, 8, 8 ), KindImage, nil, "" )
	var inputErr *stegerr.InputError
	if errors.As( err, &inputErr ) == false {
		t.Errorf("Expected InputError for no items, got %v", err)
	}
}

// a carrier that never had anything embedded must be rejected cleanly.
func TestMagicMismatchOnCleanCarrier( t *testing.T ) {
	for _, kind := range []string{ KindImage, KindAudio } {
		decoy := makePNGDecoy( t, 64, 64 )
		if kind == KindAudio {
			decoy = makeWAVDecoy( t, 4096 )
		}
		items, err := Extract( decoy, kind, "" )
		if items != nil {
			t.Errorf("%s: got items out of a clean carrier", kind)
		}
		var formatErr *stegerr.FormatError
		if errors.As( err, &formatErr ) == false {
			t.Errorf("%s: expected FormatError, got %v", kind, err)
		}
	}
}

func TestCapacityErrorLeavesCarrierUntouched( t *testing.T ) {
	decoy := makeWAVDecoy( t, 256 )	// 256 bits = 32 bytes, far too small
	original := bytes.Clone( decoy )

	items := []payload.SecretItem{
		{ Kind: payload.KindFile, Name: "big.bin", Mime: "application/octet-stream",
			Data: bytes.Repeat( []byte{ 1 }, 4096 ) },
	}
	_, err := Embed( decoy, KindAudio, items, "" )
	var capErr *stegerr.CapacityError
	if errors.As( err, &capErr ) == false {
		t.Fatalf("Expected CapacityError, got %v", err)
	}
	if capErr.RequiredKB <= capErr.AvailableKB {
		t.Errorf("CapacityError sizes look wrong: %+v", capErr)
	}
	if bytes.Equal( decoy, original ) == false {
		t.Errorf("The carrier was mutated before the capacity check failed")
	}
}

func TestWrongPasswordThroughPipeline( t *testing.T ) {
	stego, err := Embed( makePNGDecoy( t, 64, 64 ), KindImage, testItems(), "right" )
	if err != nil {
		t.Fatalf("Failed to embed: %v", err)
	}

	var authErr *stegerr.AuthError
	_, err = Extract( stego, KindImage, "wrong" )
	if errors.As( err, &authErr ) == false {
		t.Errorf("Expected AuthError for a wrong password, got %v", err)
	}
	_, err = Extract( stego, KindImage, "" )
	if errors.As( err, &authErr ) == false {
		t.Errorf("Expected AuthError for a missing password, got %v", err)
	}
}

func TestDetectKind( t *testing.T ) {
	if DetectKind( makeWAVDecoy( t, 16 ) ) != KindAudio {
		t.Errorf("WAV decoy not detected as audio")
	}
	if DetectKind( makePNGDecoy( t, 4, 4 ) ) != KindImage {
		t.Errorf("PNG decoy not detected as image")
	}
}

func TestCarrierSamples( t *testing.T ) {
	samples, err := CarrierSamples( makePNGDecoy( t, 16, 16 ) )
	if err != nil {
		t.Fatalf("Failed to get image samples: %v", err)
	}
	if len(samples) != 16 * 16 * 3 {
		t.Errorf("Expected %d image samples, got %d", 16 * 16 * 3, len(samples))
	}

	samples, err = CarrierSamples( makeWAVDecoy( t, 128 ) )
	if err != nil {
		t.Fatalf("Failed to get audio samples: %v", err)
	}
	if len(samples) != 128 {
		t.Errorf("Expected 128 audio samples, got %d", len(samples))
	}
}
