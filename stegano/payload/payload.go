package payload
import (
	"bytes"
	"encoding/json"
	"encoding/binary"

	"stegbox/stegano/stegerr"
)

/*
 * the plain container format:
 *	"STEGv1"(6) | metaLen:u32 BE(4) | metaJSON(metaLen) | item bytes...
 * metaJSON = {"v":1,"items":[{"t":"text"|"file","name":...,"mime":...,"len":...}]}
 * item bytes are concatenated in listed order with no separators.
 */

const (
	MagicLen = 6
	HeaderLen = MagicLen + 4

	KindText = "text"
	KindFile = "file"

	Version = 1
)

var (
	Magic = [MagicLen]byte{ 'S', 'T', 'E', 'G', 'v', '1' }
)

type SecretItem struct {
	Kind	string
	Name	string
	Mime	string
	Data	[]byte
}

type metaItem struct {
	Kind	string	`json:"t"`
	Name	string	`json:"name"`
	Mime	string	`json:"mime"`
	Length	uint32	`json:"len"`
}

type metaBlock struct {
	Version	int		`json:"v"`
	Items	[]metaItem	`json:"items"`
}

func Pack( items []SecretItem ) ([]byte, error) {
	if len(items) == 0 {
		return nil, stegerr.Inputf("No secret items to hide.")
	}
	meta := metaBlock{ Version: Version }
	for _, item := range items {
		meta.Items = append( meta.Items, metaItem{
			item.Kind,
			item.Name,
			item.Mime,
			uint32( len(item.Data) ),
		})
	}
	metaJson, err := json.Marshal( meta )
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer( nil )
	buf.Write( Magic[:] )
	lenField := make( []byte, 4 )
	binary.BigEndian.PutUint32( lenField, uint32(len(metaJson)) )
	buf.Write( lenField )
	buf.Write( metaJson )
	for _, item := range items {
		buf.Write( item.Data )
	}
	return buf.Bytes(), nil
}

// DataLength reports how many item bytes follow a metadata block,
// so the extractor knows how much further to read.
func DataLength( metaJson []byte ) (uint64, error) {
	meta, err := decodeMeta( metaJson )
	if err != nil {
		return 0, err
	}
	total := uint64(0)
	for _, item := range meta.Items {
		total += uint64( item.Length )
	}
	return total, nil
}

func decodeMeta( metaJson []byte ) (*metaBlock, error) {
	var meta metaBlock
	if err := json.Unmarshal( metaJson, &meta ); err != nil {
		return nil, stegerr.Formatf("Invalid container metadata: %v.", err)
	}
	if len(meta.Items) == 0 {
		return nil, stegerr.Formatf("Container metadata lists no items.")
	}
	return &meta, nil
}

// Parse is all or nothing: any defect aborts without a partial item list.
func Parse( container []byte ) ([]SecretItem, error) {
	if len(container) < HeaderLen {
		return nil, stegerr.Formatf("Container is too short to hold a header.")
	}
	if bytes.Equal( container[:MagicLen], Magic[:] ) == false {
		return nil, stegerr.Formatf("Magic mismatch, this is not a stego container.")
	}
	metaLen := binary.BigEndian.Uint32( container[MagicLen:HeaderLen] )
	rest := container[HeaderLen:]
	if uint64(metaLen) > uint64(len(rest)) {
		return nil, stegerr.Formatf("Declared metadata length %d runs past the container.", metaLen )
	}
	meta, err := decodeMeta( rest[:metaLen] )
	if err != nil {
		return nil, err
	}

	data := rest[metaLen:]
	items := make( []SecretItem, 0, len(meta.Items) )
	offset := uint64(0)
	for _, mi := range meta.Items {
		end := offset + uint64(mi.Length)
		if end > uint64(len(data)) {
			return nil, stegerr.Formatf("Item %q runs past the container data.", mi.Name )
		}
		itemData := make( []byte, mi.Length )
		copy( itemData, data[offset:end] )
		items = append( items, SecretItem{ mi.Kind, mi.Name, mi.Mime, itemData } )
		offset = end
	}
	return items, nil
}
