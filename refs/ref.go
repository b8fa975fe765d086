package refs

import (
	"github.com/arloliu/goslob/structcodec"
)

// Ref is a locator: a key (with optional fragment) pointing at
// (bin_index, item_index).
type Ref struct {
	Key       string
	BinIndex  uint32
	ItemIndex uint16
	Fragment  string
}

// decodeRef reads one ref record: text key, u32 bin_index, u16 item_index,
// tiny_text fragment.
func decodeRef(r *structcodec.Reader) (Ref, error) {
	var ref Ref
	var err error

	ref.Key, err = r.ReadText()
	if err != nil {
		return ref, err
	}
	ref.BinIndex, err = r.ReadUint32()
	if err != nil {
		return ref, err
	}
	ref.ItemIndex, err = r.ReadUint16()
	if err != nil {
		return ref, err
	}
	ref.Fragment, err = r.ReadTinyText()
	if err != nil {
		return ref, err
	}
	return ref, nil
}

// encodeRef writes one ref record in the same layout decodeRef reads.
func encodeRef(w *structcodec.Writer, ref Ref) error {
	if err := w.WriteText(ref.Key); err != nil {
		return err
	}
	if err := w.WriteUint32(ref.BinIndex); err != nil {
		return err
	}
	if err := w.WriteUint16(ref.ItemIndex); err != nil {
		return err
	}
	return w.WriteTinyText(ref.Fragment, false)
}
