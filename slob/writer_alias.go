package slob

import (
	"bytes"

	"github.com/arloliu/goslob/collation"
	"github.com/arloliu/goslob/structcodec"
)

// Alias targets and resolved alias refs are serialized as plain
// structcodec records; this encoding is internal to the build session
// and never appears in a finalized file.

// encodeAliasTarget serializes a (key, fragment) pair as the content of
// an alias entry.
func encodeAliasTarget(key, fragment string) []byte {
	var buf bytes.Buffer
	w := structcodec.NewWriter(&buf, nil)
	_ = w.WriteText(key)
	_ = w.WriteTinyText(fragment, false)
	return buf.Bytes()
}

func decodeAliasTarget(b []byte) (key, fragment string, err error) {
	r := structcodec.NewReader(bytes.NewReader(b), nil)
	if key, err = r.ReadText(); err != nil {
		return "", "", err
	}
	if fragment, err = r.ReadTinyText(); err != nil {
		return "", "", err
	}
	return key, fragment, nil
}

// aliasRef is the resolved (key -> bin_index/item_index/fragment) record
// written to the resolved-aliases sub-writer.
type aliasRef struct {
	Key       string
	BinIndex  uint32
	ItemIndex uint16
	Fragment  string
}

func encodeAliasRef(ref aliasRef) []byte {
	var buf bytes.Buffer
	w := structcodec.NewWriter(&buf, nil)
	_ = w.WriteText(ref.Key)
	_ = w.WriteUint32(ref.BinIndex)
	_ = w.WriteUint16(ref.ItemIndex)
	_ = w.WriteTinyText(ref.Fragment, false)
	return buf.Bytes()
}

func decodeAliasRef(b []byte) (aliasRef, error) {
	var ref aliasRef
	r := structcodec.NewReader(bytes.NewReader(b), nil)
	var err error
	if ref.Key, err = r.ReadText(); err != nil {
		return ref, err
	}
	if ref.BinIndex, err = r.ReadUint32(); err != nil {
		return ref, err
	}
	if ref.ItemIndex, err = r.ReadUint16(); err != nil {
		return ref, err
	}
	if ref.Fragment, err = r.ReadTinyText(); err != nil {
		return ref, err
	}
	return ref, nil
}

// resolveAliases finalizes the alias sub-writer, follows every chain up
// to max_redirects hops, and appends the resolved refs to the main ref
// streams.
func (w *Writer) resolveAliases() error {
	if w.aliasWriter == nil {
		return nil
	}

	notify(w.observer, EventBeginResolveAliases, nil)

	if err := w.aliasWriter.Finalize(); err != nil {
		return err
	}

	mainList, closeMainList, err := w.openMainRefList()
	if err != nil {
		return err
	}
	defer closeMainList()
	refDict := mainList.AsDict(collation.Identical, 0)

	aliasReader, err := Open(w.aliasWriter.filename)
	if err != nil {
		return err
	}
	defer aliasReader.Close()
	aliasDict := aliasReader.AsDict(collation.Identical, 0)

	resolvedPath := w.workDir + "/resolved-aliases"
	resolvedWriter, err := NewWriter(resolvedPath,
		WithWorkDir(w.workDir),
		WithEncoding(w.encoding),
		WithCompression(""),
		WithMaxRedirects(0),
	)
	if err != nil {
		return err
	}

	iterErr := aliasReader.Iterate(func(b *Blob) (bool, error) {
		fromKey := b.Key()
		content, err := b.Content()
		if err != nil {
			return false, err
		}
		toKey, fragment, err := decodeAliasTarget(content)
		if err != nil {
			return false, err
		}

		visited := map[string]struct{}{fromKey: {}}
		count := 0
		for count <= w.maxRedirects {
			matches, err := aliasDict.Lookup(toKey)
			if err != nil {
				return false, err
			}
			if len(matches) == 0 {
				break
			}
			m := matches[0]
			nextBlob, err := aliasReader.blobRefContent(m)
			if err != nil {
				return false, err
			}
			nextKey, nextFragment, err := decodeAliasTarget(nextBlob)
			if err != nil {
				return false, err
			}
			count++
			visited[toKey] = struct{}{}
			toKey, fragment = nextKey, nextFragment
		}

		if count > w.maxRedirects {
			notify(w.observer, EventTooManyRedirects, fromKey)
		}

		targets, err := refDict.Lookup(toKey)
		if err != nil {
			return false, err
		}
		if len(targets) == 0 {
			notify(w.observer, EventAliasTargetNotFound, toKey)
			return true, nil
		}
		target := targets[0]
		finalFragment := fragment
		if target.Fragment != "" {
			finalFragment = target.Fragment
		}

		for key := range visited {
			ref := aliasRef{Key: key, BinIndex: target.BinIndex, ItemIndex: target.ItemIndex, Fragment: finalFragment}
			if err := resolvedWriter.Add(encodeAliasRef(ref), "", K(key)); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if iterErr != nil {
		resolvedWriter.Close()
		return iterErr
	}

	if err := resolvedWriter.Finalize(); err != nil {
		return err
	}

	resolvedReader, err := Open(resolvedPath)
	if err != nil {
		return err
	}
	defer resolvedReader.Close()

	var previousKey string
	first := true
	err = resolvedReader.Iterate(func(b *Blob) (bool, error) {
		content, err := b.Content()
		if err != nil {
			return false, err
		}
		ref, err := decodeAliasRef(content)
		if err != nil {
			return false, err
		}
		if !first && ref.Key == previousKey {
			return true, nil
		}
		first = false
		previousKey = ref.Key
		return true, w.writeRef(ref.Key, ref.BinIndex, ref.ItemIndex, ref.Fragment)
	})
	if err != nil {
		return err
	}

	notify(w.observer, EventEndResolveAliases, nil)

	return w.sortRefs()
}
