package writer

import (
	"bytes"
	"cmp"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/wudi/invoicekit/ir/raw"
	"github.com/wudi/invoicekit/ir/semantic"
)

type impl struct{ interceptors []Interceptor }

func (w *impl) SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error) {
	if obj == nil {
		return nil, fmt.Errorf("object %d %d: nil object", ref.Num, ref.Gen)
	}
	var e encoder
	fmt.Fprintf(&e, "%d %d obj\n", ref.Num, ref.Gen)
	e.object(obj)
	e.WriteString("\nendobj\n")
	return e.Bytes(), nil
}

func (w *impl) Write(ctx Context, doc *semantic.Document, out io.Writer, cfg Config) error {
	if doc == nil {
		return errors.New("nil document")
	}
	if len(doc.Pages) == 0 {
		return errors.New("document has no pages")
	}
	objects, catalogRef, infoRef, err := newObjectBuilder(doc, cfg).Build()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-" + string(cmp.Or(cfg.Version, PDF17)) + "\n%\xE2\xE3\xCF\xD3\n")

	ordered := make([]raw.ObjectRef, 0, len(objects))
	for ref := range objects {
		ordered = append(ordered, ref)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Num < ordered[j].Num })

	offsets := make(map[int]int64, len(ordered))
	for _, ref := range ordered {
		if err := contextErr(ctx); err != nil {
			return err
		}
		obj := objects[ref]
		for _, ic := range w.interceptors {
			if err := ic.BeforeWrite(ctx, obj); err != nil {
				return fmt.Errorf("before write %d %d: %w", ref.Num, ref.Gen, err)
			}
		}
		serialized, err := w.SerializeObject(ref, obj)
		if err != nil {
			return err
		}
		offsets[ref.Num] = int64(buf.Len())
		buf.Write(serialized)
		for _, ic := range w.interceptors {
			if err := ic.AfterWrite(ctx, obj, int64(len(serialized))); err != nil {
				return fmt.Errorf("after write %d %d: %w", ref.Num, ref.Gen, err)
			}
		}
	}

	xrefOffset := buf.Len()
	maxObjNum := ordered[len(ordered)-1].Num
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxObjNum+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxObjNum; i++ {
		if off, ok := offsets[i]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}

	first, second := fileID(buf.Bytes()[:xrefOffset], cfg.Deterministic)
	trailer := dict(map[string]raw.Object{
		"Size": raw.NumberInt(int64(maxObjNum + 1)),
		"Root": refTo(catalogRef),
		"ID":   raw.NewArray(raw.HexStr(first), raw.HexStr(second)),
	})
	if infoRef != nil {
		trailer.Set(name("Info"), refTo(*infoRef))
	}
	var e encoder
	e.WriteString("trailer\n")
	e.object(trailer)
	fmt.Fprintf(&e, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)
	buf.Write(e.Bytes())

	_, err = out.Write(buf.Bytes())
	return err
}

// fileID returns the two halves of the trailer ID. The second is the first
// 16 bytes of the SHA-256 of body, the file up to its xref table, so equal
// invoices written deterministically share an ID. Otherwise the first half
// is random.
func fileID(body []byte, deterministic bool) (first, second []byte) {
	sum := sha256.Sum256(body)
	second = sum[:16]
	if deterministic {
		return second, second
	}
	first = make([]byte, 16)
	if _, err := rand.Read(first); err != nil {
		return second, second
	}
	return first, second
}

func contextErr(ctx Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("write canceled: %w", ctx.Err())
	default:
		return nil
	}
}
