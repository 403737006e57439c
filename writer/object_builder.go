package writer

import (
	"bytes"
	"cmp"
	"compress/zlib"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/wudi/invoicekit/ir/raw"
	"github.com/wudi/invoicekit/ir/semantic"
)

// objectBuilder numbers the indirect objects of a document: the catalog and
// page tree, the info dictionary, one content stream per page and the
// composite font tree of every embedded face.
type objectBuilder struct {
	doc     *semantic.Document
	cfg     Config
	objects map[raw.ObjectRef]raw.Object
	next    int
	fonts   map[*semantic.Font]raw.ObjectRef
}

func newObjectBuilder(doc *semantic.Document, cfg Config) *objectBuilder {
	return &objectBuilder{
		doc:     doc,
		cfg:     cfg,
		objects: make(map[raw.ObjectRef]raw.Object),
		next:    1,
		fonts:   make(map[*semantic.Font]raw.ObjectRef),
	}
}

func name(v string) raw.NameObj { return raw.NameLiteral(v) }

func refTo(r raw.ObjectRef) raw.RefObj { return raw.Ref(r.Num, r.Gen) }

func dict(kv map[string]raw.Object) *raw.DictObj { return &raw.DictObj{KV: kv} }

// reserve hands out the next object number without storing anything, for
// objects that must point at children built after them.
func (b *objectBuilder) reserve() raw.ObjectRef {
	r := raw.ObjectRef{Num: b.next}
	b.next++
	return r
}

func (b *objectBuilder) put(o raw.Object) raw.ObjectRef {
	r := b.reserve()
	b.objects[r] = o
	return r
}

// Build returns the objects with the catalog and, when there is one, the
// info dictionary.
func (b *objectBuilder) Build() (map[raw.ObjectRef]raw.Object, raw.ObjectRef, *raw.ObjectRef, error) {
	catalog := b.reserve()
	pages := b.reserve()
	info := b.info()

	kids := raw.NewArray()
	for _, p := range b.doc.Pages {
		ref, err := b.page(p, pages)
		if err != nil {
			return nil, raw.ObjectRef{}, nil, fmt.Errorf("page %d: %w", p.Index, err)
		}
		kids.Append(refTo(ref))
	}
	b.objects[pages] = dict(map[string]raw.Object{
		"Type":  name("Pages"),
		"Count": raw.NumberInt(int64(kids.Len())),
		"Kids":  kids,
	})

	cat := dict(map[string]raw.Object{"Type": name("Catalog"), "Pages": refTo(pages)})
	if b.doc.Lang != "" {
		cat.Set(name("Lang"), raw.Str([]byte(b.doc.Lang)))
	}
	b.objects[catalog] = cat
	return b.objects, catalog, info, nil
}

func (b *objectBuilder) info() *raw.ObjectRef {
	in := b.doc.Info
	if in == nil {
		return nil
	}
	d := raw.Dict()
	for _, e := range []struct{ key, value string }{
		{"Title", in.Title},
		{"Author", in.Author},
		{"Subject", in.Subject},
		{"Creator", in.Creator},
		{"Producer", in.Producer},
		{"Keywords", strings.Join(in.Keywords, ",")},
	} {
		if e.value != "" {
			d.Set(name(e.key), textString(e.value))
		}
	}
	if d.Len() == 0 {
		return nil
	}
	ref := b.put(d)
	return &ref
}

func (b *objectBuilder) page(p *semantic.Page, parent raw.ObjectRef) (raw.ObjectRef, error) {
	var content []byte
	for _, cs := range p.Contents {
		content = append(content, contentBytes(cs)...)
	}
	stream, err := b.stream(raw.Dict(), content)
	if err != nil {
		return raw.ObjectRef{}, err
	}
	contents := b.put(stream)
	ref := b.reserve()

	fonts := raw.Dict()
	if p.Resources != nil {
		// Sorted so object numbers do not depend on map order.
		for _, key := range slices.Sorted(maps.Keys(p.Resources.Fonts)) {
			f, err := b.font(p.Resources.Fonts[key])
			if err != nil {
				return raw.ObjectRef{}, fmt.Errorf("font %s: %w", key, err)
			}
			fonts.Set(name(key), refTo(f))
		}
	}
	res := dict(map[string]raw.Object{"ProcSet": raw.NewArray(name("PDF"), name("Text"))})
	if fonts.Len() > 0 {
		res.Set(name("Font"), fonts)
	}

	box := p.MediaBox
	b.objects[ref] = dict(map[string]raw.Object{
		"Type":   name("Page"),
		"Parent": refTo(parent),
		"MediaBox": raw.NewArray(
			raw.NumberFloat(box.LLX), raw.NumberFloat(box.LLY),
			raw.NumberFloat(box.URX), raw.NumberFloat(box.URY)),
		"Resources": res,
		"Contents":  refTo(contents),
	})
	return ref, nil
}

var errFontKind = errors.New("only Type0 fonts with a CIDFontType2 descendant can be written")

// font writes f once per document however many pages use it: the Type0
// dictionary, its descendant, the descriptor with the embedded TrueType
// program and the ToUnicode CMap.
func (b *objectBuilder) font(f *semantic.Font) (raw.ObjectRef, error) {
	if ref, ok := b.fonts[f]; ok {
		return ref, nil
	}
	if f == nil || f.Subtype != "Type0" || f.DescendantFont == nil ||
		cmp.Or(f.DescendantFont.Subtype, "CIDFontType2") != "CIDFontType2" {
		return raw.ObjectRef{}, errFontKind
	}
	ref := b.reserve()
	b.fonts[f] = ref

	base := name(cmp.Or(f.BaseFont, f.DescendantFont.BaseFont))
	descendant, err := b.cidFont(f, base)
	if err != nil {
		return raw.ObjectRef{}, err
	}
	top := dict(map[string]raw.Object{
		"Type":            name("Font"),
		"Subtype":         name("Type0"),
		"BaseFont":        base,
		"Encoding":        name(cmp.Or(f.Encoding, "Identity-H")),
		"DescendantFonts": raw.NewArray(refTo(descendant)),
	})
	if cmap := toUnicodeCMap(f); cmap != nil {
		s, err := b.stream(raw.Dict(), cmap)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		top.Set(name("ToUnicode"), refTo(b.put(s)))
	}
	b.objects[ref] = top
	return ref, nil
}

func (b *objectBuilder) cidFont(f *semantic.Font, base raw.NameObj) (raw.ObjectRef, error) {
	desc := f.DescendantFont
	ref := b.reserve()

	csi := desc.CIDSystemInfo
	if f.CIDSystemInfo != nil {
		csi = *f.CIDSystemInfo
	}
	d := dict(map[string]raw.Object{
		"Type":        name("Font"),
		"Subtype":     name("CIDFontType2"),
		"BaseFont":    base,
		"CIDToGIDMap": name("Identity"),
		"CIDSystemInfo": dict(map[string]raw.Object{
			"Registry":   raw.Str([]byte(cmp.Or(csi.Registry, "Adobe"))),
			"Ordering":   raw.Str([]byte(cmp.Or(csi.Ordering, "Identity"))),
			"Supplement": raw.NumberInt(int64(csi.Supplement)),
		}),
		"DW": raw.NumberInt(int64(cmp.Or(desc.DW, 1000))),
	})
	widths := desc.W
	if len(widths) == 0 {
		widths = f.Widths
	}
	if len(widths) > 0 {
		d.Set(name("W"), encodeCIDWidths(widths))
	}

	fd := desc.Descriptor
	if fd == nil {
		fd = f.Descriptor
	}
	if fd != nil {
		fdRef, err := b.descriptor(fd)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		d.Set(name("FontDescriptor"), refTo(fdRef))
	}
	b.objects[ref] = d
	return ref, nil
}

func (b *objectBuilder) descriptor(fd *semantic.FontDescriptor) (raw.ObjectRef, error) {
	ref := b.reserve()
	bbox := raw.NewArray()
	for _, v := range fd.FontBBox {
		bbox.Append(raw.NumberFloat(v))
	}
	d := dict(map[string]raw.Object{
		"Type":     name("FontDescriptor"),
		"FontName": name(cmp.Or(fd.FontName, "CustomFont")),
		// 32 is the nonsymbolic flag.
		"Flags":       raw.NumberInt(int64(cmp.Or(fd.Flags, 32))),
		"ItalicAngle": raw.NumberFloat(fd.ItalicAngle),
		"Ascent":      raw.NumberFloat(fd.Ascent),
		"Descent":     raw.NumberFloat(fd.Descent),
		"CapHeight":   raw.NumberFloat(fd.CapHeight),
		"StemV":       raw.NumberInt(int64(cmp.Or(fd.StemV, 80))),
		"FontBBox":    bbox,
	})
	if len(fd.FontFile) > 0 {
		s, err := b.stream(dict(map[string]raw.Object{
			"Length1": raw.NumberInt(int64(len(fd.FontFile))),
		}), fd.FontFile)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		d.Set(name(cmp.Or(fd.FontFileType, "FontFile2")), refTo(b.put(s)))
	}
	b.objects[ref] = d
	return ref, nil
}

// stream deflates data when FilterFlate is set or a compression level is
// given, and records Filter and Length.
func (b *objectBuilder) stream(d *raw.DictObj, data []byte) (*raw.StreamObj, error) {
	if b.cfg.ContentFilter == FilterFlate || b.cfg.Compression != 0 {
		level := b.cfg.Compression
		if level == 0 {
			level = zlib.DefaultCompression
		}
		var packed bytes.Buffer
		zw, err := zlib.NewWriterLevel(&packed, level)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		data = packed.Bytes()
		d.Set(name("Filter"), name("FlateDecode"))
	}
	d.Set(name("Length"), raw.NumberInt(int64(len(data))))
	return raw.NewStream(d, data), nil
}
