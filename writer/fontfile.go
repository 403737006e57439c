package writer

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/wudi/invoicekit/ir/raw"
	"github.com/wudi/invoicekit/ir/semantic"
)

const (
	cmapHeader = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (%s) /Ordering (UCS) /Supplement %d >> def
/CMapName %s def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
`
	cmapFooter = `endcmap
CMapName currentdict /CMap defineresource pop
end
end
`
	// bfchar blocks hold at most 100 entries.
	bfcharBlock = 100
)

// toUnicodeCMap maps every glyph ID the page used back to the text it was
// shaped from, so the invoice stays searchable and copyable. It returns nil
// when the font has no such mapping.
func toUnicodeCMap(font *semantic.Font) []byte {
	if font == nil {
		return nil
	}
	var gids []int
	for gid, runes := range font.ToUnicode {
		if len(runes) > 0 {
			gids = append(gids, gid)
		}
	}
	if len(gids) == 0 {
		return nil
	}
	slices.Sort(gids)

	registry, supplement := "Adobe", 0
	if csi := font.CIDSystemInfo; csi != nil {
		if csi.Registry != "" {
			registry = csi.Registry
		}
		supplement = csi.Supplement
	}
	base := cmp.Or(font.BaseFont, "ToUnicode")
	var cmapName encoder
	cmapName.name(strings.ReplaceAll(base, " ", "") + "-UTF16")

	var e encoder
	fmt.Fprintf(&e, cmapHeader, registry, supplement, cmapName.String())
	for block := range slices.Chunk(gids, bfcharBlock) {
		fmt.Fprintf(&e, "%d beginbfchar\n", len(block))
		for _, gid := range block {
			fmt.Fprintf(&e, "<%04X> <", gid)
			for _, u := range utf16.Encode(font.ToUnicode[gid]) {
				fmt.Fprintf(&e, "%04X", u)
			}
			e.WriteString(">\n")
		}
		e.WriteString("endbfchar\n")
	}
	e.WriteString(cmapFooter)
	return e.Bytes()
}

// encodeCIDWidths writes widths as a W array of "first last width" runs over
// consecutive glyph IDs sharing one advance.
func encodeCIDWidths(widths map[int]int) *raw.ArrayObj {
	arr := raw.NewArray()
	gids := slices.Sorted(maps.Keys(widths))
	for i := 0; i < len(gids); {
		j := i
		for j+1 < len(gids) && gids[j+1] == gids[j]+1 && widths[gids[j+1]] == widths[gids[i]] {
			j++
		}
		arr.Items = append(arr.Items,
			raw.NumberInt(int64(gids[i])),
			raw.NumberInt(int64(gids[j])),
			raw.NumberInt(int64(widths[gids[i]])))
		i = j + 1
	}
	return arr
}
