package writer

import (
	"bytes"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/wudi/invoicekit/ir/raw"
	"github.com/wudi/invoicekit/ir/semantic"
)

// encoder appends PDF syntax to a buffer. Dictionary keys are sorted, so the
// same object always encodes to the same bytes.
type encoder struct{ bytes.Buffer }

func (e *encoder) object(o raw.Object) {
	switch v := o.(type) {
	case raw.NameObj:
		e.name(v.Value())
	case raw.NumberObj:
		if v.IsInteger() {
			e.WriteString(strconv.FormatInt(v.Int(), 10))
		} else {
			e.WriteString(formatNumber(v.Float()))
		}
	case raw.BoolObj:
		e.WriteString(strconv.FormatBool(v.Value()))
	case raw.String:
		e.str(v.Value(), v.IsHex())
	case *raw.ArrayObj:
		e.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				e.WriteByte(' ')
			}
			e.object(it)
		}
		e.WriteByte(']')
	case *raw.DictObj:
		e.WriteString("<<")
		for _, k := range slices.Sorted(maps.Keys(v.KV)) {
			e.name(k)
			e.WriteByte(' ')
			e.object(v.KV[k])
		}
		e.WriteString(">>")
	case *raw.StreamObj:
		e.object(v.Dict)
		e.WriteString("\nstream\n")
		e.Write(v.Data)
		e.WriteString("\nendstream")
	case raw.RefObj:
		fmt.Fprintf(e, "%d %d R", v.Ref().Num, v.Ref().Gen)
	default:
		e.WriteString("null")
	}
}

// operations writes a content stream, one operator per line.
func (e *encoder) operations(ops []semantic.Operation) {
	for _, op := range ops {
		for _, operand := range op.Operands {
			e.operand(operand)
			e.WriteByte(' ')
		}
		e.WriteString(op.Operator)
		e.WriteByte('\n')
	}
}

func (e *encoder) operand(op semantic.Operand) {
	switch v := op.(type) {
	case semantic.NumberOperand:
		e.WriteString(formatNumber(v.Value))
	case semantic.NameOperand:
		e.name(v.Value)
	case semantic.StringOperand:
		e.str(v.Value, false)
	case semantic.HexStringOperand:
		e.str(v.Value, true)
	case semantic.ArrayOperand:
		e.WriteByte('[')
		for i, it := range v.Values {
			if i > 0 {
				e.WriteByte(' ')
			}
			e.operand(it)
		}
		e.WriteByte(']')
	default:
		e.WriteString("null")
	}
}

// name writes /n, escaping every byte that is not a regular character as #XX.
func (e *encoder) name(n string) {
	e.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte("#%()/<>[]{}", c) >= 0 {
			fmt.Fprintf(e, "#%02X", c)
			continue
		}
		e.WriteByte(c)
	}
}

var literalEscapes = map[byte]string{
	'\\': `\\`, '(': `\(`, ')': `\)`,
	'\n': `\n`, '\r': `\r`, '\t': `\t`, '\b': `\b`, '\f': `\f`,
}

func (e *encoder) str(b []byte, hex bool) {
	if hex {
		fmt.Fprintf(e, "<%X>", b)
		return
	}
	e.WriteByte('(')
	for _, c := range b {
		switch esc, ok := literalEscapes[c]; {
		case ok:
			e.WriteString(esc)
		case c < 0x20 || c >= 0x80:
			fmt.Fprintf(e, `\%03o`, c)
		default:
			e.WriteByte(c)
		}
	}
	e.WriteByte(')')
}

// formatNumber writes v in plain decimal notation with at most four
// fractional digits; PDF has no exponent syntax.
func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}

// textString encodes s as a PDF text string: a literal when it is ASCII,
// UTF-16BE with a byte order mark otherwise.
func textString(s string) raw.StringObj {
	if strings.IndexFunc(s, func(r rune) bool { return r >= utf8.RuneSelf }) < 0 {
		return raw.Str([]byte(s))
	}
	out := []byte{0xFE, 0xFF}
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return raw.HexStr(out)
}

// contentBytes returns the stream body of cs, keeping pre-encoded bytes.
func contentBytes(cs semantic.ContentStream) []byte {
	if len(cs.RawBytes) > 0 {
		return cs.RawBytes
	}
	var e encoder
	e.operations(cs.Operations)
	return e.Bytes()
}
