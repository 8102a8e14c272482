package pdf

import "math"

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// scaleY approximates the vertical scale factor, used for effective font size.
func (m matrix) scaleY() float64 {
	return math.Hypot(m[1], m[3])
}

type gstate struct {
	ctm      matrix
	stroke   []float64
	fill     []float64
	fontSize float64
}

type pathSeg struct {
	x0, y0, x1, y1 float64
}

// interpreter walks one decoded content stream and collects geometry
// primitives. Glyph decoding is out of scope: text shows become Marks.
type interpreter struct {
	gs    gstate
	stack []gstate

	segs  []pathSeg
	rects []Rect
	curX  float64
	curY  float64
	hasPt bool
	subX  float64
	subY  float64

	tm      matrix
	tlm     matrix
	leading float64

	lines    []Line
	outRects []Rect
	marks    []Mark
}

func newInterpreter() *interpreter {
	return &interpreter{gs: gstate{ctm: identity}}
}

func cloneColor(c []float64) []float64 {
	if c == nil {
		return nil
	}
	out := make([]float64, len(c))
	copy(out, c)
	return out
}

func (ip *interpreter) moveTo(x, y float64) {
	ip.curX, ip.curY = x, y
	ip.subX, ip.subY = x, y
	ip.hasPt = true
}

func (ip *interpreter) lineTo(x, y float64) {
	if ip.hasPt {
		ip.segs = append(ip.segs, pathSeg{ip.curX, ip.curY, x, y})
	}
	ip.curX, ip.curY = x, y
	ip.hasPt = true
}

func (ip *interpreter) closePath() {
	if ip.hasPt {
		ip.lineTo(ip.subX, ip.subY)
	}
}

func (ip *interpreter) addRect(x, y, w, h float64) {
	ip.rects = append(ip.rects, Rect{X0: x, Y0: y, X1: x + w, Y1: y + h})
	ip.curX, ip.curY = x, y
	ip.subX, ip.subY = x, y
	ip.hasPt = true
}

// paint flushes the current path with the active colors.
func (ip *interpreter) paint(stroke, fill bool) {
	sc := cloneColor(ip.gs.stroke)
	fc := cloneColor(ip.gs.fill)
	for _, s := range ip.segs {
		if !stroke {
			continue
		}
		x0, y0 := ip.gs.ctm.apply(s.x0, s.y0)
		x1, y1 := ip.gs.ctm.apply(s.x1, s.y1)
		ip.lines = append(ip.lines, Line{X0: x0, Y0: y0, X1: x1, Y1: y1, Stroke: sc})
	}
	for _, r := range ip.rects {
		x0, y0 := ip.gs.ctm.apply(r.X0, r.Y0)
		x1, y1 := ip.gs.ctm.apply(r.X1, r.Y1)
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		out := Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
		if stroke {
			out.Stroke = sc
		}
		if fill {
			out.Fill = fc
		}
		if stroke || fill {
			ip.outRects = append(ip.outRects, out)
		}
	}
	ip.clearPath()
}

func (ip *interpreter) clearPath() {
	ip.segs = ip.segs[:0]
	ip.rects = ip.rects[:0]
	ip.hasPt = false
}

func (ip *interpreter) showText() {
	m := ip.tm.mul(ip.gs.ctm)
	x, y := m.apply(0, 0)
	ip.marks = append(ip.marks, Mark{
		X:      x,
		Y:      y,
		Size:   ip.gs.fontSize * ip.tm.scaleY() * ip.gs.ctm.scaleY(),
		Stroke: cloneColor(ip.gs.stroke),
		Fill:   cloneColor(ip.gs.fill),
	})
}

func (ip *interpreter) nextLine(tx, ty float64) {
	ip.tlm = matrix{1, 0, 0, 1, tx, ty}.mul(ip.tlm)
	ip.tm = ip.tlm
}

func popFloats(stack []float64, n int) ([]float64, bool) {
	if len(stack) < n {
		return nil, false
	}
	return stack[len(stack)-n:], true
}

// op dispatches one operator with its numeric operands.
func (ip *interpreter) op(name string, stack []float64) {
	switch name {
	case "q":
		saved := ip.gs
		saved.stroke = cloneColor(ip.gs.stroke)
		saved.fill = cloneColor(ip.gs.fill)
		ip.stack = append(ip.stack, saved)
	case "Q":
		if n := len(ip.stack); n > 0 {
			ip.gs = ip.stack[n-1]
			ip.stack = ip.stack[:n-1]
		}
	case "cm":
		if v, ok := popFloats(stack, 6); ok {
			ip.gs.ctm = matrix{v[0], v[1], v[2], v[3], v[4], v[5]}.mul(ip.gs.ctm)
		}

	case "G":
		if v, ok := popFloats(stack, 1); ok {
			ip.gs.stroke = []float64{v[0]}
		}
	case "g":
		if v, ok := popFloats(stack, 1); ok {
			ip.gs.fill = []float64{v[0]}
		}
	case "RG":
		if v, ok := popFloats(stack, 3); ok {
			ip.gs.stroke = []float64{v[0], v[1], v[2]}
		}
	case "rg":
		if v, ok := popFloats(stack, 3); ok {
			ip.gs.fill = []float64{v[0], v[1], v[2]}
		}
	case "K":
		if v, ok := popFloats(stack, 4); ok {
			ip.gs.stroke = []float64{v[0], v[1], v[2], v[3]}
		}
	case "k":
		if v, ok := popFloats(stack, 4); ok {
			ip.gs.fill = []float64{v[0], v[1], v[2], v[3]}
		}
	case "SC", "SCN":
		if len(stack) > 0 && len(stack) <= 4 {
			ip.gs.stroke = append([]float64(nil), stack...)
		}
	case "sc", "scn":
		if len(stack) > 0 && len(stack) <= 4 {
			ip.gs.fill = append([]float64(nil), stack...)
		}

	case "m":
		if v, ok := popFloats(stack, 2); ok {
			ip.moveTo(v[0], v[1])
		}
	case "l":
		if v, ok := popFloats(stack, 2); ok {
			ip.lineTo(v[0], v[1])
		}
	case "re":
		if v, ok := popFloats(stack, 4); ok {
			ip.addRect(v[0], v[1], v[2], v[3])
		}
	case "h":
		ip.closePath()
	case "c":
		// Curves are approximated by their chord: strike-through and border
		// detection only needs straight rules.
		if v, ok := popFloats(stack, 6); ok {
			ip.lineTo(v[4], v[5])
		}
	case "v", "y":
		if v, ok := popFloats(stack, 4); ok {
			ip.lineTo(v[2], v[3])
		}

	case "S":
		ip.paint(true, false)
	case "s":
		ip.closePath()
		ip.paint(true, false)
	case "f", "F", "f*":
		ip.paint(false, true)
	case "B", "B*":
		ip.paint(true, true)
	case "b", "b*":
		ip.closePath()
		ip.paint(true, true)
	case "n":
		ip.clearPath()

	case "BT":
		ip.tm = identity
		ip.tlm = identity
	case "Td":
		if v, ok := popFloats(stack, 2); ok {
			ip.nextLine(v[0], v[1])
		}
	case "TD":
		if v, ok := popFloats(stack, 2); ok {
			ip.leading = -v[1]
			ip.nextLine(v[0], v[1])
		}
	case "Tm":
		if v, ok := popFloats(stack, 6); ok {
			ip.tlm = matrix{v[0], v[1], v[2], v[3], v[4], v[5]}
			ip.tm = ip.tlm
		}
	case "T*":
		ip.nextLine(0, -ip.leading)
	case "TL":
		if v, ok := popFloats(stack, 1); ok {
			ip.leading = v[0]
		}
	case "Tf":
		if v, ok := popFloats(stack, 1); ok {
			ip.gs.fontSize = v[0]
		}
	case "Tj", "TJ":
		ip.showText()
	case "'":
		ip.nextLine(0, -ip.leading)
		ip.showText()
	case "\"":
		ip.nextLine(0, -ip.leading)
		ip.showText()
	}
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isNumStart(c byte) bool {
	return c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'
}

// interpret runs the interpreter over decoded content bytes. It never fails:
// unknown operators are ignored and malformed operands skipped, which matches
// how viewers treat damaged streams.
func interpret(data []byte) (lines []Line, rects []Rect, marks []Mark) {
	ip := newInterpreter()
	var stack []float64
	i := 0
	n := len(data)
	for i < n {
		c := data[i]
		switch {
		case isSpace(c):
			i++
		case isNumStart(c):
			j := i + 1
			for j < n && (data[j] >= '0' && data[j] <= '9' || data[j] == '.') {
				j++
			}
			if v, ok := parseFloat(data[i:j]); ok {
				stack = append(stack, v)
			}
			i = j
		case c == '(':
			i = skipString(data, i)
		case c == '<':
			if i+1 < n && data[i+1] == '<' {
				i = skipDict(data, i)
			} else {
				i = skipHex(data, i)
			}
		case c == '/':
			i++
			for i < n && !isSpace(data[i]) && !isDelim(data[i]) {
				i++
			}
		case c == '[' || c == ']' || c == '{' || c == '}':
			i++
		case c == '%':
			for i < n && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		default:
			j := i
			for j < n && !isSpace(data[j]) && !isDelim(data[j]) {
				j++
			}
			name := string(data[i:j])
			i = j
			if name == "BI" {
				i = skipInlineImage(data, i)
				stack = stack[:0]
				continue
			}
			ip.op(name, stack)
			stack = stack[:0]
		}
	}
	return ip.lines, ip.outRects, ip.marks
}

func parseFloat(b []byte) (float64, bool) {
	neg := false
	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		neg = b[i] == '-'
		i++
	}
	var v float64
	seen := false
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		v = v*10 + float64(b[i]-'0')
		seen = true
	}
	if i < len(b) && b[i] == '.' {
		i++
		frac := 0.1
		for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
			v += float64(b[i]-'0') * frac
			frac /= 10
			seen = true
		}
	}
	if !seen || i != len(b) {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// skipString advances past a (...) literal, honoring escapes and nesting.
func skipString(data []byte, i int) int {
	depth := 0
	for ; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

func skipHex(data []byte, i int) int {
	for ; i < len(data); i++ {
		if data[i] == '>' {
			return i + 1
		}
	}
	return i
}

func skipDict(data []byte, i int) int {
	depth := 0
	for i < len(data) {
		if i+1 < len(data) && data[i] == '<' && data[i+1] == '<' {
			depth++
			i += 2
			continue
		}
		if i+1 < len(data) && data[i] == '>' && data[i+1] == '>' {
			depth--
			i += 2
			if depth == 0 {
				return i
			}
			continue
		}
		if data[i] == '(' {
			i = skipString(data, i)
			continue
		}
		i++
	}
	return i
}

// skipInlineImage advances past BI ... ID <binary> EI.
func skipInlineImage(data []byte, i int) int {
	for i+1 < len(data) {
		if data[i] == 'E' && data[i+1] == 'I' &&
			(i == 0 || isSpace(data[i-1])) &&
			(i+2 >= len(data) || isSpace(data[i+2]) || isDelim(data[i+2])) {
			return i + 2
		}
		i++
	}
	return len(data)
}
