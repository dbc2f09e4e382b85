package json

import (
	"strconv"
	"strings"
)

// composer accumulates the output text of one encode call, shared by every
// composite encoder of that call.
type composer struct {
	sb     strings.Builder
	pretty bool
	indent string
	level  int
}

func (c *composer) print(s string) { c.sb.WriteString(s) }
func (c *composer) printByte(b byte) { c.sb.WriteByte(b) }
func (c *composer) printQuoted(s string) { printQuoted(&c.sb, s) }

func (c *composer) printInt(v int64) {
	var buf [20]byte
	c.sb.Write(strconv.AppendInt(buf[:0], v, 10))
}

func (c *composer) printFloat(v float64, bits int) {
	var buf [32]byte
	c.sb.Write(strconv.AppendFloat(buf[:0], v, 'g', -1, bits))
}

func (c *composer) indentIn()  { c.level++ }
func (c *composer) indentOut() { c.level-- }

// nextItem starts a new line at the current indentation when pretty
// printing.
func (c *composer) nextItem() {
	if !c.pretty {
		return
	}
	c.sb.WriteByte('\n')
	for i := 0; i < c.level; i++ {
		c.sb.WriteString(c.indent)
	}
}

// space separates a name from its value when pretty printing.
func (c *composer) space() {
	if c.pretty {
		c.sb.WriteByte(' ')
	}
}

func (c *composer) String() string { return c.sb.String() }
