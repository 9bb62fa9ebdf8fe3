package format

import (
	"strings"

	"github.com/fatih/color"

	"github.com/dianpeng/recset/store"
)

// ----------------------------------------------------------------------------
// Terminal formatting of record sets and programs. Styles are resolved with
// the following priority, descendingly,
// ----------------------------------------------------------------------------
// 1) column[name], if applicable takes highest priority
// 2) value kind (number, string, rest), if applicable kicks in
// 3) nothing, the value is printed as is
// ----------------------------------------------------------------------------

const (
	ColorBlack = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorNone
)

type Instruction struct {
	Ignore    bool   // whether this field is entirely ignored
	Bold      bool   // whether this field will be showed in bold font
	Italic    bool   // whether this field will be showed in italic font
	Underline bool   // whether this field will be showed with underline
	Color     int    // color code of the field
	StrOption string // string option, general option
	IntOption int    // int value, option
}

type Config struct {
	Title   *Instruction
	Border  *Instruction // StrOption is the cell separator
	Number  *Instruction
	String  *Instruction
	Rest    *Instruction
	Padding *Instruction // IntOption is the minimum column width
	Column  map[string]*Instruction

	// Colorize emits escape sequences regardless of whether the output is a
	// terminal; when false no styling is applied at all.
	Colorize bool
}

var defPadding = &Instruction{
	IntOption: 4,
}

// Plain renders without any escape sequence.
func Plain() *Config {
	return &Config{
		Title:   &Instruction{Color: ColorNone},
		Border:  &Instruction{StrOption: " "},
		Padding: defPadding,
	}
}

// Colored is the builtin colored layout.
func Colored() *Config {
	return &Config{
		Title: &Instruction{
			Color: ColorBlue,
			Bold:  true,
		},
		Border: &Instruction{
			StrOption: "|",
			Color:     ColorBlack,
			Bold:      true,
		},
		Padding: defPadding,
		Number: &Instruction{
			Color: ColorGreen,
			Bold:  true,
		},
		String: &Instruction{
			Color:  ColorRed,
			Italic: true,
		},
		Rest: &Instruction{
			Color: ColorNone,
		},
		Colorize: true,
	}
}

// ParseInstruction reads a ';' separated style list, eg "bold;red".
// Unknown words are ignored.
func ParseInstruction(str string) *Instruction {
	f := &Instruction{
		Color: ColorNone,
	}
	for _, rr := range strings.Split(str, ";") {
		switch strings.ToLower(strings.TrimSpace(rr)) {
		case "bold":
			f.Bold = true
		case "italic":
			f.Italic = true
		case "underline":
			f.Underline = true
		case "black":
			f.Color = ColorBlack
		case "red":
			f.Color = ColorRed
		case "green":
			f.Color = ColorGreen
		case "yellow":
			f.Color = ColorYellow
		case "blue":
			f.Color = ColorBlue
		case "magenta":
			f.Color = ColorMagenta
		case "cyan":
			f.Color = ColorCyan
		case "white":
			f.Color = ColorWhite
		case "ignore":
			f.Ignore = true
		default:
			break
		}
	}
	return f
}

func mapcolor(
	c int,
) color.Attribute {
	switch c {
	default:
		return color.Reset
	case ColorBlack:
		return color.FgBlack
	case ColorRed:
		return color.FgRed
	case ColorGreen:
		return color.FgGreen
	case ColorYellow:
		return color.FgYellow
	case ColorBlue:
		return color.FgBlue
	case ColorMagenta:
		return color.FgMagenta
	case ColorCyan:
		return color.FgCyan
	case ColorWhite:
		return color.FgWhite
	}
}

func (self *Config) stylish(
	fins *Instruction,
	text string,
) string {
	if fins == nil || !self.Colorize {
		return text
	}
	cobj := color.New(mapcolor(fins.Color))
	if fins.Bold {
		cobj.Add(color.Bold)
	}
	if fins.Underline {
		cobj.Add(color.Underline)
	}
	if fins.Italic {
		cobj.Add(color.Italic)
	}
	cobj.EnableColor()
	return cobj.Sprint(text)
}

func (self *Config) border() string {
	if self.Border == nil {
		return " "
	}
	return self.Border.StrOption
}

func (self *Config) minWidth() int {
	if self.Padding == nil {
		return 0
	}
	return self.Padding.IntOption
}

// instruction picks the style of a value in column name.
func (self *Config) instruction(
	name string,
	v store.Value,
) *Instruction {
	if c, ok := self.Column[name]; ok {
		return c
	}
	switch v.Kind() {
	case store.KindInt:
		return self.Number
	case store.KindStr:
		return self.String
	default:
		return self.Rest
	}
}

func orPlain(cfg *Config) *Config {
	if cfg == nil {
		return Plain()
	}
	return cfg
}
