package logger

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one console color theme.
type palette struct {
	fg        string
	time      string
	component string
	id        string
	number    string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

var themes = map[string]palette{
	// Everforest Dark: natural greens
	"everforest": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;107m",
		component: "\x1b[38;5;208m",
		id:        "\x1b[38;5;109m",
		number:    "\x1b[38;5;108m",
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
	},
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;108m",
		component: "\x1b[38;5;214m",
		id:        "\x1b[38;5;109m",
		number:    "\x1b[38;5;175m",
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
	},
}

var (
	currentTheme = "everforest"
	colorEnabled = os.Getenv("NO_COLOR") == ""
)

// SetTheme configures the color scheme for console output. Unknown names are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

// HasTheme reports whether name is a known palette.
func HasTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// SetColor turns ANSI colors in console output on or off.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

func paint(color, s string) string {
	if !colorEnabled || color == "" {
		return s
	}
	return color + s + colorReset
}

// minimalEncoder is a compact console encoder:
//
//	13:04:35  WARN  h.pipeline  skip entry matches no member  Thing  ghost
type minimalEncoder struct {
	zapcore.Encoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

var bufferPool = buffer.NewPool()

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := themes[currentTheme]
	out := bufferPool.Get()

	out.AppendString(paint(p.time, ent.Time.Format(time.TimeOnly)))

	if lvl := levelString(ent.Level, p); lvl != "" {
		out.AppendString("  ")
		out.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		out.AppendString("  ")
		out.AppendString(paint(p.component, abbreviateName(ent.LoggerName)))
	}

	out.AppendString("  ")
	out.AppendString(paint(p.fg, ent.Message))

	if vals := fieldValues(fields, p); vals != "" {
		out.AppendString("  ")
		out.AppendString(vals)
	}

	out.AppendString("\n")
	return out, nil
}

// levelString is empty for info and debug; WARN and ERROR stand out.
func levelString(level zapcore.Level, p palette) string {
	switch {
	case level == zapcore.WarnLevel:
		return paint(colorBold+p.warnBg+p.warn, "WARN")
	case level >= zapcore.ErrorLevel:
		return paint(colorBold+p.errBg+p.err, level.CapitalString())
	case level == zapcore.DebugLevel:
		return "DEBUG"
	}
	return ""
}

// abbreviateName shortens component names: host.pipeline -> h.pipeline
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

func fieldValue(f zapcore.Field) string {
	switch f.Type {
	case zapcore.StringType:
		return f.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return fmt.Sprintf("%d", f.Integer)
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", uint64(f.Integer))
	case zapcore.BoolType:
		return fmt.Sprintf("%t", f.Integer == 1)
	case zapcore.Float64Type:
		return fmt.Sprintf("%g", math.Float64frombits(uint64(f.Integer)))
	case zapcore.DurationType:
		return time.Duration(f.Integer).String()
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok {
			return err.Error()
		}
	}
	if f.Interface != nil {
		return fmt.Sprintf("%v", f.Interface)
	}
	return ""
}

// fieldValues renders known fields compactly and the rest as key=value.
func fieldValues(fields []zapcore.Field, p palette) string {
	var vals []string
	for _, f := range fields {
		v := fieldValue(f)
		if v == "" {
			continue
		}
		switch f.Key {
		case FieldDecl, FieldFile, FieldHandler, FieldOutput, FieldPath:
			vals = append(vals, paint(p.id, v))
		case FieldDurationMS:
			vals = append(vals, paint(p.number, v)+"ms")
		case FieldCount:
			vals = append(vals, paint(p.number, v))
		case FieldRunID:
			// noise on a terminal; kept in JSON output
		default:
			vals = append(vals, f.Key+"="+v)
		}
	}
	return strings.Join(vals, "  ")
}
