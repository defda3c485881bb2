package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

type levelStyle struct {
	tag   string
	color *color.Color
}

var levelStyles = map[string]levelStyle{
	zerolog.LevelTraceValue: {"TRC", color.New(color.FgHiBlack)},
	zerolog.LevelDebugValue: {"DBG", color.New(color.FgCyan)},
	zerolog.LevelInfoValue:  {"INF", color.New(color.FgGreen)},
	zerolog.LevelWarnValue:  {"WRN", color.New(color.FgYellow)},
	zerolog.LevelErrorValue: {"ERR", color.New(color.FgRed)},
	zerolog.LevelFatalValue: {"FTL", color.New(color.FgMagenta)},
}

// consoleWriter renders lines as "15:04:05 [INF] message key:value".
func consoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i any) string {
			raw, _ := i.(string)
			style, ok := levelStyles[raw]
			if !ok {
				return "[" + strings.ToUpper(raw) + "]"
			}
			tag := "[" + style.tag + "]"
			if noColor {
				return tag
			}
			return style.color.Sprint(tag)
		},
		FormatFieldName: func(i any) string {
			return fmt.Sprintf("%s:", i)
		},
		FormatFieldValue: func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%v", i)
		},
	}
}
