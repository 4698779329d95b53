package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	Logger zerolog.Logger
)

func init() {
	// Console only until Init is called with the real settings.
	Logger = zerolog.New(newConsoleWriter(os.Stdout)).With().Timestamp().Logger()
}

// Init configures the global logger. An empty file logs to the console only; the
// console stays colored only when stdout is a terminal.
func Init(level, file string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = newConsoleWriter(os.Stdout)
	if file != "" {
		logFile, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(out, logFile)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	Logger = zerolog.New(out).Level(lvl).With().Timestamp().Caller().Logger()

	// Also replace global log, so log.Info().Msg() etc works everywhere
	log.Logger = Logger
	return nil
}

// SetOutput points the global logger at w without console formatting. Tests use it to
// capture or silence output.
func SetOutput(w io.Writer) {
	Logger = zerolog.New(w).With().Timestamp().Logger()
	log.Logger = Logger
}

func newConsoleWriter(f *os.File) zerolog.ConsoleWriter {
	color := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())

	consoleWriter := zerolog.ConsoleWriter{
		Out:        colorable.NewColorable(f),
		NoColor:    !color,
		TimeFormat: "15:04:05",
		FormatCaller: func(i interface{}) string {
			s, _ := i.(string)
			return filepath.Base(s) // Show only the filename, not full path
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("|%s|", i) // Add vertical bars around field names
		},
	}
	consoleWriter.FormatLevel = func(i interface{}) string {
		s, _ := i.(string)
		level := strings.ToUpper(s)
		if !color {
			return "[" + level + "]"
		}
		switch level {
		case "DEBUG":
			return "\033[36m[" + level + "]\033[0m"
		case "INFO":
			return "\033[32m[" + level + "]\033[0m"
		case "WARN":
			return "\033[33m[" + level + "]\033[0m"
		case "ERROR":
			return "\033[31m[" + level + "]\033[0m"
		default:
			return level
		}
	}
	return consoleWriter
}
