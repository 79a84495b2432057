package internal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LineReadWriter buffers reads from a connection so that consecutive prompts
// and a later command loop share the same buffer and never drop input.
type LineReadWriter struct {
	io.Writer
	r *bufio.Reader
}

func NewLineReadWriter(rw io.ReadWriter) *LineReadWriter {
	if lrw, ok := rw.(*LineReadWriter); ok {
		return lrw
	}
	return &LineReadWriter{Writer: rw, r: bufio.NewReader(rw)}
}

func (l *LineReadWriter) Read(p []byte) (int, error) {
	return l.r.Read(p)
}

// ReadLine returns the next line without its line ending.
func (l *LineReadWriter) ReadLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	validator promptValidator
}

type promptOption func(*promptConfig)

func WithValidator(v promptValidator) promptOption {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(i int) promptOption {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

func Prompt(rw io.ReadWriter, prompt string, opts ...promptOption) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	lrw := NewLineReadWriter(rw)

	tries := 0
	for {
		_, err := lrw.Write([]byte(prompt))
		if err != nil {
			return "", err
		}

		input, err := lrw.ReadLine()
		if err != nil {
			return "", err
		}

		if config.validator != nil {
			ok, msg := config.validator(input)
			if !ok {
				if _, err := lrw.Write([]byte(msg)); err != nil {
					return "", err
				}

				tries++
				if config.tries > 0 && config.tries == tries {
					return "", fmt.Errorf("too many tries")
				}

				continue
			}
		}

		return input, nil
	}
}
