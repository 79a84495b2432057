package storage

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/pixil98/go-inventory/internal"
)

const (
	defaultSelectorRowLength = 80
	defaultSelectorRowCount  = 5
)

type validatingSelectable interface {
	ValidatingSpec
	Selector() string
}

// SelectableStorer presents the records of a store as a numbered menu.
type SelectableStorer[T validatingSelectable] struct {
	Storer[T]

	options   []option[T]
	output    []string
	defaultId string
}

type option[T validatingSelectable] struct {
	id  string
	val T
}

type SelectableOpt func(*selectableOptions)

type selectableOptions struct {
	defaultId string
}

// WithDefault makes an empty answer select id.
func WithDefault(id string) SelectableOpt {
	return func(o *selectableOptions) {
		o.defaultId = id
	}
}

func NewSelectableStorer[T validatingSelectable](st Storer[T], opts ...SelectableOpt) *SelectableStorer[T] {
	o := &selectableOptions{}
	for _, opt := range opts {
		opt(o)
	}

	s := &SelectableStorer[T]{Storer: st}

	for id, val := range s.GetAll() {
		s.options = append(s.options, option[T]{id: id, val: val})
	}
	slices.SortFunc(s.options, func(a, b option[T]) int {
		return strings.Compare(a.val.Selector(), b.val.Selector())
	})
	for _, opt := range s.options {
		if opt.id == o.defaultId {
			s.defaultId = o.defaultId
		}
	}
	s.build()

	return s
}

func (s *SelectableStorer[T]) build() {
	colWidth := 1
	for _, v := range s.options {
		l := len(v.val.Selector()) + 7 // nn. <val>  plus a default marker
		if l > colWidth {
			colWidth = l
		}
	}

	// Fill columns first, left to right, growing past the default row count
	// when the options do not fit.
	numVals := len(s.options)
	numCols := max(defaultSelectorRowLength/colWidth, 1)
	numRows := max((numVals+numCols-1)/numCols, defaultSelectorRowCount)

	rows := make([]string, numRows)
	for i, v := range s.options {
		label := v.val.Selector()
		if v.id == s.defaultId {
			label += "*"
		}
		rows[i%numRows] += fmt.Sprintf("%2d. %-*s  ", i+1, colWidth-5, label)
	}

	s.output = rows
}

// Prompt shows the menu and returns the id of the chosen record.
func (s *SelectableStorer[T]) Prompt(rw io.ReadWriter, prompt string) (string, error) {
	if len(s.options) == 0 {
		return "", fmt.Errorf("nothing to select from")
	}

	_, err := fmt.Fprintf(rw, "%s\n", prompt)
	if err != nil {
		return "", err
	}

	for _, str := range s.output {
		if len(str) > 0 {
			_, err = fmt.Fprintf(rw, "%s\n", strings.TrimRight(str, " "))
			if err != nil {
				return "", err
			}
		}
	}

	question := "Make your selection: "
	if s.defaultId != "" {
		question = "Make your selection (* is the default): "
	}

	selection, err := internal.Prompt(rw, question, internal.WithValidator(
		func(str string) (bool, string) {
			if s.choose(str) == "" {
				return false, "Invalid selection!\n"
			}
			return true, ""
		},
	))
	if err != nil {
		return "", err
	}

	return s.choose(selection), nil
}

func (s *SelectableStorer[T]) choose(answer string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return s.defaultId
	}
	i, err := strconv.Atoi(answer)
	if err != nil {
		return ""
	}
	return s.Select(i)
}

// Select returns the id of the i'th option, counting from 1.
func (s *SelectableStorer[T]) Select(i int) string {
	if i < 1 || i > len(s.options) {
		return ""
	}
	return s.options[i-1].id
}
