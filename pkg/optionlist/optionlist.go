package optionlist

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Action markers recognised in a submitted options form.
const (
	MarkerAddOption    = "add-another-option"
	MarkerDeletePrefix = "delete_"
	MarkerSave         = "save"
)

// FieldName is the form field holding the option values.
const FieldName = "options"

// ErrIndexOutOfRange is returned when a delete targets a missing element.
var ErrIndexOutOfRange = errors.New("optionlist: index out of range")

// Action is the single operation derived from one options form submission.
// It is one of AddOption, DeleteOption or Save.
type Action interface {
	isAction()
}

// AddOption appends one empty option.
type AddOption struct{}

// DeleteOption removes the option at Index.
type DeleteOption struct {
	Index int
}

// Save commits the working options.
type Save struct{}

func (AddOption) isAction()    {}
func (DeleteOption) isAction() {}
func (Save) isAction()         {}

// Decode inspects the submitted form once and returns the matching action.
// When no marker matches the result is Save.
func Decode(form url.Values) Action {
	if _, ok := form[MarkerAddOption]; ok {
		return AddOption{}
	}

	keys := make([]string, 0, len(form))
	for key := range form {
		if strings.HasPrefix(key, MarkerDeletePrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		index, err := strconv.Atoi(strings.TrimPrefix(key, MarkerDeletePrefix))
		if err != nil || index < 0 {
			continue
		}
		return DeleteOption{Index: index}
	}

	return Save{}
}

// Apply runs an in-memory edit against options and returns the new list. The
// input slice is never modified. Save returns a copy of the input unchanged.
func Apply(action Action, options []string) ([]string, error) {
	working := append([]string(nil), options...)

	switch a := action.(type) {
	case AddOption:
		return append(working, ""), nil
	case DeleteOption:
		if a.Index < 0 || a.Index >= len(working) {
			return working, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, a.Index, len(working))
		}
		return append(working[:a.Index], working[a.Index+1:]...), nil
	case Save:
		return working, nil
	default:
		return working, fmt.Errorf("optionlist: unsupported action %T", action)
	}
}

// Commits reports whether the action ends the options step.
func Commits(action Action) bool {
	_, ok := action.(Save)
	return ok
}

// Values extracts the submitted options in index order. Inputs are named
// "options[N]"; a plain repeated "options" field is accepted as well.
func Values(form url.Values) []string {
	type indexed struct {
		index int
		value string
	}

	var items []indexed
	prefix := FieldName + "["
	for key, values := range form {
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, "]") || len(values) == 0 {
			continue
		}
		index, err := strconv.Atoi(key[len(prefix) : len(key)-1])
		if err != nil || index < 0 {
			continue
		}
		items = append(items, indexed{index: index, value: values[0]})
	}

	if len(items) == 0 {
		if plain, ok := form[FieldName]; ok {
			return append([]string{}, plain...)
		}
		return nil
	}

	sort.Slice(items, func(i, j int) bool { return items[i].index < items[j].index })
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.value)
	}
	return out
}

// InputName returns the form input name for element index.
func InputName(index int) string {
	return FieldName + "[" + strconv.Itoa(index) + "]"
}
