// Package item defines the selectable models behind the list: leaf options
// and collapsible groups, joined by the sealed Item union.
package item

import "strings"

// Kind tags the variant of an Item.
type Kind int

const (
	KindOption Kind = iota // selectable leaf
	KindGroup              // collapsible header owning options
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindOption:
		return "option"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Item is either a *Group or an *Option. The set is closed; consumers switch
// on the concrete type.
type Item interface {
	Kind() Kind
	Position() int
	Key() string
	isItem()
}

// OptionView is the view-side surface an Option keeps in sync while bound.
type OptionView interface {
	SetSelected(bool)
	SetVisible(bool)
	SetHighlighted(bool)
	SetDisabled(bool)
	// SetSuppressed hides the view for display only (collapsed parent).
	SetSuppressed(bool)
}

// GroupView is the view-side surface a Group keeps in sync while bound.
type GroupView interface {
	SetCollapsed(bool)
	SetVisible(bool)
}

// OptionKey returns the identity key for an option with the given value and
// text.
func OptionKey(value, text string) string {
	return value + "::" + text
}

// Flatten expands groups inline and returns every option in display order.
func Flatten(items []Item) []*Option {
	var out []*Option
	for _, it := range items {
		switch v := it.(type) {
		case *Group:
			out = append(out, v.items...)
		case *Option:
			out = append(out, v)
		}
	}
	return out
}

// SanitizeText strips control characters and collapses runs of whitespace so
// labels render on a single logical line.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t' || r == '\r' || r == ' ':
			space = true
			continue
		case r < 0x20 || r == 0x7f:
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
