package engine

// FocusOwner is the single slot naming the text input that receives keyboard
// input. The Scene owns it and hands it to every widget it creates.
type FocusOwner struct {
	current  *TextInput
	onChange func(current *TextInput)
}

// Current returns the focused widget, or nil.
func (f *FocusOwner) Current() *TextInput { return f.current }

// Claim gives focus to w. A previous holder is blurred first.
func (f *FocusOwner) Claim(w *TextInput) {
	if f.current == w {
		return
	}
	prev := f.current
	f.current = w
	if prev != nil {
		prev.blur()
	}
	f.notify()
}

// Release empties the slot if w holds it.
func (f *FocusOwner) Release(w *TextInput) {
	if w == nil || f.current != w {
		return
	}
	f.current = nil
	w.blur()
	f.notify()
}

// Clear blurs whoever holds focus.
func (f *FocusOwner) Clear() {
	f.Release(f.current)
}

func (f *FocusOwner) notify() {
	if f.onChange != nil {
		f.onChange(f.current)
	}
}
