package tui

// Viewport is the scroll container the recycler renders into. It holds only
// geometry; the model draws the rendered window itself.
type Viewport struct {
	top           int
	width, height int
	padTop        int
	padBottom     int
}

// NewViewport returns a width x height viewport scrolled to the top.
func NewViewport(width, height int) *Viewport {
	return &Viewport{width: width, height: height}
}

func (v *Viewport) ScrollTop() int       { return v.top }
func (v *Viewport) SetScrollTop(top int) { v.top = top }
func (v *Viewport) ViewportHeight() int  { return v.height }
func (v *Viewport) ViewportWidth() int   { return v.width }

// SetPadding records the spacer heights above and below the window.
func (v *Viewport) SetPadding(top, bottom int) {
	v.padTop, v.padBottom = top, bottom
}

// Padding returns the spacer heights.
func (v *Viewport) Padding() (top, bottom int) { return v.padTop, v.padBottom }

// Resize changes the geometry and reports whether the width changed.
func (v *Viewport) Resize(width, height int) bool {
	changed := width != v.width
	v.width, v.height = width, height
	return changed
}
