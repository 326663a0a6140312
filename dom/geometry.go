package dom

// ElementGeometry holds the layout geometry of an element. There is no
// layout engine in this package; hosts that know element boxes set them
// with SetGeometry, and elements without geometry report zero values.
type ElementGeometry struct {
	OffsetTop, OffsetLeft     float64
	OffsetWidth, OffsetHeight float64
	OffsetParent              *Element

	ScrollTop, ScrollLeft float64
}

// Geometry returns the element's geometry, or nil if none was set.
func (e *Element) Geometry() *ElementGeometry {
	return e.elementData.geometry
}

// SetGeometry sets the element's layout geometry.
func (e *Element) SetGeometry(g *ElementGeometry) {
	e.elementData.geometry = g
}

// OffsetTop returns the distance from the top of the offset parent.
func (e *Element) OffsetTop() float64 {
	if g := e.elementData.geometry; g != nil {
		return g.OffsetTop
	}
	return 0
}

// OffsetLeft returns the distance from the left of the offset parent.
func (e *Element) OffsetLeft() float64 {
	if g := e.elementData.geometry; g != nil {
		return g.OffsetLeft
	}
	return 0
}

// OffsetParent returns the element's offset parent. Without explicit
// geometry this is the <body> of the owner document, as for a statically
// positioned element; <body> itself has none.
func (e *Element) OffsetParent() *Element {
	if g := e.elementData.geometry; g != nil {
		return g.OffsetParent
	}
	if e.ownerDoc == nil || !e.AsNode().IsConnected() {
		return nil
	}
	body := e.ownerDoc.Body()
	if body == e {
		return nil
	}
	return body
}

// ScrollTop returns the vertical scroll offset.
func (e *Element) ScrollTop() float64 {
	if g := e.elementData.geometry; g != nil {
		return g.ScrollTop
	}
	return 0
}

// ScrollLeft returns the horizontal scroll offset.
func (e *Element) ScrollLeft() float64 {
	if g := e.elementData.geometry; g != nil {
		return g.ScrollLeft
	}
	return 0
}
