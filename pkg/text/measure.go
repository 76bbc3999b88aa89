// Package text turns the flattened content of an inline formatting context into
// a paragraph: collapsed text, style spans, forced breaks and the positions of
// embedded atomic boxes. It measures runs but does not break lines.
package text

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Shaper owns the font face used for measurement. One Shaper can serve many
// documents; per-traversal scratch state lives in a Context.
type Shaper struct {
	face     font.Face
	faceSize float64
}

// NewShaper returns a shaper measuring with face. A nil face selects the
// built-in 7x13 bitmap face.
func NewShaper(face font.Face) *Shaper {
	if face == nil {
		face = basicfont.Face7x13
	}
	m := face.Metrics()
	size := float64(m.Ascent+m.Descent) / 64
	if size <= 0 {
		size = 13
	}
	return &Shaper{face: face, faceSize: size}
}

// Measure returns the advance width of s at the given font size.
func (s *Shaper) Measure(str string, fontSize float64) float64 {
	if str == "" {
		return 0
	}
	adv := font.MeasureString(s.face, str)
	return fixedToFloat(adv) * fontSize / s.faceSize
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Acquire hands out the scratch context for one traversal. The caller must
// Release it when the traversal ends.
func (s *Shaper) Acquire() *Context {
	return &Context{shaper: s}
}

// Context is the scratch state of one traversal. It is not safe for concurrent
// use and must not outlive the traversal that acquired it.
type Context struct {
	shaper   *Shaper
	buf      strings.Builder
	released bool

	// Paragraphs counts the paragraphs built through this context.
	Paragraphs int
}

// Release ends the context's lifetime.
func (c *Context) Release() {
	c.buf.Reset()
	c.released = true
}

// Released reports whether Release has been called.
func (c *Context) Released() bool { return c.released }

// Shaper returns the shaper the context was acquired from.
func (c *Context) Shaper() *Shaper { return c.shaper }
