package binding

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentic-research/chartbind/internal/format"
)

// Channel is a visual encoding channel.
type Channel uint8

const (
	ChannelColor Channel = iota
	ChannelShape
	ChannelSize
	ChannelLine
	ChannelTexture
	ChannelText
)

// FrameChannels are the channels that carry a visual frame slot.
var FrameChannels = []Channel{ChannelColor, ChannelShape, ChannelSize, ChannelLine, ChannelTexture}

// AestheticChannels are the channels a field can be bound to.
var AestheticChannels = []Channel{ChannelColor, ChannelShape, ChannelSize, ChannelText}

var channelNames = [...]string{"color", "shape", "size", "line", "texture", "text"}

func (c Channel) String() string {
	if int(c) < len(channelNames) {
		return channelNames[c]
	}
	return "channel"
}

// ParseChannel maps a channel name such as "color" to a Channel.
func ParseChannel(name string) (Channel, error) {
	for i, n := range channelNames {
		if strings.EqualFold(n, name) {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown channel %q", name)
}

// FrameMode tells how a frame maps values to visuals.
type FrameMode uint8

const (
	FrameStatic FrameMode = iota
	FrameCategorical
	FrameGradient // color only
	FrameLinear   // size only
)

// VisualFrame maps data values onto one channel. Scales are drawn by the
// renderer; only the configuration lives here.
type VisualFrame interface {
	Channel() Channel
	Equal(o VisualFrame) bool
	CloneFrame() VisualFrame
}

type ColorFrame struct {
	Mode    FrameMode
	Static  format.Color
	Palette []format.Color
	Field   string
}

func (f *ColorFrame) Channel() Channel { return ChannelColor }

func (f *ColorFrame) Equal(o VisualFrame) bool {
	g, ok := o.(*ColorFrame)
	if !ok || f == nil || g == nil {
		return ok && f == g
	}
	return f.Mode == g.Mode && f.Static == g.Static && f.Field == g.Field &&
		slices.Equal(f.Palette, g.Palette)
}

func (f *ColorFrame) CloneFrame() VisualFrame {
	if c := clone("color frame", f); c != nil {
		return c
	}
	return nil
}

type ShapeFrame struct {
	Mode   FrameMode
	Static string
	Shapes []string
	Field  string
}

func (f *ShapeFrame) Channel() Channel { return ChannelShape }

func (f *ShapeFrame) Equal(o VisualFrame) bool {
	g, ok := o.(*ShapeFrame)
	if !ok || f == nil || g == nil {
		return ok && f == g
	}
	return f.Mode == g.Mode && f.Static == g.Static && f.Field == g.Field &&
		slices.Equal(f.Shapes, g.Shapes)
}

func (f *ShapeFrame) CloneFrame() VisualFrame {
	if c := clone("shape frame", f); c != nil {
		return c
	}
	return nil
}

// SizeFrame compares loosely: Smallest and Largest are bounds the renderer
// may adjust, so Equal ignores them. Use EqualBounds to include them.
type SizeFrame struct {
	Mode     FrameMode
	Size     float64
	Smallest float64
	Largest  float64
	Field    string
}

func (f *SizeFrame) Channel() Channel { return ChannelSize }

func (f *SizeFrame) Equal(o VisualFrame) bool {
	g, ok := o.(*SizeFrame)
	if !ok || f == nil || g == nil {
		return ok && f == g
	}
	return f.Mode == g.Mode && f.Size == g.Size && f.Field == g.Field
}

// EqualBounds is Equal plus matching Smallest and Largest.
func (f *SizeFrame) EqualBounds(g *SizeFrame) bool {
	if f == nil || g == nil {
		return f == g
	}
	return f.Equal(g) && f.Smallest == g.Smallest && f.Largest == g.Largest
}

func (f *SizeFrame) CloneFrame() VisualFrame {
	if c := clone("size frame", f); c != nil {
		return c
	}
	return nil
}

type LineFrame struct {
	Mode   FrameMode
	Static int
	Styles []int
	Field  string
}

func (f *LineFrame) Channel() Channel { return ChannelLine }

func (f *LineFrame) Equal(o VisualFrame) bool {
	g, ok := o.(*LineFrame)
	if !ok || f == nil || g == nil {
		return ok && f == g
	}
	return f.Mode == g.Mode && f.Static == g.Static && f.Field == g.Field &&
		slices.Equal(f.Styles, g.Styles)
}

func (f *LineFrame) CloneFrame() VisualFrame {
	if c := clone("line frame", f); c != nil {
		return c
	}
	return nil
}

type TextureFrame struct {
	Mode     FrameMode
	Static   int
	Textures []int
	Field    string
}

func (f *TextureFrame) Channel() Channel { return ChannelTexture }

func (f *TextureFrame) Equal(o VisualFrame) bool {
	g, ok := o.(*TextureFrame)
	if !ok || f == nil || g == nil {
		return ok && f == g
	}
	return f.Mode == g.Mode && f.Static == g.Static && f.Field == g.Field &&
		slices.Equal(f.Textures, g.Textures)
}

func (f *TextureFrame) CloneFrame() VisualFrame {
	if c := clone("texture frame", f); c != nil {
		return c
	}
	return nil
}

// CloneFrame copies f, tolerating nil.
func CloneFrame(f VisualFrame) VisualFrame {
	if f == nil {
		return nil
	}
	return f.CloneFrame()
}

// FramesEqual compares two possibly nil frames.
func FramesEqual(a, b VisualFrame) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

var defaultPalette = []format.Color{0x518db9, 0xb3d5eb, 0xf4a460, 0x8fbc8f, 0xd3a4d1, 0xf08080}

var defaultShapes = []string{"circle", "triangle", "square", "diamond", "cross", "star"}

// DefaultFrame derives the frame for ch from the data it encodes: numeric
// data gets a gradient color or linear size, anything else is categorical.
// Line and texture frames are always static by default.
func DefaultFrame(ch Channel, numeric bool) VisualFrame {
	switch ch {
	case ChannelColor:
		if numeric {
			return &ColorFrame{Mode: FrameGradient, Palette: []format.Color{0xdeebf7, 0x08519c}}
		}
		return &ColorFrame{Mode: FrameCategorical, Palette: slices.Clone(defaultPalette)}
	case ChannelShape:
		if numeric {
			return &ShapeFrame{Mode: FrameStatic, Static: defaultShapes[0]}
		}
		return &ShapeFrame{Mode: FrameCategorical, Shapes: slices.Clone(defaultShapes)}
	case ChannelSize:
		if numeric {
			return &SizeFrame{Mode: FrameLinear, Size: 15, Smallest: 1, Largest: 30}
		}
		return &SizeFrame{Mode: FrameCategorical, Size: 15, Smallest: 1, Largest: 30}
	case ChannelLine:
		return &LineFrame{Mode: FrameStatic}
	case ChannelTexture:
		return &TextureFrame{Mode: FrameStatic}
	}
	return nil
}

// FrameSlot keeps the derived default and an explicit override apart.
type FrameSlot struct {
	Default  VisualFrame
	Explicit VisualFrame
}

// Effective returns the override when set.
func (s FrameSlot) Effective() VisualFrame {
	if s.Explicit != nil {
		return s.Explicit
	}
	return s.Default
}

func (s FrameSlot) clone() FrameSlot {
	return FrameSlot{Default: CloneFrame(s.Default), Explicit: CloneFrame(s.Explicit)}
}
