package gpu

// Filter is a texture sampling filter.
type Filter int

const (
	Nearest Filter = iota
	Linear
)

// Format is a texture storage format.
type Format int

const (
	RGBA8 Format = iota
	RGBA16F
	R16F
	R32I
	R8
	Depth32
)

// IsDepth reports whether the format stores depth.
func (f Format) IsDepth() bool {
	return f == Depth32
}

// IsInteger reports whether the format stores unnormalized integers.
// Integer color attachments are cleared with ClearBufferInt, not Clear.
func (f Format) IsInteger() bool {
	return f == R32I
}

// TextureSpec fully describes a 2D texture.
type TextureSpec struct {
	Width       int
	Height      int
	MinFilter   Filter
	MagFilter   Filter
	Format      Format
	Pixels      []byte
	Multisample bool
	// Shadow enables depth comparison sampling.
	Shadow bool
}

// Texture is a texture handle with the spec it was created from.
type Texture struct {
	ID   uint32
	Spec TextureSpec
}

// Attachment identifies a framebuffer attachment point.
type Attachment int

// DepthAttachment is the depth attachment point. Color attachments are
// ColorAttachment(0) through ColorAttachment(MaxColorAttachments-1).
const (
	DepthAttachment     Attachment = -1
	MaxColorAttachments            = 32
)

// ColorAttachment returns the i-th color attachment point.
func ColorAttachment(i int) Attachment {
	return Attachment(i)
}

// IsColor reports whether a is a color attachment.
func (a Attachment) IsColor() bool {
	return a >= 0 && a < MaxColorAttachments
}

// Framebuffer is a framebuffer object handle. ID 0 is the default framebuffer.
type Framebuffer struct {
	ID uint32
}
