package scene

// Shading selects the lighting model applied to a material.
type Shading int

// Shading models.
const (
	// ShadingUnlit draws the base color without any lighting term.
	ShadingUnlit Shading = iota
	// ShadingLit applies ambient/diffuse lighting plus a specular term.
	ShadingLit
)

// ColorSpace is the interpretation of a texture's pixel values.
type ColorSpace int

// Texture color spaces.
const (
	ColorSpaceLinear ColorSpace = iota
	ColorSpaceSRGB
)

// Texture is an image map attached to a material. Data holds the encoded
// image bytes; decoding is the renderer's concern.
type Texture struct {
	Name       string
	Data       []byte
	ColorSpace ColorSpace
}

// Material describes how a mesh surface is drawn.
type Material struct {
	Name      string
	Color     [4]float32 // base RGBA
	Emissive  [3]float32
	Shininess float32
	Shading   Shading
	Texture   *Texture
}

// DefaultMaterial returns the neutral gray surface used when a link declares
// no material of its own.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		Color:     [4]float32{0.7, 0.7, 0.7, 1},
		Shininess: 16,
		Shading:   ShadingLit,
	}
}
