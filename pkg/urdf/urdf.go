// Package urdf parses Universal Robot Description Format (URDF) documents
// into a validated document model.
package urdf

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Joint types defined by the URDF schema.
const (
	JointRevolute   = "revolute"
	JointContinuous = "continuous"
	JointPrismatic  = "prismatic"
	JointFixed      = "fixed"
	JointFloating   = "floating"
	JointPlanar     = "planar"
)

// ErrNoContent is returned when the document is empty.
var ErrNoContent = errors.New("URDF document contains no content")

// Robot is the root element of a URDF document.
type Robot struct {
	XMLName   xml.Name   `xml:"robot"`
	Name      string     `xml:"name,attr"`
	Links     []Link     `xml:"link"`
	Joints    []Joint    `xml:"joint"`
	Materials []Material `xml:"material"`
}

// Link is a rigid body segment with optional visual and collision geometry.
type Link struct {
	Name       string      `xml:"name,attr"`
	Visuals    []Visual    `xml:"visual"`
	Collisions []Collision `xml:"collision"`
}

// Joint connects a parent link to a child link.
type Joint struct {
	Name   string `xml:"name,attr"`
	Type   string `xml:"type,attr"`
	Origin *Pose  `xml:"origin"`
	Parent Frame  `xml:"parent"`
	Child  Frame  `xml:"child"`
	Axis   *Axis  `xml:"axis"`
	Limit  *Limit `xml:"limit"`
}

// Frame names the link on one side of a joint.
type Frame struct {
	Link string `xml:"link,attr"`
}

// Visual is a renderable geometry element attached to a link.
type Visual struct {
	Name     string    `xml:"name,attr"`
	Origin   *Pose     `xml:"origin"`
	Geometry Geometry  `xml:"geometry"`
	Material *Material `xml:"material"`
}

// Collision is a non-renderable geometry element attached to a link.
type Collision struct {
	Name     string   `xml:"name,attr"`
	Origin   *Pose    `xml:"origin"`
	Geometry Geometry `xml:"geometry"`
}

// Geometry holds exactly one of the supported shape elements.
type Geometry struct {
	Mesh     *MeshRef  `xml:"mesh"`
	Box      *Box      `xml:"box"`
	Cylinder *Cylinder `xml:"cylinder"`
	Sphere   *Sphere   `xml:"sphere"`
}

// MeshRef references an external mesh file, optionally scaled.
type MeshRef struct {
	Filename string `xml:"filename,attr"`
	Scale    string `xml:"scale,attr"`
}

// Box is an axis-aligned box shape, dimensions in meters.
type Box struct {
	Size string `xml:"size,attr"`
}

// Cylinder is a Z-aligned cylinder shape.
type Cylinder struct {
	Radius float64 `xml:"radius,attr"`
	Length float64 `xml:"length,attr"`
}

// Sphere is a sphere shape.
type Sphere struct {
	Radius float64 `xml:"radius,attr"`
}

// Material holds a color and/or texture, either inline or by name reference.
type Material struct {
	Name    string      `xml:"name,attr"`
	Color   *Color      `xml:"color"`
	Texture *TextureRef `xml:"texture"`
}

// Color is an RGBA color with components in [0,1].
type Color struct {
	RGBA string `xml:"rgba,attr"`
}

// TextureRef references an external texture image.
type TextureRef struct {
	Filename string `xml:"filename,attr"`
}

// Pose is a translation plus roll/pitch/yaw rotation.
type Pose struct {
	XYZ    string `xml:"xyz,attr"`
	RPYRaw string `xml:"rpy,attr"`
}

// Axis is the joint motion axis in the joint frame.
type Axis struct {
	XYZ string `xml:"xyz,attr"`
}

// Limit bounds a joint's range of motion. Translation limits are in meters,
// rotation limits in radians.
type Limit struct {
	Lower    float64 `xml:"lower,attr"`
	Upper    float64 `xml:"upper,attr"`
	Effort   float64 `xml:"effort,attr"`
	Velocity float64 `xml:"velocity,attr"`
}

// Parse unmarshals and validates a URDF document. Any schema or referential
// problem is a fatal error; asset availability is not checked here.
func Parse(data []byte) (*Robot, error) {
	if len(data) == 0 {
		return nil, ErrNoContent
	}

	robot := &Robot{}
	if err := xml.Unmarshal(data, robot); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal URDF data")
	}
	if err := robot.validate(); err != nil {
		return nil, err
	}
	return robot, nil
}

func (r *Robot) validate() error {
	if len(r.Links) == 0 {
		return errors.New("URDF document defines no links")
	}

	linkNames := make(map[string]bool, len(r.Links))
	for _, link := range r.Links {
		if link.Name == "" {
			return errors.New("link element missing name attribute")
		}
		if linkNames[link.Name] {
			return errors.Errorf("duplicate link name %q", link.Name)
		}
		linkNames[link.Name] = true
	}

	jointNames := make(map[string]bool, len(r.Joints))
	childLinks := make(map[string]bool, len(r.Joints))
	for _, joint := range r.Joints {
		if joint.Name == "" {
			return errors.New("joint element missing name attribute")
		}
		if jointNames[joint.Name] {
			return errors.Errorf("duplicate joint name %q", joint.Name)
		}
		jointNames[joint.Name] = true

		if !linkNames[joint.Parent.Link] {
			return errors.Errorf("joint %q references unknown parent link %q", joint.Name, joint.Parent.Link)
		}
		if !linkNames[joint.Child.Link] {
			return errors.Errorf("joint %q references unknown child link %q", joint.Name, joint.Child.Link)
		}
		if childLinks[joint.Child.Link] {
			return errors.Errorf("link %q is the child of more than one joint", joint.Child.Link)
		}
		childLinks[joint.Child.Link] = true

		switch joint.Type {
		case JointRevolute, JointPrismatic:
			if joint.Limit == nil {
				return errors.Errorf("%s joint %q missing limit element", joint.Type, joint.Name)
			}
			if joint.Limit.Lower > joint.Limit.Upper {
				return errors.Errorf("joint %q has lower limit above upper limit", joint.Name)
			}
		case JointContinuous, JointFixed, JointFloating, JointPlanar:
		default:
			return errors.Errorf("joint %q has unsupported type %q", joint.Name, joint.Type)
		}
	}

	roots := 0
	for _, link := range r.Links {
		if !childLinks[link.Name] {
			roots++
		}
	}
	if roots != 1 {
		return errors.Errorf("URDF document must have exactly one root link, found %d", roots)
	}
	return nil
}

// RootLink returns the single link that is not the child of any joint.
// Valid only after a successful Parse.
func (r *Robot) RootLink() string {
	childLinks := make(map[string]bool, len(r.Joints))
	for _, joint := range r.Joints {
		childLinks[joint.Child.Link] = true
	}
	for _, link := range r.Links {
		if !childLinks[link.Name] {
			return link.Name
		}
	}
	return ""
}

// Movable reports whether the joint articulates (has a degree of freedom the
// viewer can drive).
func (j *Joint) Movable() bool {
	switch j.Type {
	case JointRevolute, JointContinuous, JointPrismatic:
		return true
	}
	return false
}

// Translation returns the xyz attribute as a vector, zero when absent.
func (p *Pose) Translation() r3.Vector {
	if p == nil {
		return r3.Vector{}
	}
	v := floatFields(p.XYZ, 3)
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// RPY returns the roll/pitch/yaw attribute in radians, zero when absent.
func (p *Pose) RPY() (roll, pitch, yaw float64) {
	if p == nil {
		return 0, 0, 0
	}
	v := floatFields(p.RPYRaw, 3)
	return v[0], v[1], v[2]
}

// Vector returns the axis direction, defaulting to +X as the schema does.
func (a *Axis) Vector() r3.Vector {
	if a == nil || strings.TrimSpace(a.XYZ) == "" {
		return r3.Vector{X: 1}
	}
	v := floatFields(a.XYZ, 3)
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// ScaleVector returns the mesh scale attribute, defaulting to unit scale.
func (m *MeshRef) ScaleVector() r3.Vector {
	if m == nil || strings.TrimSpace(m.Scale) == "" {
		return r3.Vector{X: 1, Y: 1, Z: 1}
	}
	v := floatFields(m.Scale, 3)
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// Values returns the rgba attribute as four components, opaque gray when the
// attribute is missing or malformed.
func (c *Color) Values() [4]float64 {
	if c == nil || strings.TrimSpace(c.RGBA) == "" {
		return [4]float64{0.5, 0.5, 0.5, 1}
	}
	v := floatFields(c.RGBA, 4)
	return [4]float64{v[0], v[1], v[2], v[3]}
}

// floatFields splits a space-delimited attribute into exactly n floats,
// padding with zeros. Unparseable fields become zero rather than NaN so a
// sloppy document still loads.
func floatFields(s string, n int) []float64 {
	out := make([]float64, n)
	for i, field := range strings.Fields(s) {
		if i >= n {
			break
		}
		value, err := strconv.ParseFloat(field, 64)
		if err != nil || math.IsNaN(value) {
			value = 0
		}
		out[i] = value
	}
	return out
}
