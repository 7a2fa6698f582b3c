// Package stl parses STL mesh files in both binary and ASCII form.
package stl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// STL format errors.
var (
	ErrEmptySTL     = errors.New("empty STL data")
	ErrTruncatedSTL = errors.New("truncated STL data")
)

// binaryHeaderSize is the fixed STL header plus the triangle count field.
const binaryHeaderSize = 80 + 4

// binaryTriangleSize is normal + 3 vertices (12 floats) + attribute count.
const binaryTriangleSize = 12*4 + 2

// Triangle is a single facet with its normal and three corner vertices.
type Triangle struct {
	Normal   [3]float32
	Vertices [3][3]float32
}

// Decode parses STL data, detecting the binary or ASCII variant.
func Decode(data []byte) ([]Triangle, error) {
	if len(data) == 0 {
		return nil, ErrEmptySTL
	}

	// ASCII files start with "solid", but so can a binary header. Only a
	// consistent binary layout is treated as binary.
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) && !isBinary(data) {
		return decodeASCII(data)
	}
	return decodeBinary(data)
}

// isBinary reports whether the data length matches the binary layout implied
// by the triangle count field.
func isBinary(data []byte) bool {
	if len(data) < binaryHeaderSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[80:])
	return len(data) == binaryHeaderSize+int(count)*binaryTriangleSize
}

func decodeBinary(data []byte) ([]Triangle, error) {
	if len(data) < binaryHeaderSize {
		return nil, ErrTruncatedSTL
	}

	r := bytes.NewReader(data[80:])
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, ErrTruncatedSTL
	}
	if len(data) < binaryHeaderSize+int(count)*binaryTriangleSize {
		return nil, ErrTruncatedSTL
	}

	triangles := make([]Triangle, count)
	for i := range triangles {
		var facet struct {
			Normal   [3]float32
			Vertices [3][3]float32
			Attr     uint16
		}
		if err := binary.Read(r, binary.LittleEndian, &facet); err != nil {
			return nil, ErrTruncatedSTL
		}
		triangles[i] = Triangle{Normal: facet.Normal, Vertices: facet.Vertices}
	}
	return triangles, nil
}

func decodeASCII(data []byte) ([]Triangle, error) {
	fields := strings.Fields(string(data))

	var triangles []Triangle
	var current Triangle
	vertexIdx := 0

	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "facet":
			// "facet normal nx ny nz"
			if i+4 >= len(fields) || fields[i+1] != "normal" {
				return nil, fmt.Errorf("malformed facet at token %d", i)
			}
			normal, err := parseFloats(fields[i+2 : i+5])
			if err != nil {
				return nil, fmt.Errorf("facet normal: %w", err)
			}
			current = Triangle{Normal: normal}
			vertexIdx = 0
			i += 4
		case "vertex":
			if i+3 >= len(fields) {
				return nil, fmt.Errorf("malformed vertex at token %d", i)
			}
			vertex, err := parseFloats(fields[i+1 : i+4])
			if err != nil {
				return nil, fmt.Errorf("vertex: %w", err)
			}
			if vertexIdx > 2 {
				return nil, fmt.Errorf("facet with more than 3 vertices at token %d", i)
			}
			current.Vertices[vertexIdx] = vertex
			vertexIdx++
			i += 3
		case "endfacet":
			if vertexIdx != 3 {
				return nil, fmt.Errorf("facet with %d vertices", vertexIdx)
			}
			triangles = append(triangles, current)
		}
	}

	if len(triangles) == 0 {
		return nil, ErrEmptySTL
	}
	return triangles, nil
}

func parseFloats(fields []string) ([3]float32, error) {
	var out [3]float32
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return out, fmt.Errorf("parsing %q: %w", field, err)
		}
		out[i] = float32(value)
	}
	return out, nil
}
