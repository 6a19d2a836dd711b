package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/softrast/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
//
// glTF is right-handed with counter-clockwise front faces. The loader
// negates Z to move into the left-handed engine frame; the mirror also
// moves the viewer, so index order is kept and faces stay counter-clockwise
// on screen.
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals when the file has none.
	CalculateNormals bool
	// CalculateTangents derives tangents from UVs when the file has none.
	CalculateTangents bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals:  true,
		CalculateTangents: true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns a single triangle-list Mesh
// holding every triangle primitive in the document.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.fromDocument(doc, filepath.Base(path))
}

func (l *GLTFLoader) fromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name, nil, nil, TriangleList)

	var hasNormals, hasTangents bool
	for _, m := range doc.Meshes {
		n, t, err := l.processMesh(doc, m, mesh)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		hasNormals = hasNormals || n
		hasTangents = hasTangents || t
	}

	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("%s: no triangle geometry", name)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if l.CalculateNormals && !hasNormals {
		mesh.CalculateSmoothNormals()
	}
	if l.CalculateTangents && !hasTangents {
		mesh.CalculateTangents()
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the geometry of every triangle primitive of m.
// It reports whether normals and tangents were present in the file.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) (hasNormals, hasTangents bool, err error) {
	for _, prim := range m.Primitives {
		var topology Topology
		switch prim.Mode {
		case gltf.PrimitiveTriangles:
			topology = TriangleList
		case gltf.PrimitiveTriangleStrip:
			topology = TriangleStrip
		default:
			// Skip lines, points and fans
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return false, false, fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3Accessor(doc, idx); err != nil {
				return false, false, fmt.Errorf("read normals: %w", err)
			}
			hasNormals = true
		}

		var tangents []math3d.Vec3
		if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
			if tangents, err = readTangentAccessor(doc, idx); err != nil {
				return false, false, fmt.Errorf("read tangents: %w", err)
			}
			hasTangents = true
		}

		var uvs []math3d.Vec2
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readVec2Accessor(doc, idx); err != nil {
				return false, false, fmt.Errorf("read uvs: %w", err)
			}
		}

		base := uint32(len(mesh.Vertices))
		for i, p := range positions {
			v := Vertex{Position: flipZ(p)}
			if i < len(normals) {
				v.Normal = flipZ(normals[i])
			}
			if i < len(tangents) {
				v.Tangent = flipZ(tangents[i])
			}
			if i < len(uvs) {
				// glTF and the sampler both put V=0 on the top image row.
				v.UV = uvs[i]
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return false, false, fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		// Expand strips so every mesh leaves the loader as a list.
		for k := range topology.TriangleCount(len(indices)) {
			f := topology.Triangle(indices, k)
			mesh.Indices = append(mesh.Indices, base+f[0], base+f[1], base+f[2])
		}
	}

	return hasNormals, hasTangents, nil
}

func flipZ(v math3d.Vec3) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, -v.Z)
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	floats, err := readFloatAccessor(doc, accessorIdx, gltf.AccessorVec3, 3)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, len(floats)/3)
	for i := range result {
		result[i] = math3d.V3(floats[i*3], floats[i*3+1], floats[i*3+2])
	}
	return result, nil
}

// readTangentAccessor reads VEC4 tangents and drops the handedness sign.
func readTangentAccessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	floats, err := readFloatAccessor(doc, accessorIdx, gltf.AccessorVec4, 4)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, len(floats)/4)
	for i := range result {
		result[i] = math3d.V3(floats[i*4], floats[i*4+1], floats[i*4+2])
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	floats, err := readFloatAccessor(doc, accessorIdx, gltf.AccessorVec2, 2)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec2, len(floats)/2)
	for i := range result {
		result[i] = math3d.V2(floats[i*2], floats[i*2+1])
	}
	return result, nil
}

// readFloatAccessor reads a float32 accessor of the given type into a flat
// slice of count*components values.
func readFloatAccessor(doc *gltf.Document, accessorIdx int, want gltf.AccessorType, components int) ([]float64, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrIndexOutOfRange)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != want {
		return nil, fmt.Errorf("expected %v, got %v", want, accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, components*4)
	if err != nil {
		return nil, err
	}

	result := make([]float64, accessor.Count*components)
	for i := range accessor.Count {
		offset := i * stride
		if offset+components*4 > len(data) {
			return nil, fmt.Errorf("accessor %d element %d: %w", accessorIdx, i, ErrIndexOutOfRange)
		}
		for j := range components {
			bits := binary.LittleEndian.Uint32(data[offset+j*4:])
			result[i*components+j] = float64(math.Float32frombits(bits))
		}
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]uint32, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrIndexOutOfRange)
	}
	accessor := doc.Accessors[accessorIdx]

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]uint32, accessor.Count)
	for i := range accessor.Count {
		offset := i * stride
		if offset+size > len(data) {
			return nil, fmt.Errorf("index %d: %w", i, ErrIndexOutOfRange)
		}
		switch size {
		case 1:
			result[i] = uint32(data[offset])
		case 2:
			result[i] = uint32(binary.LittleEndian.Uint16(data[offset:]))
		default:
			result[i] = binary.LittleEndian.Uint32(data[offset:])
		}
	}
	return result, nil
}

// accessorBytes returns the buffer view bytes starting at the accessor's
// first element, and the element stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	data, bufferView, err := bufferViewData(doc, *accessor.BufferView)
	if err != nil {
		return nil, 0, err
	}
	if accessor.ByteOffset < 0 || accessor.ByteOffset > len(data) {
		return nil, 0, fmt.Errorf("accessor offset %d: %w", accessor.ByteOffset, ErrIndexOutOfRange)
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	return data[accessor.ByteOffset:], stride, nil
}

// bufferViewData returns the bytes covered by buffer view idx.
func bufferViewData(doc *gltf.Document, idx int) ([]byte, *gltf.BufferView, error) {
	if idx < 0 || idx >= len(doc.BufferViews) {
		return nil, nil, fmt.Errorf("buffer view %d: %w", idx, ErrIndexOutOfRange)
	}
	bv := doc.BufferViews[idx]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, fmt.Errorf("buffer view %d buffer %d: %w", idx, bv.Buffer, ErrIndexOutOfRange)
	}
	data := doc.Buffers[bv.Buffer].Data
	if data == nil {
		return nil, nil, fmt.Errorf("buffer %d has no data", bv.Buffer)
	}
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || end > len(data) {
		return nil, nil, fmt.Errorf("buffer view %d bytes [%d:%d] of %d: %w",
			idx, bv.ByteOffset, end, len(data), ErrIndexOutOfRange)
	}
	return data[bv.ByteOffset:end], bv, nil
}

// LoadGLTFWithTextures loads a GLTF file and extracts its images.
// Returns the mesh and a map of image index to encoded image data.
func LoadGLTFWithTextures(path string) (*Mesh, map[int][]byte, error) {
	mesh, doc, err := loadDocument(path)
	if err != nil {
		return nil, nil, err
	}
	textures, err := documentImages(doc, filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	return mesh, textures, nil
}

func loadDocument(path string) (*Mesh, *gltf.Document, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := NewGLTFLoader().fromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	return mesh, doc, nil
}

// documentImages collects the encoded bytes of every image held in a
// buffer view, a data URI or a file next to the document. Missing external
// files are skipped.
func documentImages(doc *gltf.Document, dir string) (map[int][]byte, error) {
	textures := make(map[int][]byte)
	for i, img := range doc.Images {
		switch {
		case img.BufferView != nil:
			data, _, err := bufferViewData(doc, *img.BufferView)
			if err != nil {
				return nil, fmt.Errorf("image %d: %w", i, err)
			}
			textures[i] = data
		case img.IsEmbeddedResource():
			data, err := img.MarshalData()
			if err != nil {
				return nil, fmt.Errorf("image %d: %w", i, err)
			}
			textures[i] = data
		case img.URI != "":
			if data, err := os.ReadFile(filepath.Join(dir, img.URI)); err == nil {
				textures[i] = data
			}
		}
	}
	return textures, nil
}

// baseColorImage returns the image index named by the first primitive
// material with a base colour texture.
func baseColorImage(doc *gltf.Document) (int, bool) {
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Material == nil || *prim.Material < 0 || *prim.Material >= len(doc.Materials) {
				continue
			}
			pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
			if pbr == nil || pbr.BaseColorTexture == nil {
				continue
			}
			ti := pbr.BaseColorTexture.Index
			if ti < 0 || ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
				continue
			}
			return *doc.Textures[ti].Source, true
		}
	}
	return 0, false
}

// LoadGLBWithTexture loads a GLB file and returns the mesh plus its diffuse
// texture, which may be nil. The material's base colour image is used when
// it decodes, else the first image that does.
func LoadGLBWithTexture(path string) (*Mesh, image.Image, error) {
	mesh, doc, err := loadDocument(path)
	if err != nil {
		return nil, nil, err
	}
	textures, err := documentImages(doc, filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}

	order := slices.Sorted(maps.Keys(textures))
	if base, ok := baseColorImage(doc); ok {
		order = slices.Insert(slices.DeleteFunc(order, func(i int) bool { return i == base }), 0, base)
	}
	for _, i := range order {
		data := textures[i]
		if len(data) == 0 {
			continue
		}
		if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return mesh, img, nil
		}
	}

	return mesh, nil, nil
}
