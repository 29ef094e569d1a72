package models

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/render"
)

// ErrNoGeometry is returned when a document has no triangle primitives.
var ErrNoGeometry = errors.New("gltf: no triangle geometry")

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a .gltf or .glb file with the default loader.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads a GLTF or GLB file and flattens every triangle primitive into
// one Mesh. The first base color image, if any, becomes Mesh.Texture.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := l.meshFromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	tex, err := documentTexture(doc, filepath.Dir(path))
	if err != nil {
		// A broken image still leaves a usable, vertex-colored mesh.
		render.Logger().Warn("gltf texture skipped", "path", path, "err", err)
	}
	mesh.Texture = tex

	render.Logger().Debug("gltf loaded",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"faces", mesh.TriangleCount(),
		"materials", len(mesh.Materials),
		"textured", tex != nil)
	return mesh, nil
}

func (l *GLTFLoader) meshFromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	for _, mat := range doc.Materials {
		mesh.Materials = append(mesh.Materials, Material{
			Name:      mat.Name,
			BaseColor: baseColor(mat),
		})
	}

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}
	if l.CalculateNormals && !hasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func baseColor(mat *gltf.Material) [4]float64 {
	if mat == nil || mat.PBRMetallicRoughness == nil || mat.PBRMetallicRoughness.BaseColorFactor == nil {
		return [4]float64{1, 1, 1, 1}
	}
	return *mat.PBRMetallicRoughness.BaseColorFactor
}

// processMesh appends the triangle primitives of m to mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx, modeler.ReadPosition)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3Accessor(doc, idx, modeler.ReadNormal); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readVec2Accessor(doc, idx); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var colors []math3d.Vec3
		if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			if colors, err = readColorAccessor(doc, idx); err != nil {
				return fmt.Errorf("read colors: %w", err)
			}
		}

		material := -1
		tint := math3d.V3(1, 1, 1)
		if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
			bc := mesh.Materials[material].BaseColor
			tint = math3d.V3(bc[0], bc[1], bc[2])
		}

		baseVertex := len(mesh.Vertices)
		for i := range positions {
			// glTF and the texture sampler both put v=0 on the top row.
			v := MeshVertex{Position: positions[i], Color: tint}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				v.UV = uvs[i]
			}
			if i < len(colors) {
				v.Color = colors[i].Mul(tint)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		// glTF front faces are counter-clockwise; the rasterizer's are
		// clockwise after the y flip to screen space.
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			if a >= len(positions) || b >= len(positions) || c >= len(positions) {
				return fmt.Errorf("index out of range at triangle %d", i/3)
			}
			mesh.Faces = append(mesh.Faces, Face{
				V:        [3]int{baseVertex + a, baseVertex + c, baseVertex + b},
				Material: material,
			})
		}
	}
	return nil
}

// readVec3Accessor reads positions or normals with read.
func readVec3Accessor(doc *gltf.Document, idx int, read func(*gltf.Document, *gltf.Accessor, [][3]float32) ([][3]float32, error)) ([]math3d.Vec3, error) {
	acc, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := read(doc, acc, nil)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, len(data))
	for i, p := range data {
		out[i] = math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
	}
	return out, nil
}

// readVec2Accessor reads texture coordinates. Normalized integer UVs are
// converted to floats.
func readVec2Accessor(doc *gltf.Document, idx int) ([]math3d.Vec2, error) {
	acc, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadTextureCoord(doc, acc, nil)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec2, len(data))
	for i, uv := range data {
		out[i] = math3d.V2(float64(uv[0]), float64(uv[1]))
	}
	return out, nil
}

// readColorAccessor reads COLOR_0 as RGB in 0..1, dropping alpha.
func readColorAccessor(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	acc, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadColor(doc, acc, nil)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, len(data))
	for i, c := range data {
		out[i] = math3d.V3(float64(c[0])/255, float64(c[1])/255, float64(c[2])/255)
	}
	return out, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	acc, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadIndices(doc, acc, nil)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(data))
	for i, v := range data {
		out[i] = int(v)
	}
	return out, nil
}

// accessor returns accessor idx after checking that every element it
// covers lies inside both its buffer view and its buffer. modeler indexes
// the data without these checks.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]
	if acc.BufferView == nil {
		return nil, fmt.Errorf("accessor %d has no buffer view", idx)
	}
	bv, data, err := bufferView(doc, *acc.BufferView)
	if err != nil {
		return nil, err
	}
	if acc.Count == 0 {
		return acc, nil
	}

	elem := componentSize(acc.ComponentType) * components(acc.Type)
	stride := bv.ByteStride
	if stride == 0 {
		stride = elem
	}
	end := acc.ByteOffset + (acc.Count-1)*stride + elem
	if acc.ByteOffset < 0 || acc.Count < 0 || end > len(data) {
		return nil, fmt.Errorf("accessor %d spans %d..%d of a %d byte view", idx, acc.ByteOffset, end, len(data))
	}
	return acc, nil
}

// bufferView returns view idx and the bytes it covers.
func bufferView(doc *gltf.Document, idx int) (*gltf.BufferView, []byte, error) {
	if idx < 0 || idx >= len(doc.BufferViews) {
		return nil, nil, fmt.Errorf("buffer view %d out of range", idx)
	}
	bv := doc.BufferViews[idx]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, nil, fmt.Errorf("buffer %d out of range", bv.Buffer)
	}
	buf := doc.Buffers[bv.Buffer].Data
	if buf == nil {
		return nil, nil, fmt.Errorf("buffer %d has no data", bv.Buffer)
	}
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || end > len(buf) {
		return nil, nil, fmt.Errorf("buffer view %d spans %d..%d of a %d byte buffer", idx, bv.ByteOffset, end, len(buf))
	}
	return bv, buf[bv.ByteOffset:end], nil
}

func componentSize(ct gltf.ComponentType) int {
	switch ct {
	case gltf.ComponentUbyte, gltf.ComponentByte:
		return 1
	case gltf.ComponentUshort, gltf.ComponentShort:
		return 2
	default:
		return 4
	}
}

func components(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4, gltf.AccessorMat2:
		return 4
	case gltf.AccessorMat3:
		return 9
	default:
		return 16
	}
}

// documentTexture decodes the image used as base color by the first
// textured material, falling back to the first image in the document.
// External image URIs are resolved against dir.
func documentTexture(doc *gltf.Document, dir string) (*render.Texture, error) {
	if len(doc.Images) == 0 {
		return nil, nil
	}
	img := doc.Images[0]
	for _, mat := range doc.Materials {
		if mat == nil || mat.PBRMetallicRoughness == nil || mat.PBRMetallicRoughness.BaseColorTexture == nil {
			continue
		}
		ti := mat.PBRMetallicRoughness.BaseColorTexture.Index
		if ti < 0 || ti >= len(doc.Textures) {
			continue
		}
		if src := doc.Textures[ti].Source; src != nil && *src >= 0 && *src < len(doc.Images) {
			img = doc.Images[*src]
			break
		}
	}

	var data []byte
	switch {
	case img.BufferView != nil:
		var err error
		if _, data, err = bufferView(doc, *img.BufferView); err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}
	case img.URI != "":
		var err error
		if data, err = os.ReadFile(filepath.Join(dir, img.URI)); err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
	default:
		return nil, nil
	}

	decoded, _, err := render.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return render.TextureFromImage(decoded), nil
}
