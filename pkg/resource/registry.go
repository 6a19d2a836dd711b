// Package resource maps material and texture ids to loaded objects and
// decodes texture images from disk.
package resource

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	// Image decoders for LoadTexture.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
)

// Registry owns the materials and textures of a scene. Ids are assigned in
// insertion order starting at zero. A registry is filled before rendering
// and only read while a frame is drawn.
type Registry struct {
	materials []*models.Material
	textures  []render.Sampler
}

var (
	_ render.MaterialSource = (*Registry)(nil)
	_ render.TextureSource  = (*Registry)(nil)
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddMaterial stores mat and returns its id.
func (r *Registry) AddMaterial(mat models.Material) models.MaterialID {
	r.materials = append(r.materials, &mat)
	return models.MaterialID(len(r.materials) - 1)
}

// AddTexture stores s and returns its id.
func (r *Registry) AddTexture(s render.Sampler) models.TextureID {
	r.textures = append(r.textures, s)
	return models.TextureID(len(r.textures) - 1)
}

// Material implements render.MaterialSource.
func (r *Registry) Material(id models.MaterialID) (*models.Material, bool) {
	if id < 0 || int(id) >= len(r.materials) {
		return nil, false
	}
	return r.materials[id], true
}

// Texture implements render.TextureSource.
func (r *Registry) Texture(id models.TextureID) (render.Sampler, bool) {
	if id < 0 || int(id) >= len(r.textures) {
		return nil, false
	}
	return r.textures[id], true
}

// MaterialCount returns the number of registered materials.
func (r *Registry) MaterialCount() int { return len(r.materials) }

// TextureCount returns the number of registered textures.
func (r *Registry) TextureCount() int { return len(r.textures) }

// LoadTexture decodes a PNG, JPEG, BMP, TIFF or WebP file into a texture.
func LoadTexture(path string) (*render.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	tex, err := DecodeTexture(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tex, nil
}

// DecodeTexture decodes an encoded image of any registered format.
func DecodeTexture(r io.Reader) (*render.Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return render.TextureFromImage(img), nil
}

// DecodeTextureBytes decodes an in-memory image, such as one embedded in a
// glTF buffer.
func DecodeTextureBytes(data []byte) (*render.Texture, error) {
	return DecodeTexture(bytes.NewReader(data))
}
