package model

// Artifact file names, relative to the public-assets directory.
const (
	VectorArtifactName = "we-are-future.svg"
	RasterArtifactName = "we-are-future-ai.png"
)

// Variant identifies which branch of the pipeline produced a Result.
type Variant string

const (
	VariantRemoteImage         Variant = "remote_image"
	VariantBasicPlaceholder    Variant = "basic_placeholder"
	VariantEnhancedPlaceholder Variant = "enhanced_placeholder"
)

// Result is the outcome of one pipeline run. The only implementations are
// RemoteImage, BasicPlaceholder and EnhancedPlaceholder.
type Result interface {
	Variant() Variant
	// ArtifactName is the file name the result must be written to.
	ArtifactName() string
	// Bytes is the exact content to persist.
	Bytes() []byte

	sealed()
}

// RemoteImage holds raster bytes downloaded from the image service.
type RemoteImage struct {
	Data []byte
}

func (RemoteImage) Variant() Variant     { return VariantRemoteImage }
func (RemoteImage) ArtifactName() string { return RasterArtifactName }
func (r RemoteImage) Bytes() []byte      { return r.Data }
func (RemoteImage) sealed()              {}

// BasicPlaceholder is the SVG rendered when no credential is configured.
type BasicPlaceholder struct {
	Markup string
}

func (BasicPlaceholder) Variant() Variant     { return VariantBasicPlaceholder }
func (BasicPlaceholder) ArtifactName() string { return VectorArtifactName }
func (b BasicPlaceholder) Bytes() []byte      { return []byte(b.Markup) }
func (BasicPlaceholder) sealed()              {}

// EnhancedPlaceholder is the SVG rendered after the remote path failed.
type EnhancedPlaceholder struct {
	Markup string
}

func (EnhancedPlaceholder) Variant() Variant     { return VariantEnhancedPlaceholder }
func (EnhancedPlaceholder) ArtifactName() string { return VectorArtifactName }
func (e EnhancedPlaceholder) Bytes() []byte      { return []byte(e.Markup) }
func (EnhancedPlaceholder) sealed()              {}

// ArtifactNames lists every file name a run may produce.
func ArtifactNames() []string {
	return []string{VectorArtifactName, RasterArtifactName}
}

// ContentTypeForName maps an artifact file name to the content type it holds.
func ContentTypeForName(name string) string {
	switch name {
	case VectorArtifactName:
		return "image/svg+xml"
	case RasterArtifactName:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
