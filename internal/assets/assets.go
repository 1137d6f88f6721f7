// Package assets resolves the sprite and sound paths named by the game into
// ebiten images and 16-bit stereo PCM.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindSound
)

// KindOf classifies a path by extension.
func KindOf(p string) Kind {
	switch strings.ToLower(path.Ext(p)) {
	case ".png":
		return KindImage
	case ".ogg", ".wav":
		return KindSound
	default:
		return KindUnknown
	}
}

// Handle is an opaque reference to an asset returned by Library.Load.
type Handle struct {
	path string
	kind Kind
}

func (h Handle) Path() string { return h.path }
func (h Handle) Kind() Kind   { return h.kind }

// Library loads assets lazily from fsys and caches the results, including
// failures, so a missing file is reported once.
type Library struct {
	fsys       fs.FS
	sampleRate int
	logger     *log.Logger

	images  map[string]*ebiten.Image
	sources map[string]image.Image
	sounds  map[string][]byte
	missing map[string]bool
}

// NewLibrary creates a library reading from fsys. Sounds are resampled to sampleRate.
func NewLibrary(fsys fs.FS, sampleRate int, logger *log.Logger) *Library {
	return &Library{
		fsys:       fsys,
		sampleRate: sampleRate,
		logger:     logger,
		images:     make(map[string]*ebiten.Image),
		sources:    make(map[string]image.Image),
		sounds:     make(map[string][]byte),
		missing:    make(map[string]bool),
	}
}

func (l *Library) Load(p string) Handle {
	return Handle{path: p, kind: KindOf(p)}
}

// Source returns the decoded image for h, or false if it cannot be read.
func (l *Library) Source(h Handle) (image.Image, bool) {
	if img, ok := l.sources[h.path]; ok {
		return img, true
	}
	if l.missing[h.path] {
		return nil, false
	}
	img, err := l.decodeImage(h.path)
	if err != nil {
		l.fail(h.path, err)
		return nil, false
	}
	l.sources[h.path] = img
	return img, true
}

// Image returns the ebiten image for h. When the file is missing or unreadable
// a disc of the given size and color is generated instead.
func (l *Library) Image(h Handle, size float64, c color.Color) *ebiten.Image {
	src, ok := l.Source(h)
	key := h.path
	if !ok {
		key = fmt.Sprintf("disc:%s:%v:%v", h.path, size, c)
	}
	if img, cached := l.images[key]; cached {
		return img
	}
	if !ok {
		src = Disc(int(size), c)
	}
	img := ebiten.NewImageFromImage(src)
	l.images[key] = img
	return img
}

// Sound returns the PCM of h, or false if it is missing or cannot be decoded.
func (l *Library) Sound(h Handle) ([]byte, bool) {
	if pcm, ok := l.sounds[h.path]; ok {
		return pcm, true
	}
	if l.missing[h.path] {
		return nil, false
	}
	pcm, err := l.decodeSound(h.path)
	if err != nil {
		l.fail(h.path, err)
		return nil, false
	}
	l.sounds[h.path] = pcm
	return pcm, true
}

func (l *Library) fail(p string, err error) {
	l.missing[p] = true
	if l.logger != nil {
		l.logger.Warn("asset unavailable, using fallback", "path", p, "err", err)
	}
}

func (l *Library) decodeImage(p string) (image.Image, error) {
	if KindOf(p) != KindImage {
		return nil, fmt.Errorf("assets: %s is not an image", p)
	}
	f, err := l.fsys.Open(p)
	if err != nil {
		return nil, fmt.Errorf("assets: open %s: %w", p, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", p, err)
	}
	return img, nil
}

func (l *Library) decodeSound(p string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", p, err)
	}

	var stream io.Reader
	switch strings.ToLower(path.Ext(p)) {
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(l.sampleRate, bytes.NewReader(data))
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(l.sampleRate, bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("assets: %s is not a sound", p)
	}
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", p, err)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", p, err)
	}
	return pcm, nil
}
