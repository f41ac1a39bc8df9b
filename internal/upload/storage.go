// Package upload stores payment-proof and product images on local disk.
package upload

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const (
	MaxProofSize        = 5 << 20
	MaxProductImageSize = 10 << 20
	ProductImageWidth   = 800

	ProofDir   = "payment-proofs"
	ProductDir = "products"
)

var (
	ErrTooLarge    = errors.New("file too large")
	ErrNotImage    = errors.New("only image files are allowed")
	ErrUnsupported = errors.New("unsupported image format")
)

// proofExts are the only extensions a stored proof may carry, since
// /uploads serves files by extension.
var proofExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

// Storage lays files out under root/payment-proofs and root/products.
type Storage struct {
	root string
	now  func() time.Time
}

func NewStorage(root string) (*Storage, error) {
	for _, dir := range []string{ProofDir, ProductDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload directory: %w", err)
		}
	}
	return &Storage{root: root, now: time.Now}, nil
}

func (s *Storage) Root() string { return s.root }

// CheckProof validates a payment proof without touching disk.
func CheckProof(fh *multipart.FileHeader) error {
	if fh.Size > MaxProofSize {
		return ErrTooLarge
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return ErrNotImage
	}
	if !proofExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return ErrNotImage
	}
	return nil
}

// SaveProof writes the proof as payment-<millis>-<random><ext> and returns the
// bare filename.
func (s *Storage) SaveProof(fh *multipart.FileHeader) (string, error) {
	if err := CheckProof(fh); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := fmt.Sprintf("payment-%d-%s%s", s.now().UnixMilli(), uuid.New().String()[:8], ext)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(s.ProofPath(name))
	if err != nil {
		return "", fmt.Errorf("create proof file: %w", err)
	}
	// The header size is client-supplied; cap the copy as well.
	n, err := io.Copy(dst, io.LimitReader(src, MaxProofSize+1))
	closeErr := dst.Close()
	if err == nil && n > MaxProofSize {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(s.ProofPath(name))
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("write proof file: %w", err)
	}
	return name, nil
}

func (s *Storage) ProofPath(name string) string {
	return filepath.Join(s.root, ProofDir, filepath.Base(name))
}

func (s *Storage) RemoveProof(name string) error {
	err := os.Remove(s.ProofPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// SaveProductImage decodes a PNG or JPEG, shrinks it to at most 800px wide
// and stores it as JPEG. It returns the public path under /uploads.
func (s *Storage) SaveProductImage(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxProductImageSize {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".png":
		img, err = png.Decode(src)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(src)
	default:
		return "", ErrUnsupported
	}
	if err != nil {
		return "", ErrUnsupported
	}

	if img.Bounds().Dx() > ProductImageWidth {
		img = resize.Resize(ProductImageWidth, 0, img, resize.Lanczos3)
	}

	name := uuid.New().String() + ".jpg"
	path := filepath.Join(s.root, ProductDir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close image file: %w", err)
	}
	return "/uploads/" + ProductDir + "/" + name, nil
}

// RemovePublic deletes a file previously returned by SaveProductImage. Paths
// outside /uploads/products are ignored.
func (s *Storage) RemovePublic(publicPath string) {
	prefix := "/uploads/" + ProductDir + "/"
	if !strings.HasPrefix(publicPath, prefix) {
		return
	}
	os.Remove(filepath.Join(s.root, ProductDir, filepath.Base(publicPath)))
}
