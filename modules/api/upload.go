package api

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// contentTypeByExt maps file extensions to MIME types.
var contentTypeByExt = map[string]string{
	".txt":  "text/plain",
	".html": "text/html",
	".css":  "text/css",
	".json": "application/json",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// maxNameAttempts bounds the suffixes tried when a stored name is taken.
const maxNameAttempts = 100

// uploadHandler handles POST /upload. The file is stored under the
// current Unix millisecond timestamp plus its original extension; a
// numeric suffix is added when that name already exists.
func (m *APIModule) uploadHandler(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "missing_file",
			Message: "No file uploaded",
		})
	}

	if m.cfg.MaxUploadSize > 0 && fh.Size > m.cfg.MaxUploadSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(ErrorResponse{
			Error:   "file_too_large",
			Message: "File exceeds the upload size limit",
		})
	}

	base := strconv.FormatInt(time.Now().UnixMilli(), 10)
	name, err := storeUpload(fh, m.cfg.UploadDir, base, filepath.Ext(fh.Filename))
	if err != nil {
		m.logger.Error("Failed to store upload", "filename", fh.Filename, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "upload_failed",
			Message: "Failed to store file",
		})
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = detectContentType(fh.Filename)
	}

	m.logger.Info("File uploaded", "file", name, "size", fh.Size, "type", contentType)
	return c.Status(fiber.StatusCreated).JSON(UploadResponse{
		URL:  "/uploads/" + name,
		Type: contentType,
	})
}

// storeUpload copies fh into dir under base+ext, or base-N+ext when that
// name is taken, and returns the name used. Existing files are never
// overwritten.
func storeUpload(fh *multipart.FileHeader, dir, base, ext string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, name, err := createUnique(dir, base, ext)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(filepath.Join(dir, name))
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(filepath.Join(dir, name))
		return "", fmt.Errorf("close upload: %w", err)
	}
	return name, nil
}

// createUnique creates a new file in dir named base+ext, falling back to
// base-1+ext, base-2+ext and so on while the name exists.
func createUnique(dir, base, ext string) (*os.File, string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		name := base + ext
		if i > 0 {
			name = base + "-" + strconv.Itoa(i) + ext
		}
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create upload: %w", err)
		}
	}
	return nil, "", fmt.Errorf("create upload: no free name for %s%s", base, ext)
}

func detectContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if contentType, ok := contentTypeByExt[ext]; ok {
		return contentType
	}
	return "application/octet-stream"
}
