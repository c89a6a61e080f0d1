// utils/file_utils.go
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (10MB)
	maxFileSize = 10 * 1024 * 1024
	// Width of generated receipt thumbnails
	thumbnailWidth = 300
)

// Allowed receipt extensions. Receipts are images or PDFs.
var allowedReceiptExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
}

var filenameReg = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	// Remove any path components
	filename = filepath.Base(filename)
	return filenameReg.ReplaceAllString(filename, "")
}

// ValidateReceiptFile checks extension and size limits for a receipt upload.
func ValidateReceiptFile(filename string, size int64) error {
	if size > maxFileSize {
		return fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}
	ext := strings.ToLower(filepath.Ext(cleanFilename(filename)))
	if !allowedReceiptExts[ext] {
		return fmt.Errorf("unsupported receipt format. Allowed formats: jpg, jpeg, png, gif, pdf")
	}
	return nil
}

// InitializeStorage creates necessary directories for file storage
func InitializeStorage() error {
	dirs := []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, "receipts"),
		filepath.Join(uploadBaseDir, "thumbnails"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// SaveReceipt writes an uploaded receipt to local storage under a unique
// name and returns the URL it is served from. Image receipts also get a
// thumbnail under uploads/thumbnails.
func SaveReceipt(fileData []byte, originalName string) (string, error) {
	if err := ValidateReceiptFile(originalName, int64(len(fileData))); err != nil {
		return "", err
	}
	if err := InitializeStorage(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(cleanFilename(originalName)))
	filename := uuid.New().String() + ext
	fullPath := filepath.Join(uploadBaseDir, "receipts", filename)

	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to save receipt: %v", err)
	}

	if ext != ".pdf" {
		if err := writeThumbnail(fullPath, filename); err != nil {
			// Thumbnail failure is not fatal, the receipt itself is stored.
			fmt.Fprintf(os.Stderr, "thumbnail generation failed for %s: %v\n", filename, err)
		}
	}

	return baseURL + "/receipts/" + filename, nil
}

func writeThumbnail(srcPath, filename string) error {
	img, err := imaging.Open(srcPath)
	if err != nil {
		return err
	}
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	return imaging.Save(thumb, filepath.Join(uploadBaseDir, "thumbnails", filename))
}
