package file

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"distro-go/internal/config"
	"distro-go/internal/lib/cloudinary"
)

// UploadResult holds upload result
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// UploadImage validates and uploads an image to the CDN subfolder.
func UploadImage(file *multipart.FileHeader, subfolder string) (*UploadResult, error) {
	if err := ValidateFile(file); err != nil {
		return nil, err
	}

	result, err := cloudinary.Upload(file, subfolder)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		URL:      result.URL,
		PublicID: result.PublicID,
	}, nil
}

// DeleteFile deletes a file from CDN
func DeleteFile(publicID string) error {
	return cloudinary.Destroy(publicID)
}

// IsAllowedFileType checks if file type is allowed
func IsAllowedFileType(filename string) bool {
	cfg := config.Cfg

	ext := strings.ToLower(filepath.Ext(filename))
	ext = strings.TrimPrefix(ext, ".")

	for _, allowed := range cfg.Upload.AllowedFileTypes {
		if ext == allowed {
			return true
		}
	}

	return false
}

// ValidateFile validates file size and type
func ValidateFile(file *multipart.FileHeader) error {
	cfg := config.Cfg

	if file.Size > cfg.Upload.MaxFileSize {
		return fmt.Errorf("file exceeds the %d byte limit", cfg.Upload.MaxFileSize)
	}

	if !IsAllowedFileType(file.Filename) {
		return fmt.Errorf("file type %s is not allowed", filepath.Ext(file.Filename))
	}

	return nil
}

// UpdateFile replaces an image: the old public ID is destroyed after the new
// upload succeeds.
func UpdateFile(oldPublicID string, newFile *multipart.FileHeader, subfolder string) (*UploadResult, error) {
	result, err := UploadImage(newFile, subfolder)
	if err != nil {
		return nil, err
	}

	if oldPublicID != "" {
		cloudinary.Destroy(oldPublicID)
	}

	return result, nil
}
