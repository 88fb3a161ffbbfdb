package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// SaveUploadedFile stores an uploaded course/bounty file under destDir and
// returns the public URL path it is served from.
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// Timestamped, sanitized filename
	safeName := unsafeFilenameChars.ReplaceAllString(file.Filename, "-")
	newFilename := time.Now().Format("20060102150405") + "-" + safeName
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/files/" + newFilename, nil
}
