package edgar

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BulkDownload describes a fetched bulk data archive.
type BulkDownload struct {
	DownloadedPath string `json:"downloaded_path"`
	URL            string `json:"url"`
	FileSize       int64  `json:"file_size"`
}

// Extraction describes the result of unpacking a bulk archive.
type Extraction struct {
	DestDir        string   `json:"dest_dir"`
	ExtractedFiles []string `json:"extracted_files"`
	FileCount      int      `json:"file_count"`
}

func (s *Service) bulkSubmissionsURL() string {
	return s.WWWBaseURL + "/Archives/edgar/daily-index/bulkdata/submissions.zip"
}

func (s *Service) bulkCompanyFactsURL() string {
	return s.WWWBaseURL + "/Archives/edgar/daily-index/xbrl/companyfacts.zip"
}

// DownloadBulkSubmissions downloads the nightly bulk submissions
// archive, which carries the submissions document for every filer.
func (s *Service) DownloadBulkSubmissions(ctx context.Context, destPath string) (*Envelope, error) {
	return s.downloadBulk(ctx, s.bulkSubmissionsURL(), destPath)
}

// DownloadBulkCompanyFacts downloads the nightly bulk company facts
// archive, which carries the XBRL facts document for every filer.
func (s *Service) DownloadBulkCompanyFacts(ctx context.Context, destPath string) (*Envelope, error) {
	return s.downloadBulk(ctx, s.bulkCompanyFactsURL(), destPath)
}

func (s *Service) downloadBulk(ctx context.Context, url, destPath string) (*Envelope, error) {
	path, err := s.Client.Download(ctx, url, destPath, true)
	if err != nil {
		return nil, fmt.Errorf("download bulk archive: %w", err)
	}

	result := &BulkDownload{DownloadedPath: path, URL: url}
	if info, err := os.Stat(path); err == nil {
		result.FileSize = info.Size()
	}

	return envelope(result, url), nil
}

// ExtractArchive unpacks a bulk ZIP archive into destDir and returns
// the extracted file names. Entries escaping destDir are rejected.
func ExtractArchive(zipPath, destDir string) (*Extraction, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close() // nolint:errcheck // read-only archive handle

	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}
	if err := os.MkdirAll(absDest, 0o755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}

	names := make([]string, 0, len(reader.File))
	for _, entry := range reader.File {
		target := filepath.Join(absDest, entry.Name)
		if !strings.HasPrefix(target, absDest+string(os.PathSeparator)) {
			return nil, fmt.Errorf("archive entry %q escapes destination", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("create directory %q: %w", entry.Name, err)
			}
			names = append(names, entry.Name)
			continue
		}

		if err := extractFile(entry, target); err != nil {
			return nil, err
		}
		names = append(names, entry.Name)
	}

	return &Extraction{DestDir: absDest, ExtractedFiles: names, FileCount: len(names)}, nil
}

func extractFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %q: %w", entry.Name, err)
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %q: %w", entry.Name, err)
	}
	defer src.Close() // nolint:errcheck // read-only entry handle

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %q: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("extract %q: %w", entry.Name, err)
	}
	return dst.Close()
}
