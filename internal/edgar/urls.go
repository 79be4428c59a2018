package edgar

import "strings"

// FilingIndexURL returns the URL of the filing's index page, which
// lists every document in the submission.
func (s *Service) FilingIndexURL(cik, accession string) string {
	return s.WWWBaseURL + "/Archives/edgar/data/" + PadCIK(cik) + "/" + accession + "-index.html"
}

// CompleteSubmissionURL returns the URL of the filing's complete
// submission text file.
func (s *Service) CompleteSubmissionURL(cik, accession string) string {
	return s.WWWBaseURL + "/Archives/edgar/data/" + PadCIK(cik) + "/" + accession + ".txt"
}

// FilingFolderURL returns the URL of the filing's document folder.
// The folder path uses the accession number without dashes.
func (s *Service) FilingFolderURL(cik, accession string) string {
	return s.WWWBaseURL + "/Archives/edgar/data/" + PadCIK(cik) + "/" + StripAccessionDashes(accession) + "/"
}

// ArchiveURL converts an EDGAR path from an index file, such as
// "edgar/data/320193/0000320193-25-000010.txt", into a full URL.
func (s *Service) ArchiveURL(edgarPath string) string {
	path := strings.TrimLeft(edgarPath, "/")
	switch {
	case strings.HasPrefix(path, "edgar/data/"):
		path = strings.TrimPrefix(path, "edgar/data/")
	case strings.HasPrefix(path, "edgar/"):
		path = strings.TrimPrefix(path, "edgar/")
	}
	return s.WWWBaseURL + "/Archives/edgar/data/" + path
}
