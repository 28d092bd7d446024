package report

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"

	"github.com/robotsummary/robot-summary/pkg/api"
)

const (
	ReportFileName   = "output.xml"
	ReportFileNameXZ = "output.xml.xz"
)

// ResolveInput locates the report document. reportPath is either a directory
// holding output.xml (or output.xml.xz) or the document itself.
func ResolveInput(reportPath string) (string, error) {
	info, err := os.Stat(reportPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", api.ErrInputNotFound, reportPath)
		}
		return "", fmt.Errorf("unable to stat report path %s: %w", reportPath, err)
	}
	if !info.IsDir() {
		return reportPath, nil
	}

	for _, name := range []string{ReportFileName, ReportFileNameXZ} {
		candidate := filepath.Join(reportPath, name)
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("unable to stat report file %s: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("%w: %s", api.ErrInputNotFound, reportPath)
}

// ReadInput reads the whole document, decompressing xz reports.
func ReadInput(path string) ([]byte, error) {
	fd, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", api.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("unable to open report %s: %w", path, err)
	}
	defer fd.Close()

	var reader io.Reader = fd
	if strings.HasSuffix(path, ".xz") {
		xzReader, err := xz.NewReader(bufio.NewReader(fd))
		if err != nil {
			return nil, fmt.Errorf("unable to open xz report %s: %w", path, err)
		}
		reader = xzReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("unable to read report %s: %w", path, err)
	}
	return data, nil
}

// ReadSummary resolves and reads the report in reportPath, then summarizes it.
// The file is read in full before it is parsed. It returns the summary and the
// resolved document path.
func ReadSummary(reportPath string, opts ...api.Option) (*api.Summary, string, error) {
	path, err := ResolveInput(reportPath)
	if err != nil {
		return nil, "", err
	}

	log.Infof("Reading %s file started", filepath.Base(path))
	data, err := ReadInput(path)
	if err != nil {
		return nil, path, err
	}
	log.Infof("Reading %s file completed", filepath.Base(path))

	summary, err := api.SummarizeReader(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, path, err
	}
	return summary, path, nil
}
