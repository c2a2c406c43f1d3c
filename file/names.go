package file

import (
	"bufio"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/kirkwilson-git/samples/logger"
	"github.com/pkg/errors"
)

// WriteDirListing writes the name of every file in sourceDir to outputFileName,
// one name per line, overwriting any existing file. Returns the number of names written.
func WriteDirListing(log logger.Logger, sourceDir string, outputFileName string) (int, error) {
	entries, err := ioutil.ReadDir(sourceDir)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to read source directory %v", sourceDir)
	}
	f, err := os.Create(outputFileName)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to create listing file %v", outputFileName)
	}
	defer func() {
		_ = f.Close()
	}()
	w := bufio.NewWriter(f)
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err = w.WriteString(entry.Name() + "\n"); err != nil {
			return count, errors.Wrapf(err, "unable to write to listing file %v", outputFileName)
		}
		count++
	}
	if err = w.Flush(); err != nil {
		return count, errors.Wrapf(err, "unable to flush listing file %v", outputFileName)
	}
	log.Debug("wrote ", count, " file names to ", outputFileName)
	return count, nil
}

// GlobFiles returns the files in dir whose base name matches pattern,
// per filepath.Match. An empty pattern matches everything.
func GlobFiles(dir string, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "bad file pattern %v", pattern)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	return files, nil
}
