package file

import (
	"archive/zip"
	"io"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kirkwilson-git/samples/logger"
	"github.com/pkg/errors"
)

// ZipFiles creates zipFileName containing each file in fileList.
// Entries are stored flat using the base file name so the source directory
// structure is not recorded in the archive.
func ZipFiles(log logger.Logger, zipFileName string, fileList []string) error {
	z, err := os.Create(zipFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create zip file %v", zipFileName)
	}
	defer func() {
		_ = z.Close()
	}()
	w := zip.NewWriter(z)
	for _, fileName := range fileList {
		f, err := os.Open(fileName)
		if err != nil {
			return errors.Wrapf(err, "unable to open file %v for zip %v", fileName, zipFileName)
		}
		entry, err := w.Create(filepath.Base(fileName))
		if err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "unable to add file %v to zip %v", fileName, zipFileName)
		}
		if _, err = io.Copy(entry, f); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "unable to write file %v to zip %v", fileName, zipFileName)
		}
		_ = f.Close()
	}
	log.Debug("created zip ", zipFileName, " with ", len(fileList), " entries")
	return w.Close()
}

// ZipSubFolders creates one zip archive per sub-folder of sourceDir in targetDir.
// Archives are named <prefix>_<folder>.zip with spaces removed.
// Folders named in skip are left alone. Returns the list of archives created.
func ZipSubFolders(log logger.Logger, sourceDir string, targetDir string, prefix string, skip []string) ([]string, error) {
	entries, err := ioutil.ReadDir(sourceDir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read source directory %v", sourceDir)
	}
	skipSet := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipSet[s] = struct{}{}
	}
	var created []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := skipSet[entry.Name()]; ok { // if the folder should be left alone...
			continue
		}
		folder := path.Join(sourceDir, entry.Name())
		files, err := ioutil.ReadDir(folder)
		if err != nil {
			return created, errors.Wrapf(err, "unable to read folder %v", folder)
		}
		fileList := make([]string, 0, len(files))
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			fileList = append(fileList, path.Join(folder, f.Name()))
		}
		zipName := path.Join(targetDir, strings.ReplaceAll(prefix+"_"+entry.Name(), " ", "")+".zip")
		if err = ZipFiles(log, zipName, fileList); err != nil {
			return created, err
		}
		created = append(created, zipName)
	}
	return created, nil
}
