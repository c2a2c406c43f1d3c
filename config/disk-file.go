package config

import (
	"io/ioutil"
	"os"
	"path"
	"strings"
	"sync"
)

// diskFile is a simple struct able to split file paths into the components to improve readability of code.
// Files are written with owner-only permissions since they hold connection credentials.
type diskFile struct {
	Dirname     string
	FileName    string
	FilePrefix  string
	FileExt     string
	FullPath    string
	mu          sync.Mutex
	fileCreated bool
}

func newDiskFileInConfigHomeDir(filename string) *diskFile {
	dirName := mustGetConfigHomeDir()
	f := &diskFile{Dirname: dirName, FileName: filename}
	f.FullPath = path.Join(dirName, filename)
	f.FileExt = strings.TrimLeft(path.Ext(filename), ".")
	f.FilePrefix = strings.TrimRight(f.FileName, "."+f.FileExt)
	return f
}

func (f *diskFile) Set(text []byte) (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.fileCreated { // if we haven't written the file yet this session...
		if err = makeDir(f.Dirname); err != nil {
			return err
		}
	}
	if err = ioutil.WriteFile(f.FullPath, text, 0600); err != nil {
		return err
	}
	f.fileCreated = true
	return nil
}

func (f *diskFile) Get() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(f.FullPath); os.IsNotExist(err) { // if the file does not exist...
		return nil, FileNotFoundError{name: f.FullPath}
	}
	return ioutil.ReadFile(f.FullPath)
}
