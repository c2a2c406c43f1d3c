package actions

import (
	"github.com/kirkwilson-git/samples/file"
	"github.com/kirkwilson-git/samples/helper"
	"github.com/kirkwilson-git/samples/logger"
)

type ZipConfig struct {
	SourceDir        string `errorTxt:"source directory" mandatory:"yes"`
	TargetDir        string `errorTxt:"target directory" mandatory:"yes"`
	Prefix           string `errorTxt:"zip file prefix" mandatory:"yes"`
	Skip             []string // sub-folder names to leave alone, e.g. the target folder itself.
	LogLevel         string
	StackDumpOnPanic bool
}

// RunZip archives each sub-folder of SourceDir into its own zip file in
// TargetDir, named <Prefix>_<folder>.zip.
func RunZip(cfg *ZipConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	log := logger.NewLogger("sfutil", cfg.LogLevel, cfg.StackDumpOnPanic)
	created, err := file.ZipSubFolders(log, cfg.SourceDir, cfg.TargetDir, cfg.Prefix, cfg.Skip)
	if err != nil {
		return err
	}
	log.Info("Created ", len(created), " zip file(s) in ", cfg.TargetDir)
	return nil
}
