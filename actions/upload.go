package actions

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kirkwilson-git/samples/aws/s3"
	"github.com/kirkwilson-git/samples/file"
	"github.com/kirkwilson-git/samples/helper"
	"github.com/kirkwilson-git/samples/logger"
	"github.com/kirkwilson-git/samples/retry"
	"golang.org/x/net/context"
)

type UploadConfig struct {
	Connections      ConnectionLoader `errorTxt:"connections getter" mandatory:"yes"`
	ConnectionName   string           `errorTxt:"connection name" mandatory:"yes"`
	SourceDir        string           `errorTxt:"source directory" mandatory:"yes"`
	Pattern          string           // file glob within SourceDir; defaults to all files.
	TargetPrefix     string           // key prefix within the bucket, no leading slash.
	Retry            retry.Policy
	LogLevel         string
	StackDumpOnPanic bool
}

// RunUpload copies every matching file in SourceDir to the S3 bucket held by
// the named connection. Transient failures on an individual file are retried
// before the run is abandoned.
func RunUpload(cfg *UploadConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if cfg.Pattern == "" {
		cfg.Pattern = "*"
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}
	log := logger.NewLogger("sfutil", cfg.LogLevel, cfg.StackDumpOnPanic)
	conn, err := cfg.Connections.LoadConnection(cfg.ConnectionName)
	if err != nil {
		return err
	}
	bucket := s3.NewAwsBucket(&conn)
	if err := helper.ValidateStructIsPopulated(bucket); err != nil {
		return err
	}
	client := s3.NewBasicClient(bucket.Name, bucket.Region, bucket.Prefix)
	return uploadFiles(log, client, cfg.SourceDir, cfg.Pattern, cfg.TargetPrefix, cfg.Retry)
}

func uploadFiles(log logger.Logger, client s3.BufferPutter, sourceDir string, pattern string, targetPrefix string, policy retry.Policy) error {
	files, err := file.GlobFiles(sourceDir, pattern)
	if err != nil {
		return err
	}
	if targetPrefix != "" && !strings.HasSuffix(targetPrefix, "/") { // keys are <prefix>/<file name>.
		targetPrefix += "/"
	}
	for i, f := range files {
		key := targetPrefix + filepath.Base(f)
		err := policy.Do(context.Background(), log, "upload of "+key, func() error {
			fh, err := os.Open(f)
			if err != nil {
				return err
			}
			defer fh.Close()
			return client.BufferPut(key, fh)
		})
		if err != nil {
			return err
		}
		log.Info("Uploaded file ", i+1, " of ", len(files), ": ", key)
	}
	return nil
}
