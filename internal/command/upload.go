// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/famo/internal/errs"
)

// UploadCommandAction puts the blob in --file under --key and removes the
// file. It is what a detached upload runs, with its output going to a log
// file beside the blob.
func UploadCommandAction(ctx context.Context, cmd *cli.Command) error {
	key := cmd.String("key")
	file := cmd.String("file")
	if key == "" || file == "" {
		return errs.Config("upload", errors.New("--key and --file are required"))
	}
	defer os.Remove(file)

	logger := Logger(cmd).WithFields(log.Fields{"key": key, "file": file})

	blob, err := os.ReadFile(file)
	if err != nil {
		return errs.Filesystem("read", file, err)
	}

	st, _, err := NewStore(ctx, cmd)
	if err != nil {
		return err
	}

	logger.Infof("--- Uploading (%s)", humanize.Bytes(uint64(len(blob))))
	if err := st.Put(ctx, key, blob); err != nil {
		logger.WithError(err).Error("failed to upload the cache")
		return err
	}
	logger.Info("--- ---> Done!")
	return nil
}

func UploadCommandBuilder() *cli.Command {
	return &cli.Command{
		Name:   "upload",
		Usage:  "upload a packed artifact (used by --async)",
		Hidden: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "key",
				Usage: "object key",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "encoded artifact to upload; removed afterwards",
			},
		},
		Action: UploadCommandAction,
	}
}
