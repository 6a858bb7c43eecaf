package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// backup writes every stored record to path as indented JSON.
func (cli *commandLine) backup(path string) error {
	backup, err := cli.reportSvc.Backup(context.Background())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding backup")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "writing backup")
	}
	fmt.Fprintf(cli.out, "backup written to %s\n", path)
	return nil
}

func (cli *commandLine) publishReport(sheetName string) error {
	n, err := cli.reportSvc.PublishToSheet(context.Background(), sheetName)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d rows published to sheet %q\n", n, sheetName)
	return nil
}
