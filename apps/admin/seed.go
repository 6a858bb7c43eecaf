package main

import (
	"context"
	"fmt"

	"github.com/chamadaweb/chamada/core/sample"
)

func (cli *commandLine) seed() error {
	seeded, err := sample.Seed(context.Background(), cli.usrRepo, cli.schoolRepo, cli.creds)
	if err != nil {
		return err
	}
	if seeded {
		fmt.Fprintln(cli.out, "sample data seeded")
	} else {
		fmt.Fprintln(cli.out, "database already has users; nothing seeded")
	}
	return nil
}
