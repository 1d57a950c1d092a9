package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/policy"
)

func (cli *commandLine) importGrades(asUname, path string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByUsername(ctx, asUname)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening CSV")
	}
	defer func() { _ = f.Close() }()

	summary, err := cli.recordSvc.ImportCSV(ctx, policy.ActorOf(usr), f)
	fmt.Printf("%d row(s) applied, %d skipped\n", summary.AppliedCount, len(summary.SkippedRows))
	for _, s := range summary.SkippedRows {
		fmt.Printf("  row %d: %s\n", s.RowIndex, s.Reason)
	}
	return err
}
