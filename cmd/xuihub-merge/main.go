// Command xuihub-merge runs the inbound client merge engine against a
// local x-ui database copy and reports the outcome on stdout using the
// OK_/ERR_ line protocol.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/op/go-logging"

	"github.com/Emadhabibnia1385/xui-HUB/database/merge"
	"github.com/Emadhabibnia1385/xui-HUB/logger"
)

func parseIDList(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid inbound id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func main() {
	dbPath := flag.String("db", "", "path to the x-ui SQLite database working copy")
	target := flag.Int("target", 0, "target inbound id")
	sources := flag.String("sources", "", "comma-separated source inbound ids")
	out := flag.String("out", "", "write a finalized standalone database here; consumes the working copy")
	backupDir := flag.String("backup-dir", "", "directory for the pre-merge backup copy")
	requireBackup := flag.Bool("require-backup", false, "abort when the pre-merge backup cannot be written")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *verbose {
		logger.InitLogger(logging.DEBUG)
	} else {
		logger.InitLogger(logging.WARNING)
	}

	fail := func(err error) {
		line, code := merge.EncodeError(err)
		fmt.Println(line)
		os.Exit(code)
	}

	if *dbPath == "" || *target == 0 || *sources == "" {
		fmt.Fprintln(os.Stderr, "usage: xuihub-merge -db x-ui.db -target 3 -sources 1,2 [-out merged.db]")
		os.Exit(1)
	}

	sourceIDs, err := parseIDList(*sources)
	if err != nil {
		fail(err)
	}

	engine := merge.NewEngine(merge.Options{
		BackupDir:     *backupDir,
		RequireBackup: *requireBackup,
	})
	result, err := engine.Merge(*dbPath, merge.Request{
		TargetID:  *target,
		SourceIDs: sourceIDs,
	})
	if err != nil {
		fail(err)
	}

	if *out != "" {
		if err := merge.Finalize(*dbPath, *out); err != nil {
			fail(err)
		}
	}

	fmt.Println(merge.EncodeResult(result))
}
