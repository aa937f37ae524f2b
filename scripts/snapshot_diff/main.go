// Command snapshot_diff reports drift between the gateway's file fallback snapshots and
// the live school backend, e.g. records created while the backend was down.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/noah-isme/school-portal/internal/catalog"
	"github.com/noah-isme/school-portal/internal/fallback"
	"github.com/noah-isme/school-portal/internal/models"
	"github.com/noah-isme/school-portal/internal/remote"
	"github.com/noah-isme/school-portal/internal/resource"
)

type report struct {
	Resource     string
	SnapshotOnly []string
	BackendOnly  []string
	Changed      []string
	Error        error
}

func (r report) clean() bool {
	return r.Error == nil && len(r.SnapshotOnly)+len(r.BackendOnly)+len(r.Changed) == 0
}

func main() {
	var (
		baseURL string
		dir     string
		token   string
		timeout time.Duration
		strict  bool
	)

	flag.StringVar(&baseURL, "backend", "http://localhost:5000", "School backend base URL")
	flag.StringVar(&dir, "dir", "./fallback", "Fallback snapshot directory")
	flag.StringVar(&token, "token", "", "Bearer token for the backend")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.BoolVar(&strict, "strict", false, "Exit non-zero when any resource drifted")
	flag.Parse()

	backend, err := fallback.NewFile(dir)
	if err != nil {
		log.Fatalf("failed to open snapshots: %v", err)
	}
	cfg := remote.Config{BaseURL: baseURL, Timeout: timeout, Token: token}
	ctx := context.Background()

	reports := []report{
		diff[models.Student](ctx, catalog.Students, cfg, backend),
		diff[models.Teacher](ctx, catalog.Teachers, cfg, backend),
		diff[models.Class](ctx, catalog.Classes, cfg, backend),
		diff[models.AttendanceRecord](ctx, catalog.Attendance, cfg, backend),
		diff[models.Assignment](ctx, catalog.Assignments, cfg, backend),
		diff[models.Event](ctx, catalog.Events, cfg, backend),
		diff[models.Application](ctx, catalog.Applications, cfg, backend),
	}

	drifted := printReport(reports)
	fmt.Printf("Drifted resources: %d of %d\n", drifted, len(reports))
	if strict && drifted > 0 {
		os.Exit(1)
	}
}

func diff[T resource.Entity[T]](ctx context.Context, name string, cfg remote.Config, backend fallback.Backend) report {
	rep := report{Resource: name}
	live, err := remote.NewClient[T](name, cfg).List(ctx)
	if err != nil {
		rep.Error = err
		return rep
	}
	snapshot := fallback.NewSnapshot[T](name, backend, nil, nil).Read(ctx)

	liveByID := index(live)
	snapByID := index(snapshot)
	for id, rec := range snapByID {
		other, ok := liveByID[id]
		if !ok {
			rep.SnapshotOnly = append(rep.SnapshotOnly, id)
			continue
		}
		if !sameRecord(rec, other) {
			rep.Changed = append(rep.Changed, id)
		}
	}
	for id := range liveByID {
		if _, ok := snapByID[id]; !ok {
			rep.BackendOnly = append(rep.BackendOnly, id)
		}
	}
	sort.Strings(rep.SnapshotOnly)
	sort.Strings(rep.BackendOnly)
	sort.Strings(rep.Changed)
	return rep
}

func index[T resource.Entity[T]](items []T) map[string]T {
	out := make(map[string]T, len(items))
	for _, item := range items {
		out[item.GetID()] = item
	}
	return out
}

func sameRecord(a, b interface{}) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(aj, bj)
}

func printReport(reports []report) int {
	fmt.Println("Snapshot Diff Report")
	fmt.Println("====================")
	drifted := 0
	for _, r := range reports {
		status := "OK"
		switch {
		case r.Error != nil:
			status = "ERROR"
		case !r.clean():
			status = "DIFF"
		}
		if !r.clean() {
			drifted++
		}
		fmt.Printf("[%s] %s\n", status, r.Resource)
		if r.Error != nil {
			fmt.Printf("  Error: %v\n", r.Error)
			continue
		}
		if len(r.SnapshotOnly) > 0 {
			fmt.Printf("  Only in snapshot: %v\n", r.SnapshotOnly)
		}
		if len(r.BackendOnly) > 0 {
			fmt.Printf("  Only in backend: %v\n", r.BackendOnly)
		}
		if len(r.Changed) > 0 {
			fmt.Printf("  Changed: %v\n", r.Changed)
		}
	}
	return drifted
}
