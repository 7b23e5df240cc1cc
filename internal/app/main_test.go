//go:build unix

package app

import (
	"fmt"
	"os"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"gradebench/internal/infrastructure"
)

// failGroupEnv makes the worker of the given group exit before publishing.
const failGroupEnv = "GRADEBENCH_TEST_FAIL_GROUP"

// TestMain doubles the test binary as the worker executable of the process
// backend: started with WorkerSpecEnv set, it runs one worker and exits.
func TestMain(m *testing.M) {
	if _, ok := os.LookupEnv(WorkerSpecEnv); ok {
		os.Exit(runTestWorker())
	}
	os.Exit(m.Run())
}

func runTestWorker() int {
	spec, err := WorkerSpecFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if os.Getenv(failGroupEnv) == strconv.Itoa(spec.Group) {
		fmt.Fprintf(os.Stderr, "group %d: failing on request\n", spec.Group)
		return 3
	}
	logger := zap.NewNop()
	if err := RunProcessWorker(logger, spec, infrastructure.NewTXTReportWriter(logger, 0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
