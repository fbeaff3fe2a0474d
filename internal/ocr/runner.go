package ocr

import (
	"bytes"
	"context"
	"log"
	"os/exec"
	"strings"
	"time"
)

// Runner lets tests stub the external OCR commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		log.Printf("ocr.execRunner.Run: %s %s failed after %s: %v: %s",
			name, strings.Join(args, " "), time.Since(start), err, truncate(errb.String(), 500))
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
