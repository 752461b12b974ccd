package transfer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Progress events are emitted only every throttleInterval files, to bound
// event traffic during large transfers.
const throttleInterval = 100

// rsync --progress per-file lines end with "(xfr#N, ir-chk=R/T)".
var progressRegexp = regexp.MustCompile(`xfr#(\d+), ir-chk=(\d+)/(\d+)`)

func countFiles(sourceDirs []string) (uint64, error) {
	var total uint64
	for _, sourceDir := range sourceDirs {
		err := filepath.Walk(sourceDir,
			func(pathname string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				total++
				return nil
			})
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

func (t *Tracker) copy(sourceDir, destDir string) error {
	// Trailing slash: copy the contents of sourceDir, not the directory
	// itself.
	source := strings.TrimSuffix(sourceDir, "/") + "/"
	cmd := exec.Command("rsync", "-ar", "--progress", source, destDir)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	lastCount, scanErr := t.parseStream(stdout)
	if scanErr != nil {
		// A broken pipe only truncates progress reporting: the exit
		// status below still reports copy failures.
		t.logger.Printf("error reading copy output: %s\n", scanErr)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("error running: rsync: %s", err)
	}
	t.offset += lastCount
	return nil
}

// parseStream consumes the copy tool's output and returns the number of
// files the sub-phase processed, plus any read error from the stream.
func (t *Tracker) parseStream(reader io.Reader) (uint64, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(scanLinesOrReturns)
	var lastCount uint64
	for scanner.Scan() {
		if count, ok := t.parseLine(scanner.Text()); ok {
			lastCount = count
		}
	}
	return lastCount, scanner.Err()
}

// parseLine processes one line of copy tool output, returning the number of
// files this sub-phase has processed if the line carried a progress field.
// The count is total minus remaining from the ir-chk field, not the xfr
// transfer number: one transfer can create many files (hardlinks), so the
// transfer number undercounts. Unrecognised lines are ignored.
func (t *Tracker) parseLine(line string) (uint64, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, false
	}
	if matches := progressRegexp.FindStringSubmatch(line); matches != nil {
		remaining, err := strconv.ParseUint(matches[2], 10, 64)
		if err != nil {
			return 0, false
		}
		total, err := strconv.ParseUint(matches[3], 10, 64)
		if err != nil || remaining > total {
			return 0, false
		}
		count := total - remaining
		t.filesCopied = t.offset + count
		if t.filesCopied%throttleInterval == 0 {
			t.emitPercent()
		}
		return count, true
	}
	if strings.ContainsRune(line, '%') {
		return 0, false // Mid-file byte progress, not a new file.
	}
	// Anything else is a filename: the label is kept current but the
	// observer only hears about every throttle interval's worth.
	t.currentFile = line
	if t.filesCopied%throttleInterval == 0 && t.events != nil {
		t.events.Info("copying: " + line)
	}
	return 0, false
}

func (t *Tracker) emitPercent() {
	if t.events == nil || t.totalFiles == 0 {
		return
	}
	fraction := float64(t.filesCopied) / float64(t.totalFiles)
	if fraction > 1.0 {
		fraction = 1.0
	}
	t.events.Percent(fraction)
}

// rsync rewrites its per-file progress line with carriage returns: treat
// both \n and \r as line terminators.
func scanLinesOrReturns(data []byte, atEOF bool) (int, []byte, error) {
	for index, b := range data {
		if b == '\n' || b == '\r' {
			return index + 1, data[:index], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
