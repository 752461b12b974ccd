package loadflags

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func loadFlagDir(dirname string) error {
	for _, name := range []string{"flags.default", "flags.extra"} {
		if err := loadFlagFile(filepath.Join(dirname, name)); err != nil {
			return err
		}
	}
	return nil
}

func loadFlagFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		name, value, found := strings.Cut(line, "=")
		if !found {
			return fmt.Errorf("%s: no value for: %s", filename, line)
		}
		name = strings.TrimSpace(name)
		if strings.ContainsRune(name, ' ') {
			return fmt.Errorf("%s: bad flag name: %s", filename, line)
		}
		err := flag.CommandLine.Set(name, strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %s", filename, err)
		}
	}
	return scanner.Err()
}
