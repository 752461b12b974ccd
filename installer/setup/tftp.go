package setup

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/openinstaller/installer/lib/json"
	"github.com/openinstaller/installer/lib/log"

	"github.com/pin/tftp"
)

var tftpFiles = map[string]bool{ // If true, file is required.
	"settings.json": true,
	"timezone-done": false,
	"userinfo-done": false,
}

func loadTftp(tftpServer string, logger log.DebugLogger) (*Settings, error) {
	client, err := tftp.NewClient(tftpServer + ":69")
	if err != nil {
		return nil, err
	}
	payloads := make(map[string]*bytes.Buffer, len(tftpFiles))
	for name, required := range tftpFiles {
		logger.Debugf(1, "downloading: %s\n", name)
		wt, err := client.Receive(name, "octet")
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") && !required {
				logger.Debugf(2, "error receiving: %s: %s\n", name, err)
				continue
			}
			return nil, fmt.Errorf("error receiving: %s: %s", name, err)
		}
		buffer := &bytes.Buffer{}
		if _, err := wt.WriteTo(buffer); err != nil {
			return nil, fmt.Errorf("error downloading: %s: %s", name, err)
		}
		logger.Debugf(2, "downloaded: %s\n", name)
		payloads[name] = buffer
	}
	settings := New()
	if err := json.Read(payloads["settings.json"], settings); err != nil {
		return nil, fmt.Errorf("error decoding settings.json: %s", err)
	}
	// A preseeded server can mark the readiness flags up front, making the
	// installation fully unattended.
	if payloads["timezone-done"] != nil {
		settings.TimezoneDone.Set()
	}
	if payloads["userinfo-done"] != nil {
		settings.UserInfoDone.Set()
	}
	return settings, nil
}
