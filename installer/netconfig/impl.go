package netconfig

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openinstaller/installer/lib/fsutil"
	"github.com/openinstaller/installer/lib/log"
	"github.com/openinstaller/installer/lib/log/prefixlogger"

	"github.com/d2g/dhcp4"
	"github.com/d2g/dhcp4client"
	dhcp "github.com/krolaw/dhcp4" // Used for option strings.
)

type dhcpResponse struct {
	error  error
	name   string
	packet dhcp4.Packet
}

func copyProfiles(targetDir string, logger log.DebugLogger) error {
	sourceDir := filepath.Join("/", profileDir)
	if _, err := os.Stat(sourceDir); err != nil {
		if os.IsNotExist(err) {
			logger.Debugf(0, "no connection profiles at: %s\n", sourceDir)
			return nil
		}
		return err
	}
	destDir := filepath.Join(targetDir, profileDir)
	if err := os.MkdirAll(destDir, fsutil.DirPerms); err != nil {
		return err
	}
	logger.Debugf(0, "copying connection profiles to: %s\n", destDir)
	return fsutil.CopyTree(destDir, sourceDir)
}

func listBroadcastInterfaces() ([]net.Interface, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var broadcasters []net.Interface
	for _, iface := range interfaces {
		if iface.Flags&net.FlagBroadcast == 0 ||
			iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) < 1 {
			continue
		}
		broadcasters = append(broadcasters, iface)
	}
	return broadcasters, nil
}

func probe(timeout time.Duration, logger log.DebugLogger) (*Info, error) {
	interfaces, err := listBroadcastInterfaces()
	if err != nil {
		return nil, err
	}
	if len(interfaces) < 1 {
		return nil, errors.New("no broadcast interfaces")
	}
	responseChannel := make(chan dhcpResponse, len(interfaces))
	cancelChannel := make(chan struct{})
	defer close(cancelChannel)
	logger.Println("waiting for a DHCP response on each interface")
	for _, iface := range interfaces {
		go requestOnInterface(iface, cancelChannel, responseChannel,
			prefixlogger.New(iface.Name+": ", logger))
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for range interfaces {
		select {
		case response := <-responseChannel:
			if response.error != nil {
				logger.Println(response.error)
				continue
			}
			return makeInfo(response, logger), nil
		case <-timer.C:
			return nil, errors.New("timed out waiting for DHCP")
		}
	}
	return nil, errors.New("no DHCP response on any interface")
}

func requestOnInterface(iface net.Interface, cancelChannel <-chan struct{},
	responseChannel chan<- dhcpResponse, logger log.DebugLogger) {
	packetSocket, err := dhcp4client.NewPacketSock(iface.Index)
	if err != nil {
		responseChannel <- dhcpResponse{
			error: fmt.Errorf("%s: failed to create DHCP socket: %s",
				iface.Name, err)}
		return
	}
	defer packetSocket.Close()
	client, err := dhcp4client.New(
		dhcp4client.HardwareAddr(iface.HardwareAddr),
		dhcp4client.Connection(packetSocket),
		dhcp4client.Timeout(time.Second*5))
	if err != nil {
		responseChannel <- dhcpResponse{
			error: fmt.Errorf("%s: failed to create DHCP client: %s",
				iface.Name, err)}
		return
	}
	defer client.Close()
	for ; ; time.Sleep(100 * time.Millisecond) {
		select {
		case <-cancelChannel:
			logger.Debugln(1, "cancelling DHCP attempts")
			return
		default:
		}
		logger.Debugln(1, "DHCP attempt")
		ok, packet, err := client.Request()
		if err != nil {
			logger.Debugf(1, "DHCP failed: %s\n", err)
			continue
		}
		if !ok {
			continue
		}
		responseChannel <- dhcpResponse{name: iface.Name, packet: packet}
		return
	}
}

func makeInfo(response dhcpResponse, logger log.DebugLogger) *Info {
	options := response.packet.ParseOptions()
	logOptions(options, logger)
	info := &Info{Interface: response.name}
	if hostname := options[dhcp4.OptionHostName]; len(hostname) > 0 {
		info.Hostname = strings.ToLower(string(hostname))
	}
	servers := options[dhcp4.OptionDomainNameServer]
	for len(servers) >= 4 {
		info.NameServers = append(info.NameServers, net.IP(servers[:4]))
		servers = servers[4:]
	}
	if domain := options[dhcp4.OptionDomainName]; len(domain) > 0 {
		info.SearchDomains = strings.Fields(string(domain))
	}
	return info
}

func logOptions(options dhcp4.Options, logger log.DebugLogger) {
	for code, value := range options {
		stringCode := dhcp.OptionCode(code).String()
		logger.Debugf(2, "option %3d/%s: %#x%s\n", code, stringCode, value,
			formatText(value))
	}
}

func formatText(data []byte) string {
	for _, ch := range data {
		if ch < 0x20 || ch > 0x7e {
			return ""
		}
	}
	return "(\"" + string(data) + "\")"
}

func writeResolvConf(writer io.Writer, info *Info) error {
	if len(info.SearchDomains) > 0 {
		_, err := fmt.Fprintf(writer, "search %s\n",
			strings.Join(info.SearchDomains, " "))
		if err != nil {
			return err
		}
	}
	for _, server := range info.NameServers {
		if _, err := fmt.Fprintf(writer, "nameserver %s\n", server); err != nil {
			return err
		}
	}
	return nil
}
